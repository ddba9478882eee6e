package model

import "strings"

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagSet resolves tag references by id first, then by case-insensitive name.
type TagSet []Tag

func (s TagSet) ResolveTag(ref string) (Tag, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Tag{}, false
	}
	for _, t := range s {
		if t.ID == ref {
			return t, true
		}
	}
	for _, t := range s {
		if strings.EqualFold(t.Name, ref) {
			return t, true
		}
	}
	return Tag{}, false
}

// CustomView keeps blocks carrying at least one of PropertyIDs.
type CustomView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	PropertyIDs []PropertyType `json:"propertyIds"`
}

// HistoryBlock is the frozen snapshot of a TOP-3 block at archival time.
type HistoryBlock struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// Top3History is the archive bucket for one day.
type Top3History struct {
	Date   Day            `json:"date"`
	Blocks []HistoryBlock `json:"blocks"`
}
