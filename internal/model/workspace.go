package model

// Workspace is everything a tutor keeps: the block collection plus the tag,
// custom view and TOP-3 history collections that hang off it.
type Workspace struct {
	Blocks      []Block       `json:"blocks"`
	Tags        []Tag         `json:"tags"`
	CustomViews []CustomView  `json:"customViews"`
	History     []Top3History `json:"history"`
}

// Clone returns a workspace sharing no slices with w.
func (w Workspace) Clone() Workspace {
	out := Workspace{
		Blocks:      make([]Block, len(w.Blocks)),
		Tags:        append([]Tag(nil), w.Tags...),
		CustomViews: make([]CustomView, len(w.CustomViews)),
		History:     make([]Top3History, len(w.History)),
	}
	for i, b := range w.Blocks {
		out.Blocks[i] = b.Clone()
	}
	for i, v := range w.CustomViews {
		v.PropertyIDs = append([]PropertyType(nil), v.PropertyIDs...)
		out.CustomViews[i] = v
	}
	for i, h := range w.History {
		h.Blocks = append([]HistoryBlock(nil), h.Blocks...)
		out.History[i] = h
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	return out
}
