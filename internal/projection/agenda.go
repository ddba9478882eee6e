package projection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sandeepkv93/tutord/internal/model"
)

const DaysPerWeek = 7

// Column is one day of the week grid.
type Column struct {
	Day       model.Day
	Lessons   []model.Block
	Deadlines []model.Block
}

type WeekGrid struct {
	Start   model.Day
	Columns [DaysPerWeek]Column
}

// OnDay returns every live block active on day, recurrence applied, in
// agenda order.
func OnDay(blocks []model.Block, day model.Day) []model.Block {
	out := keep(blocks, func(b model.Block) bool { return model.AppearsOnDate(b, day) })
	SortAgenda(out)
	return out
}

// Deadlines is OnDay without lessons: blocks linked to a person are shown in
// the lesson lane instead.
func Deadlines(blocks []model.Block, day model.Day) []model.Block {
	out := keep(blocks, func(b model.Block) bool {
		return !b.Has(model.PropertyPerson) && model.AppearsOnDate(b, day)
	})
	SortAgenda(out)
	return out
}

// Lessons returns person-linked blocks active on day.
func Lessons(blocks []model.Block, day model.Day) []model.Block {
	out := keep(blocks, func(b model.Block) bool {
		return b.Has(model.PropertyPerson) && model.AppearsOnDate(b, day)
	})
	SortAgenda(out)
	return out
}

// Week expands the Sunday-based week containing day.
func Week(blocks []model.Block, day model.Day) WeekGrid {
	start := day.WeekStart()
	grid := WeekGrid{Start: start}
	for i := 0; i < DaysPerWeek; i++ {
		d := start.AddDays(i)
		grid.Columns[i] = Column{
			Day:       d,
			Lessons:   Lessons(blocks, d),
			Deadlines: Deadlines(blocks, d),
		}
	}
	return grid
}

// SortAgenda orders blocks within a day: timed entries by start time first,
// untimed entries after them, then by anchor date, title and id.
func SortAgenda(blocks []model.Block) {
	slices.SortStableFunc(blocks, compareAgenda)
}

// Callers sort a single day's agenda, where the anchor date only breaks ties.
func compareAgenda(a, b model.Block) int {
	da, _ := model.Lookup[model.DateValue](a)
	db, _ := model.Lookup[model.DateValue](b)
	if r := compareClock(da.Time, db.Time); r != 0 {
		return r
	}
	if r := cmp.Compare(da.Date, db.Date); r != 0 {
		return r
	}
	if r := cmp.Compare(strings.ToLower(a.Title()), strings.ToLower(b.Title())); r != 0 {
		return r
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareClock(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return cmp.Compare(a, b)
	}
}
