package storage

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/tutord/internal/model"
)

var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sandeepkv93/tutord/seed"))

func seedID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

// Seed builds the starter workspace: one example per category anchored on
// today. Ids are stable across calls.
func Seed(today model.Day, now time.Time) model.Workspace {
	mathTag := model.Tag{ID: seedID("tag/math"), Name: "Math", Color: "#5f87ff"}

	student := model.NewBlock(seedID("student"), "Mina Park", "Grade 9, algebra and geometry.", now)
	student.Properties = []model.Property{
		prop("student/contact", model.ContactValue{Email: "mina@example.com", GuardianName: "Jiwoo Park", GuardianPhone: "555-0142"}),
		prop("student/tags", model.TagValue{TagIDs: []string{mathTag.ID}}),
	}

	lesson := model.NewBlock(seedID("lesson"), "Algebra with Mina", "Linear equations, worksheet 3.", now)
	lesson.Properties = []model.Property{
		prop("lesson/person", model.PersonValue{BlockIDs: []string{student.ID}}),
		prop("lesson/date", model.DateValue{Date: today, Time: "16:00", EndTime: "17:00"}),
		prop("lesson/repeat", model.RepeatValue{Config: &model.RepeatConfig{
			Type:     model.RepeatWeekly,
			Interval: 1,
			Weekdays: []int{int(today.Weekday())},
		}}),
		prop("lesson/duration", model.DurationValue{Minutes: 60}),
	}

	routine := model.NewBlock(seedID("routine"), "Prepare tomorrow's worksheets", "", now)
	routine.Properties = []model.Property{
		prop("routine/date", model.DateValue{Date: today, Time: "21:00"}),
		prop("routine/repeat", model.RepeatValue{Config: &model.RepeatConfig{Type: model.RepeatDaily, Interval: 1}}),
	}

	todo := model.NewBlock(seedID("todo"), "Grade mock exams", "", now)
	todo.Properties = []model.Property{
		prop("todo/checkbox", model.CheckboxValue{}),
		prop("todo/priority", model.PriorityValue{Level: model.PriorityHigh}),
		prop("todo/date", model.DateValue{Date: today.AddDays(2)}),
	}

	idea := model.NewBlock(seedID("inbox"), "", "Ideas for the summer camp\n\n- geometry scavenger hunt\n- logic puzzles", now)

	return model.Workspace{
		Blocks: []model.Block{student, lesson, routine, todo, idea},
		Tags:   []model.Tag{mathTag},
		CustomViews: []model.CustomView{{
			ID:          seedID("view/people"),
			Name:        "People",
			PropertyIDs: []model.PropertyType{model.PropertyContact, model.PropertyPerson},
		}},
		History: []model.Top3History{},
	}
}

func prop(key string, v model.Value) model.Property {
	return model.Property{ID: seedID("prop/" + key), Type: v.Type(), Name: v.Type().DefaultName(), Value: v}
}

// LoadBlocks decodes a persisted block array, falling back to the seed when
// the data does not parse. The flag reports whether the fallback was used.
func LoadBlocks(raw []byte, today model.Day, now time.Time, log *slog.Logger) ([]model.Block, bool) {
	blocks, err := DecodeBlocks(raw)
	if err == nil {
		return blocks, false
	}
	if log == nil {
		log = slog.Default()
	}
	log.Warn("persisted blocks are malformed, loading seed data", slog.Any("error", err))
	return Seed(today, now).Blocks, true
}
