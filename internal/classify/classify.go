// Package classify derives the GTD-style category of a block from its
// property set and orders blocks within a category.
package classify

import (
	"github.com/sandeepkv93/tutord/internal/model"
)

type Category string

const (
	CategoryUnclassified Category = "unclassified"
	CategoryStudent      Category = "student"
	CategoryLesson       Category = "lesson"
	CategoryTodo         Category = "todo"
	CategoryRoutine      Category = "routine"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryUnclassified, CategoryStudent, CategoryLesson, CategoryTodo, CategoryRoutine}
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryUnclassified, CategoryStudent, CategoryLesson, CategoryTodo, CategoryRoutine:
		return true
	default:
		return false
	}
}

func (c Category) Label() string {
	switch c {
	case CategoryStudent:
		return "Students"
	case CategoryLesson:
		return "Lessons"
	case CategoryTodo:
		return "Todos"
	case CategoryRoutine:
		return "Routines"
	default:
		return "Inbox"
	}
}

// Classify maps a block to exactly one category. First match wins:
// contact > person+date > repeat > checkbox.
func Classify(b model.Block) Category {
	if len(b.Properties) == 0 {
		return CategoryUnclassified
	}
	switch {
	case b.Has(model.PropertyContact):
		return CategoryStudent
	case b.Has(model.PropertyPerson) && b.Has(model.PropertyDate):
		return CategoryLesson
	case b.Has(model.PropertyRepeat):
		return CategoryRoutine
	case b.Has(model.PropertyCheckbox):
		return CategoryTodo
	default:
		return CategoryUnclassified
	}
}
