package view

import (
	"fmt"
	"strings"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// Direction orders a sort ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc", "desc" or empty (ascending), ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return Asc, fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
}

func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// SortSpec names a field key from models.Fields and a direction. An empty
// Field means "keep store order".
type SortSpec struct {
	Field string
	Dir   Direction
}

// Predicate is an exact-match constraint on one field. An empty Value places
// no constraint.
type Predicate struct {
	Field string
	Value string
}

// State is the user-selected view configuration. It is a plain value: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	Search  string
	Event   string
	College string
	Sort    SortSpec
}

func (s State) WithSearch(term string) State {
	s.Search = term
	return s
}

func (s State) WithEvent(event string) State {
	s.Event = event
	return s
}

func (s State) WithCollege(college string) State {
	s.College = college
	return s
}

func (s State) WithSort(spec SortSpec) State {
	s.Sort = spec
	return s
}

// ToggleSort flips the direction when field is already the sort key and
// otherwise sorts by field ascending.
func (s State) ToggleSort(field string) State {
	if s.Sort.Field == field {
		s.Sort.Dir = s.Sort.Dir.Flip()
		return s
	}
	s.Sort = SortSpec{Field: field, Dir: Asc}
	return s
}

// Predicates returns the active filter predicates.
func (s State) Predicates() []Predicate {
	var preds []Predicate
	if s.Event != "" {
		preds = append(preds, Predicate{Field: models.KeyEvent, Value: s.Event})
	}
	if s.College != "" {
		preds = append(preds, Predicate{Field: models.KeyCollege, Value: s.College})
	}
	return preds
}
