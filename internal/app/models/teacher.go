package models

import (
	"fmt"
	"slices"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Weekdays a class can be scheduled on.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ClassAssignment binds a teacher to a class and subject on some weekdays.
type ClassAssignment struct {
	ID        string   `json:"id"`
	Class     string   `json:"class"`
	Subject   string   `json:"subject"`
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

func (a ClassAssignment) RowID() string { return a.ID }

func (a ClassAssignment) withID(id string) ClassAssignment {
	return ClassAssignment{ID: id, Days: []string{}}
}

func (a ClassAssignment) IsBlank() bool {
	return len(a.Days) == 0 && blank(a.Class, a.Subject, a.StartTime, a.EndTime)
}

func (a ClassAssignment) Set(field, value string) (ClassAssignment, error) {
	switch field {
	case "class":
		a.Class = value
	case "subject":
		a.Subject = value
	case "startTime":
		a.StartTime = value
	case "endTime":
		a.EndTime = value
	default:
		return a, unknownField("class assignment", field)
	}
	return a, nil
}

// Complete reports whether the assignment can be submitted: class, subject,
// at least one day and both times must be present.
func (a ClassAssignment) Complete() bool {
	return !blank(a.Class) && !blank(a.Subject) && len(a.Days) > 0 &&
		!blank(a.StartTime) && !blank(a.EndTime)
}

// WithDay returns a copy with day added, or removed if it was present.
func (a ClassAssignment) WithDay(day string) ClassAssignment {
	days := make([]string, 0, len(a.Days)+1)
	found := false
	for _, d := range a.Days {
		if d == day {
			found = true
			continue
		}
		days = append(days, d)
	}
	if !found {
		days = append(days, day)
	}
	a.Days = days
	return a
}

// ToggleDay flips one weekday on the assignment with the given id.
func ToggleDay(l RowList[ClassAssignment], id, day string) (RowList[ClassAssignment], error) {
	if !slices.Contains(Weekdays, day) {
		return l, apperrors.NewBadRequestError(fmt.Sprintf("%q is not a teaching day", day))
	}
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
	}
	out := make(RowList[ClassAssignment], len(l))
	copy(out, l)
	out[i] = l[i].WithDay(day)
	return out, nil
}

// SetDays replaces the selected weekdays of one assignment, ignoring names
// that are not teaching days. Used when a whole form is posted at once.
func SetDays(l RowList[ClassAssignment], id string, days []string) (RowList[ClassAssignment], error) {
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
	}
	kept := make([]string, 0, len(days))
	for _, d := range Weekdays {
		if slices.Contains(days, d) {
			kept = append(kept, d)
		}
	}
	out := make(RowList[ClassAssignment], len(l))
	copy(out, l)
	out[i].Days = kept
	return out, nil
}
