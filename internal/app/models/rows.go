package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Row is an entry of a repeatable form section. Every row carries an
// identifier assigned when it is appended; it never depends on the row's
// position in the list.
type Row[T any] interface {
	RowID() string
	// Set returns a copy of the row with one field replaced.
	Set(field, value string) (T, error)
	// IsBlank reports whether the user has not typed anything in the row.
	IsBlank() bool
	withID(id string) T
}

// RowList is an ordered list of rows. Operations return new lists and never
// modify the receiver's backing array.
type RowList[T Row[T]] []T

// newRowID is replaced in tests that need predictable identifiers.
var newRowID = uuid.NewString

// NewRowList returns a list holding a single blank row.
func NewRowList[T Row[T]]() RowList[T] {
	var zero T
	return RowList[T]{zero.withID(newRowID())}
}

// Append returns a new list with a blank row added at the end.
func (l RowList[T]) Append() RowList[T] {
	out := make(RowList[T], len(l), len(l)+1)
	copy(out, l)
	var zero T
	return append(out, zero.withID(newRowID()))
}

// Index returns the position of the row with the given id, or -1.
func (l RowList[T]) Index(id string) int {
	for i, r := range l {
		if r.RowID() == id {
			return i
		}
	}
	return -1
}

// Update returns a new list where only the matching row's field changed.
func (l RowList[T]) Update(id, field, value string) (RowList[T], error) {
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
	}
	updated, err := l[i].Set(field, value)
	if err != nil {
		return l, err
	}
	out := make(RowList[T], len(l))
	copy(out, l)
	out[i] = updated
	return out, nil
}

// Remove returns a new list without the matching row. The last remaining
// row cannot be removed.
func (l RowList[T]) Remove(id string) (RowList[T], error) {
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
	}
	if len(l) <= 1 {
		return l, apperrors.ErrLastRow
	}
	out := make(RowList[T], 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), nil
}

// Filled returns the rows that are not blank, keeping their order.
func (l RowList[T]) Filled() []T {
	out := make([]T, 0, len(l))
	for _, r := range l {
		if !r.IsBlank() {
			out = append(out, r)
		}
	}
	return out
}

// Seq is the 1-based display number of the row at position i.
func Seq(i int) int {
	return i + 1
}

func unknownField(row, field string) error {
	return fmt.Errorf("%w: %s has no field %q", apperrors.ErrUnknownField, row, field)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// HouseholdMember is one row of the household composition table.
type HouseholdMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Age        string `json:"age"`
	Education  string `json:"education"`
	Occupation string `json:"occupation"`
	Health     string `json:"health"`
	Income     string `json:"income"`
}

func (h HouseholdMember) RowID() string { return h.ID }

func (h HouseholdMember) withID(id string) HouseholdMember {
	return HouseholdMember{ID: id}
}

func (h HouseholdMember) IsBlank() bool {
	return blank(h.Name, h.Age, h.Education, h.Occupation, h.Health, h.Income)
}

func (h HouseholdMember) Set(field, value string) (HouseholdMember, error) {
	switch field {
	case "name":
		h.Name = value
	case "age":
		h.Age = value
	case "education":
		h.Education = value
	case "occupation":
		h.Occupation = value
	case "health":
		h.Health = value
	case "income":
		h.Income = value
	default:
		return h, unknownField("household member", field)
	}
	return h, nil
}

// Drug is one row of the medication table.
type Drug struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Dose string `json:"dose"`
}

func (d Drug) RowID() string { return d.ID }

func (d Drug) withID(id string) Drug {
	return Drug{ID: id}
}

func (d Drug) IsBlank() bool {
	return blank(d.Name, d.Dose)
}

func (d Drug) Set(field, value string) (Drug, error) {
	switch field {
	case "name":
		d.Name = value
	case "dose":
		d.Dose = value
	default:
		return d, unknownField("drug", field)
	}
	return d, nil
}
