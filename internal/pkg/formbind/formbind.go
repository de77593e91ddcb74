// Package formbind copies flat form values into typed payload structs.
//
// Struct fields are matched by their `form` tag. Empty values are skipped so
// the destination keeps its zero value (and `omitempty` drops it from JSON).
// Pointer fields to numbers are only allocated when the raw value parses;
// pointer fields to structs are only allocated when at least one nested
// field received a value.
package formbind

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTarget is returned when Bind is not given a pointer to a struct.
var ErrInvalidTarget = errors.New("formbind: target must be a non-nil pointer to a struct")

// Bind fills dst from values. Values that are empty (after trimming) or do
// not parse into the field's type are left out.
func Bind(dst interface{}, values map[string]string) error {
	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	_, err := bindStruct(val.Elem(), values)
	return err
}

// bindStruct reports whether any field of s was set.
func bindStruct(s reflect.Value, values map[string]string) (bool, error) {
	typ := s.Type()
	setAny := false

	for i := 0; i < s.NumField(); i++ {
		field := s.Field(i)
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		tag := fieldType.Tag.Get("form")
		if tag == "-" {
			continue
		}

		if tag == "" {
			set, err := bindNested(field, values)
			if err != nil {
				return false, fmt.Errorf("%s: %w", fieldType.Name, err)
			}
			setAny = setAny || set
			continue
		}

		raw, ok := values[tag]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		// Text keeps what the user typed; numbers and flags are trimmed.
		if indirectKind(field) != reflect.String {
			raw = strings.TrimSpace(raw)
		}

		if err := SetScalar(field, raw); err != nil {
			if errors.Is(err, errUnsupported) {
				return false, fmt.Errorf("field %s: %w", fieldType.Name, err)
			}
			// Unparsable input is omitted rather than sent.
			continue
		}
		setAny = true
	}

	return setAny, nil
}

// bindNested walks untagged struct and pointer-to-struct fields.
func bindNested(field reflect.Value, values map[string]string) (bool, error) {
	switch {
	case field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}):
		return bindStruct(field, values)
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		fresh := reflect.New(field.Type().Elem())
		set, err := bindStruct(fresh.Elem(), values)
		if err != nil {
			return false, err
		}
		if set {
			field.Set(fresh)
		}
		return set, nil
	default:
		return false, nil
	}
}

func indirectKind(field reflect.Value) reflect.Kind {
	if field.Kind() == reflect.Ptr {
		return field.Type().Elem().Kind()
	}
	return field.Kind()
}

var errUnsupported = errors.New("unsupported field type")

// SetScalar parses raw into field according to the field's kind. Pointer
// fields are allocated only on success.
func SetScalar(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if field.Kind() == reflect.Ptr {
		fresh := reflect.New(field.Type().Elem())
		if err := SetScalar(fresh.Elem(), raw); err != nil {
			return err
		}
		field.Set(fresh)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("invalid duration format: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer format: %w", err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean format: %w", err)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float format: %w", err)
		}
		// JSON has no encoding for NaN or the infinities.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid float format: %q is not a finite number", raw)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("%w: %s", errUnsupported, field.Kind())
	}

	return nil
}

// Fields lists the `form` tag names of v's struct type, including those of
// untagged nested structs, in declaration order without duplicates.
func Fields(v interface{}) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	collectFields(t, seen, &out)
	return out
}

func collectFields(t reflect.Type, seen map[string]bool, out *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("form")
		switch {
		case tag == "-":
		case tag != "":
			if !seen[tag] {
				seen[tag] = true
				*out = append(*out, tag)
			}
		default:
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != reflect.TypeOf(time.Time{}) {
				collectFields(ft, seen, out)
			}
		}
	}
}
