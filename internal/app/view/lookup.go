// Package view turns saved backend records into read-only pages. Records are
// walked as untyped documents so that any missing, null or empty value, at
// any depth, renders as Placeholder instead of failing.
package view

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Placeholder is shown for every absent value.
const Placeholder = "N/A"

// Lookup resolves a dotted path such as "case_record.identification.blood_group"
// against doc and formats the value for display. Numeric segments index into
// lists ("case_record.family.household.0.name").
func Lookup(doc models.Document, path string) string {
	v, ok := resolve(map[string]interface{}(doc), path)
	if !ok {
		return Placeholder
	}
	return Format(v)
}

// resolve walks path without mutating anything. ok is false when any step is
// missing or null.
func resolve(root interface{}, path string) (interface{}, bool) {
	cur := root
	if path == "" {
		return cur, cur != nil
	}
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = next
		case models.Document:
			next, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// Format renders a decoded JSON value as display text.
func Format(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return Placeholder
	case string:
		if strings.TrimSpace(val) == "" {
			return Placeholder
		}
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Format(item); s != Placeholder {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return Placeholder
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		if len(val) == 0 {
			return Placeholder
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, Humanize(k)+": "+Format(val[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(val)
	}
}

// Humanize turns a JSON key into a label: "mental_illness" -> "Mental illness".
func Humanize(key string) string {
	s := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
