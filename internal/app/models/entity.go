package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a decoded JSON object returned by the backend. It is kept
// untyped so that records with missing or extra nested fields still render.
type Document map[string]interface{}

// DecodeDocument parses a JSON object, keeping numbers as json.Number so
// identifiers and ages are printed exactly as the backend sent them.
func DecodeDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return doc, nil
}

// SavedEntity is the canonical record returned by a create or update.
type SavedEntity struct {
	ID       string
	Document Document
}

// Lifecycle returns Persisted(ID).
func (e *SavedEntity) Lifecycle() Lifecycle {
	return PersistedLifecycle(e.ID)
}

// IdentifierOf extracts the "id" member of doc as a string.
func IdentifierOf(doc Document) (string, bool) {
	raw, ok := doc["id"]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// ScalarString renders a decoded scalar as the text a form field would hold.
// Objects, lists and nulls report false.
func ScalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// FormValues returns the scalar members of doc named in fields, as form
// values. Members that are absent or not scalar are skipped.
func (d Document) FormValues(fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if s, ok := ScalarString(d[f]); ok {
			out[f] = s
		}
	}
	return out
}
