package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProblemKind tags the shape of an error body returned by the backend.
type ProblemKind int

const (
	// ProblemUnknown means the body could not be interpreted.
	ProblemUnknown ProblemKind = iota
	// ProblemFieldErrors means "detail" was a list of per-field problems.
	ProblemFieldErrors
	// ProblemMessage means "detail" was a single message.
	ProblemMessage
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemFieldErrors:
		return "fieldErrors"
	case ProblemMessage:
		return "message"
	default:
		return "unknown"
	}
}

// FieldProblem is one entry of a list-shaped "detail".
type FieldProblem struct {
	// Location is the path to the offending value, e.g. ["body", "age"].
	// Empty when the entry was a bare string.
	Location []string
	Message  string
}

// Line renders the entry as "body.age: message".
func (p FieldProblem) Line() string {
	if len(p.Location) == 0 {
		return p.Message
	}
	return strings.Join(p.Location, ".") + ": " + p.Message
}

// Problem is an error body normalised once at the transport boundary.
type Problem struct {
	Kind  ProblemKind
	Items []FieldProblem
	Text  string
}

// Message composes the text shown to the user. fallback is used when the
// body could not be interpreted.
func (p Problem) Message(fallback string) string {
	switch p.Kind {
	case ProblemFieldErrors:
		lines := make([]string, len(p.Items))
		for i, item := range p.Items {
			lines[i] = item.Line()
		}
		return strings.Join(lines, "\n")
	case ProblemMessage:
		return p.Text
	default:
		return fallback
	}
}

// ParseProblem interprets an error response body of the form
// {"detail": ...}. It never fails; anything unexpected is ProblemUnknown.
func ParseProblem(body []byte) Problem {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Problem{Kind: ProblemUnknown}
	}
	detail := bytes.TrimSpace(envelope.Detail)
	if len(detail) == 0 || bytes.Equal(detail, []byte("null")) {
		return Problem{Kind: ProblemUnknown}
	}

	switch detail[0] {
	case '"':
		var text string
		if err := json.Unmarshal(detail, &text); err != nil || text == "" {
			return Problem{Kind: ProblemUnknown}
		}
		return Problem{Kind: ProblemMessage, Text: text}

	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(detail, &entries); err != nil || len(entries) == 0 {
			return Problem{Kind: ProblemUnknown}
		}
		items := make([]FieldProblem, 0, len(entries))
		for _, e := range entries {
			items = append(items, parseFieldProblem(e))
		}
		return Problem{Kind: ProblemFieldErrors, Items: items}

	case '{':
		// Object details have no agreed shape; show them compactly.
		var compact bytes.Buffer
		if err := json.Compact(&compact, detail); err != nil {
			return Problem{Kind: ProblemUnknown}
		}
		return Problem{Kind: ProblemMessage, Text: compact.String()}

	default:
		return Problem{Kind: ProblemMessage, Text: string(detail)}
	}
}

func parseFieldProblem(raw json.RawMessage) FieldProblem {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return FieldProblem{Message: text}
	}

	var entry struct {
		Loc   json.RawMessage `json:"loc"`
		Msg   string          `json:"msg"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return FieldProblem{Message: string(bytes.TrimSpace(raw))}
	}

	msg := entry.Msg
	if msg == "" {
		msg = entry.Error
	}
	if msg == "" {
		msg = "invalid"
	}
	return FieldProblem{Location: parseLocation(entry.Loc), Message: msg}
}

// parseLocation accepts a list of strings and numbers, or a single string.
func parseLocation(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var parts []interface{}
	if err := json.Unmarshal(raw, &parts); err == nil {
		loc := make([]string, 0, len(parts))
		for _, p := range parts {
			switch v := p.(type) {
			case string:
				loc = append(loc, v)
			case float64:
				loc = append(loc, fmt.Sprintf("%g", v))
			default:
				loc = append(loc, fmt.Sprint(v))
			}
		}
		return loc
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
