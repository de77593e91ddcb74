package models

import (
	"encoding/json"
	"fmt"
)

// LifecycleState tells whether an entity has a server-assigned identifier.
type LifecycleState int

const (
	// Draft entities have never been saved; saving creates them.
	Draft LifecycleState = iota
	// Persisted entities have an identifier; saving updates them.
	Persisted
)

func (s LifecycleState) String() string {
	switch s {
	case Draft:
		return "draft"
	case Persisted:
		return "persisted"
	default:
		return fmt.Sprintf("LifecycleState(%d)", int(s))
	}
}

// Lifecycle is either Draft or Persisted(id). The zero value is Draft.
type Lifecycle struct {
	id string
}

// DraftLifecycle returns a Draft lifecycle.
func DraftLifecycle() Lifecycle {
	return Lifecycle{}
}

// PersistedLifecycle returns Persisted(id). An empty id yields Draft.
func PersistedLifecycle(id string) Lifecycle {
	return Lifecycle{id: id}
}

// State returns Draft or Persisted.
func (l Lifecycle) State() LifecycleState {
	if l.id == "" {
		return Draft
	}
	return Persisted
}

// ID returns the server identifier and whether there is one.
func (l Lifecycle) ID() (string, bool) {
	return l.id, l.id != ""
}

func (l Lifecycle) String() string {
	if l.id == "" {
		return "draft"
	}
	return "persisted(" + l.id + ")"
}

// MarshalJSON stores the lifecycle as the id, or null for drafts.
func (l Lifecycle) MarshalJSON() ([]byte, error) {
	if l.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(l.id)
}

func (l *Lifecycle) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		l.id = ""
		return nil
	}
	return json.Unmarshal(data, &l.id)
}
