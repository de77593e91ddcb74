package models

import (
	"sort"
	"time"
)

// Session is the server-side state behind one signed-in browser or CLI
// user. The upstream bearer token lives here and is attached explicitly to
// every backend call.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Data SessionData `json:"data"`
}

// SessionData is the part of a session that is persisted as one JSON blob.
type SessionData struct {
	StudentDrafts map[string]*StudentDraft `json:"student_drafts,omitempty"`
	TeacherDrafts map[string]*TeacherDraft `json:"teacher_drafts,omitempty"`
	Feed          *FeedState               `json:"feed,omitempty"`
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// StudentDraft is one student editing screen: the flat form, the
// repeatable case-record tables and the student's lifecycle.
type StudentDraft struct {
	ID        string                   `json:"id"`
	Form      FormState                `json:"form"`
	Household RowList[HouseholdMember] `json:"household"`
	Drugs     RowList[Drug]            `json:"drugs"`
	Student   Lifecycle                `json:"student_id"`
	Saved     Document                 `json:"saved,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// NewStudentDraft returns an empty draft with one blank row per table.
func NewStudentDraft(id string, now time.Time) *StudentDraft {
	return &StudentDraft{
		ID:        id,
		Form:      FormState{},
		Household: NewRowList[HouseholdMember](),
		Drugs:     NewRowList[Drug](),
		UpdatedAt: now,
	}
}

// TeacherDraft is one teacher creation screen.
type TeacherDraft struct {
	ID          string                   `json:"id"`
	Form        FormState                `json:"form"`
	Assignments RowList[ClassAssignment] `json:"assignments"`
	Teacher     Lifecycle                `json:"teacher_id"`
	Saved       Document                 `json:"saved,omitempty"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NewTeacherDraft returns an empty draft with one blank assignment.
func NewTeacherDraft(id string, now time.Time) *TeacherDraft {
	return &TeacherDraft{
		ID:          id,
		Form:        FormState{},
		Assignments: NewRowList[ClassAssignment](),
		UpdatedAt:   now,
	}
}

// MaxDrafts is how many open drafts of one kind a session keeps.
const MaxDrafts = 5

// LastTouched is when the draft was last changed.
func (d *StudentDraft) LastTouched() time.Time { return d.UpdatedAt }

// LastTouched is when the draft was last changed.
func (d *TeacherDraft) LastTouched() time.Time { return d.UpdatedAt }

// TrimDrafts deletes the least recently changed drafts until at most keep
// remain and returns the ids it deleted.
func TrimDrafts[D interface{ LastTouched() time.Time }](drafts map[string]D, keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(drafts) <= keep {
		return nil
	}

	ids := make([]string, 0, len(drafts))
	for id := range drafts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := drafts[ids[i]].LastTouched(), drafts[ids[j]].LastTouched()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ids[i] < ids[j]
	})

	dropped := ids[:len(ids)-keep]
	for _, id := range dropped {
		delete(drafts, id)
	}
	return dropped
}

// FeedState is the notification list as last fetched plus the per-item
// expanded flags. ReadRequested records items for which a mark-read
// request was already attempted, successful or not.
type FeedState struct {
	Items         []Notification `json:"items"`
	Expanded      map[int64]bool `json:"expanded"`
	ReadRequested map[int64]bool `json:"read_requested"`
	LoadedAt      time.Time      `json:"loaded_at"`
}

// Find returns the index of the notification with id, or -1.
func (f *FeedState) Find(id int64) int {
	for i, n := range f.Items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Unread counts the unread items.
func (f *FeedState) Unread() int {
	count := 0
	for _, n := range f.Items {
		if !n.IsRead {
			count++
		}
	}
	return count
}
