package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Notification is a progress report sent by staff to a student account.
type Notification struct {
	ID             int64     `json:"id"`
	StudentID      string    `json:"student_id"`
	SentByUserID   *int64    `json:"sent_by_user_id,omitempty"`
	SentByName     *string   `json:"sent_by_name,omitempty"`
	SentByRole     *string   `json:"sent_by_role,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ReportSummary  *string   `json:"report_summary,omitempty"`
	ReportFromDate *string   `json:"report_from_date,omitempty"`
	ReportToDate   *string   `json:"report_to_date,omitempty"`
	TherapyType    *string   `json:"therapy_type,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      Timestamp `json:"created_at"`
}

// IsTherapyReport reports whether the notification carries report fields.
func (n Notification) IsTherapyReport() bool {
	return n.TherapyType != nil || n.ReportSummary != nil
}

// MarkReadRequest is the body of POST /notifications/mark-read.
type MarkReadRequest struct {
	NotificationID int64 `json:"notification_id"`
}

// UnreadCount is returned by GET /notifications/unread-count.
type UnreadCount struct {
	UnreadCount int `json:"unread_count"`
}

// Timestamp accepts RFC 3339 as well as the naive ISO form the backend emits
// for columns without a time zone, which are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		if string(data) == "null" {
			t.Time = time.Time{}
			return nil
		}
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
