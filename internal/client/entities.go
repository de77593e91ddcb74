package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Collection names a backend resource collection.
type Collection string

const (
	Students Collection = "students"
	Teachers Collection = "teachers"
)

func (c Collection) noun() string {
	switch c {
	case Students:
		return "student"
	case Teachers:
		return "teacher"
	default:
		return string(c)
	}
}

// SaveEntity creates the entity when lc is Draft and updates it when lc is
// Persisted(id). The returned entity carries the server identifier; callers
// switch to its Lifecycle for all later saves.
func (c *Client) SaveEntity(
	ctx context.Context,
	auth Auth,
	coll Collection,
	payload interface{},
	lc models.Lifecycle,
) (*models.SavedEntity, error) {
	var method, path string
	switch lc.State() {
	case models.Draft:
		method, path = http.MethodPost, "/"+string(coll)+"/"
	case models.Persisted:
		id, _ := lc.ID()
		method, path = http.MethodPut, "/"+string(coll)+"/"+url.PathEscape(id)
	default:
		return nil, fmt.Errorf("unexpected lifecycle %v", lc)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", coll.noun(), err)
	}

	body, err := c.do(ctx, auth, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
		fallback:    "Failed to save " + coll.noun(),
	})
	if err != nil {
		return nil, err
	}

	return savedEntity(body, lc)
}

// ReplaceCaseRecord replaces the case record of a saved student and returns
// the student as stored by the backend.
func (c *Client) ReplaceCaseRecord(
	ctx context.Context,
	auth Auth,
	studentID string,
	payload *models.CaseRecordPayload,
) (*models.SavedEntity, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding case record: %w", err)
	}

	body, err := c.do(ctx, auth, request{
		method:      http.MethodPut,
		path:        "/students/" + url.PathEscape(studentID) + "/case-record",
		body:        bytes.NewReader(data),
		contentType: "application/json",
		fallback:    "Failed to save case record",
	})
	if err != nil {
		return nil, err
	}

	return savedEntity(body, models.PersistedLifecycle(studentID))
}

// GetMyStudent returns the student record of the signed-in student account.
func (c *Client) GetMyStudent(ctx context.Context, auth Auth) (models.Document, error) {
	return c.getDocument(ctx, auth, "/students/me", "Failed to load student data")
}

// GetStudent returns one student record for staff views.
func (c *Client) GetStudent(ctx context.Context, auth Auth, id string) (models.Document, error) {
	return c.getDocument(ctx, auth, "/students/"+url.PathEscape(id), "Failed to load student data")
}

func (c *Client) getDocument(ctx context.Context, auth Auth, path, fallback string) (models.Document, error) {
	body, err := c.do(ctx, auth, request{method: http.MethodGet, path: path, fallback: fallback})
	if err != nil {
		return nil, err
	}
	doc, err := models.DecodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// savedEntity decodes a save response. When the backend omits the id on an
// update, the id we already hold is kept.
func savedEntity(body []byte, lc models.Lifecycle) (*models.SavedEntity, error) {
	doc, err := models.DecodeDocument(body)
	if err != nil {
		return nil, fmt.Errorf("decoding saved entity: %w", err)
	}
	id, ok := models.IdentifierOf(doc)
	if !ok {
		existing, persisted := lc.ID()
		if !persisted {
			return nil, fmt.Errorf("backend response has no id")
		}
		id = existing
	}
	return &models.SavedEntity{ID: id, Document: doc}, nil
}
