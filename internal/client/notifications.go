package client

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

// MyNotifications lists the notifications of the signed-in account, newest
// first as ordered by the backend.
func (c *Client) MyNotifications(ctx context.Context, auth Auth) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.doJSON(ctx, auth, http.MethodGet, "/notifications/my-notifications", nil, &out, "Failed to load notifications"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Notification{}
	}
	return out, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, auth Auth, id int64) error {
	return c.doJSON(ctx, auth, http.MethodPost, "/notifications/mark-read",
		models.MarkReadRequest{NotificationID: id}, nil, "Failed to mark notification as read")
}

// MarkAllRead marks every notification of the signed-in account as read.
func (c *Client) MarkAllRead(ctx context.Context, auth Auth) error {
	return c.doJSON(ctx, auth, http.MethodPost, "/notifications/mark-all-read", nil, nil, "Failed to mark notifications as read")
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context, auth Auth) (int, error) {
	var out models.UnreadCount
	if err := c.doJSON(ctx, auth, http.MethodGet, "/notifications/unread-count", nil, &out, "Failed to load unread count"); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// SendReport sends a report notification to a student account. Only staff
// roles are accepted by the backend.
func (c *Client) SendReport(ctx context.Context, auth Auth, req *models.ReportRequest) (*models.Notification, error) {
	var out models.Notification
	if err := c.doJSON(ctx, auth, http.MethodPost, "/notifications/send-report", req, &out, "Failed to send report"); err != nil {
		return nil, err
	}
	return &out, nil
}
