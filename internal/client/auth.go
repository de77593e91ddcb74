package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password form, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	body, err := c.do(ctx, Auth{}, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		fallback:    "An error occurred during login.",
	})
	if err != nil {
		return nil, err
	}

	var token models.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("login response has no access token")
	}
	return &token, nil
}
