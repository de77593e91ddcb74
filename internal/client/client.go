// Package client talks to the school backend REST API. Every call takes the
// caller's credentials explicitly; the client itself holds no session state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

const apiPrefix = "/api/v1"

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// Auth carries the bearer token for one request. The zero value sends no
// Authorization header.
type Auth struct {
	Token string
}

// Bearer builds an Auth from a token.
func Bearer(token string) Auth {
	return Auth{Token: token}
}

// APIError is a non-success response from the backend.
type APIError struct {
	Status   int
	Problem  Problem
	fallback string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.UserMessage())
}

// UserMessage is the normalised text to show to the user.
func (e *APIError) UserMessage() string {
	return e.Problem.Message(e.fallback)
}

// Unwrap lets callers match on apperrors sentinels by status.
func (e *APIError) Unwrap() []error {
	errs := []error{apperrors.ErrBackendRejected}
	switch e.Status {
	case http.StatusUnauthorized:
		errs = append(errs, apperrors.ErrUnauthenticated)
	case http.StatusForbidden:
		errs = append(errs, apperrors.ErrPermissionDenied)
	case http.StatusNotFound:
		errs = append(errs, apperrors.ErrResourceNotFound)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errs = append(errs, apperrors.ErrValidationFailed)
	}
	return errs
}

// Client is a thin REST client for the school backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a Client. baseURL is the backend origin, e.g.
// "http://localhost:8000". A nil httpClient uses a client with timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With().Str("component", "backend-client").Logger(),
	}
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	// fallback is the message used when an error body cannot be parsed.
	fallback string
}

// do performs the request and returns the body of a 2xx response. Any other
// status becomes an *APIError; transport failures wrap ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, auth Auth, r request) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+apiPrefix+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", r.method).Str("path", r.path).Msg("Backend request failed")
		return nil, fmt.Errorf("%w: %s %s: %v", apperrors.ErrBackendUnavailable, r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response of %s %s: %v", apperrors.ErrBackendUnavailable, r.method, r.path, err)
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:   resp.StatusCode,
			Problem:  ParseProblem(body),
			fallback: r.fallback,
		}
		c.logger.Warn().
			Str("method", r.method).
			Str("path", r.path).
			Int("status", resp.StatusCode).
			Str("problem", apiErr.Problem.Kind.String()).
			Msg("Backend rejected request")
		return nil, apiErr
	}

	return body, nil
}

// doJSON sends in (if not nil) as JSON and decodes the response into out
// (if not nil).
func (c *Client) doJSON(ctx context.Context, auth Auth, method, path string, in, out interface{}, fallback string) error {
	r := request{method: method, path: path, fallback: fallback}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		r.body = bytes.NewReader(data)
		r.contentType = "application/json"
	}

	body, err := c.do(ctx, auth, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response of %s %s: %w", method, path, err)
	}
	return nil
}

// IsUnauthenticated reports whether err means the token was refused.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthenticated)
}
