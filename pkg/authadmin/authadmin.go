// Package authadmin talks to the admin REST API of the hosted auth provider
// using the project's service-role key.
package authadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// ScanPerPage and ScanMaxPages bound FindUserByEmail.
	ScanPerPage  = 1000
	ScanMaxPages = 10
)

// ErrNoUserID is returned when an invite succeeds without a user id.
var ErrNoUserID = errors.New("invite succeeded but no user id returned")

// User is an auth user as returned by the admin API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError is a non-2xx answer from the auth provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth admin API returned %d: %s", e.Status, e.Message)
}

// Admin is the subset of the admin API the employee service needs.
type Admin interface {
	InviteUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Client calls the auth provider's admin endpoints.
type Client struct {
	baseURL        string
	serviceRoleKey string
	httpClient     *http.Client
}

// NewClient creates a client for the provider at baseURL.
func NewClient(baseURL, serviceRoleKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		serviceRoleKey: serviceRoleKey,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

// InviteUserByEmail creates a user and sends them an invite to set a password.
func (c *Client) InviteUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/invite", map[string]string{"email": email}, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrNoUserID
	}
	return &user, nil
}

// ListUsers returns one page of users.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var body struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users?"+q.Encode(), nil, &body); err != nil {
		return nil, err
	}
	return body.Users, nil
}

// FindUserByEmail pages through users looking for a case-insensitive email
// match. The provider has no lookup by email, so the scan stops after
// ScanMaxPages pages. It returns nil when nothing matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	want := strings.ToLower(strings.TrimSpace(email))
	if want == "" {
		return nil, nil
	}

	for page := 1; page <= ScanMaxPages; page++ {
		users, err := c.ListUsers(ctx, page, ScanPerPage)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if strings.ToLower(strings.TrimSpace(users[i].Email)) == want {
				return &users[i], nil
			}
		}
		if len(users) < ScanPerPage {
			break
		}
	}
	return nil, nil
}

// DeleteUser removes an auth user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth admin request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func errorMessage(raw []byte) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(raw, &body) == nil {
		for _, s := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
