// Package client implements the directory operation set over the HTTP
// API. It is the presentation tier's only path to the directory; it never
// touches the store and performs no reconciliation of its own.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groupdir/groupdir/internal/service"
)

// Client is the HTTP-backed implementation of service.Directory. Each
// logical operation maps onto exactly one request/response pair. A 404
// from the server surfaces as service.ErrNotFound; any other non-2xx
// status fails the call.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// New constructs a Client against the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("client: empty base url")
	}
	if _, errParse := url.Parse(trimmed); errParse != nil {
		return nil, fmt.Errorf("client: parse base url: %w", errParse)
	}
	c := &Client{
		baseURL: trimmed,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ service.Directory = (*Client)(nil)

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	var users []service.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/userapi", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id uint64) (*service.User, error) {
	var user service.User
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/userapi/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// createUserRequest mirrors the create endpoint's request body.
type createUserRequest struct {
	UserName string   `json:"userName"`
	GroupIDs []uint64 `json:"groupIds"`
}

// AddUser creates a user and returns the server-assigned id.
func (c *Client) AddUser(ctx context.Context, userName string, groupIDs []uint64) (uint64, error) {
	if groupIDs == nil {
		groupIDs = []uint64{}
	}
	body := createUserRequest{UserName: userName, GroupIDs: groupIDs}
	var resp struct {
		ID uint64 `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/userapi", body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// updateUserRequest mirrors the update endpoint's request body.
type updateUserRequest struct {
	ID       uint64          `json:"id"`
	UserName string          `json:"userName"`
	Groups   []service.Group `json:"groups"`
}

// UpdateUser replaces the user's name and group set, returning the
// server's view of the updated user.
func (c *Client) UpdateUser(ctx context.Context, id uint64, userName string, desired []service.Group) (*service.User, error) {
	if desired == nil {
		desired = []service.Group{}
	}
	body := updateUserRequest{ID: id, UserName: userName, Groups: desired}
	var user service.User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/userapi/%d", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user. The boolean mirrors the server's found
// outcome; a 404 is not an error here.
func (c *Client) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/userapi/%d", id), nil, nil)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountUsers fetches the total user count.
func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.doJSON(ctx, http.MethodGet, "/api/userapi/count", nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListGroups fetches all groups.
func (c *Client) ListGroups(ctx context.Context) ([]service.Group, error) {
	var groups []service.Group
	if err := c.doJSON(ctx, http.MethodGet, "/api/groupapi", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup fetches one group by id.
func (c *Client) GetGroup(ctx context.Context, id uint64) (*service.Group, error) {
	var group service.Group
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/groupapi/%d", id), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CountMembers fetches the member count of a group.
func (c *Client) CountMembers(ctx context.Context, groupID uint64) (int64, error) {
	var count int64
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/groupapi/%d/usercount", groupID), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// doJSON performs one request/response round trip. The response body is
// decoded permissively: unknown fields are ignored and field names match
// case-insensitively, so the client tolerates additive schema changes.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		encoded, errMarshal := json.Marshal(in)
		if errMarshal != nil {
			return fmt.Errorf("client: encode request: %w", errMarshal)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, errReq := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if errReq != nil {
		return fmt.Errorf("client: build request: %w", errReq)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, errDo := c.httpc.Do(req)
	if errDo != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, errDo)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("client: %s %s: %w", method, path, service.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("client: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if errDecode := json.NewDecoder(resp.Body).Decode(out); errDecode != nil {
		return fmt.Errorf("client: decode response: %w", errDecode)
	}
	return nil
}
