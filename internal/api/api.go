// Package api is the typed service layer over the PlanHub REST API. Every
// call goes through the auth.Manager, which handles bearer tokens and
// refresh; this package only knows paths and body shapes.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/planhub/planhub-cli/internal/auth"
)

// Envelope is the server's standard response wrapper.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

// Page is the server's pagination wrapper for list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// Client issues authenticated calls against the API.
type Client struct {
	mgr *auth.Manager
}

// NewClient wraps an auth.Manager.
func NewClient(mgr *auth.Manager) *Client {
	return &Client{mgr: mgr}
}

// get performs an authenticated GET and decodes the result envelope.
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	resp, err := c.mgr.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}
	return decodeResult[T](resp)
}

// do performs an authenticated call with a JSON body and decodes the
// result envelope.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	resp, err := c.mgr.Do(ctx, method, path, body)
	if err != nil {
		return zero, err
	}
	return decodeResult[T](resp)
}

// doDiscard performs an authenticated call and discards any result body.
func doDiscard(ctx context.Context, c *Client, method, path string, body any) error {
	resp, err := c.mgr.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func decodeResult[T any](resp *http.Response) (T, error) {
	defer resp.Body.Close()
	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to parse response: %w", err)
	}
	return env.Result, nil
}
