package api

import (
	"context"
	"fmt"
	"net/http"
)

// Admin user-management surface.

// Account is a user record as the admin sees it.
type Account struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// CreateAccountRequest is the body for creating a user.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateAccountRequest is the body for updating a user; empty fields are
// left unchanged server-side.
type UpdateAccountRequest struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// Accounts pages through all user accounts.
func (c *Client) Accounts(ctx context.Context, page, size int) (Page[Account], error) {
	return get[Page[Account]](ctx, c, fmt.Sprintf("api/users?page=%d&size=%d", page, size))
}

// CreateAccount creates a user account.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (Account, error) {
	return do[Account](ctx, c, http.MethodPost, "api/users", req)
}

// UpdateAccount updates a user account.
func (c *Client) UpdateAccount(ctx context.Context, userID int64, req UpdateAccountRequest) (Account, error) {
	return do[Account](ctx, c, http.MethodPatch, fmt.Sprintf("api/users/%d", userID), req)
}

// DeleteAccount removes a user account.
func (c *Client) DeleteAccount(ctx context.Context, userID int64) error {
	return doDiscard(ctx, c, http.MethodDelete, fmt.Sprintf("api/users/%d", userID), nil)
}
