package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrRefreshFailed = errors.New("failed to refresh token")
	ErrInvalidToken  = errors.New("invalid token format")
	ErrNoResetToken  = errors.New("no reset token stored")
)

// Claims are the access-token claims the client cares about. The signature
// is not verified here; the backend verifies the full token on every call.
type Claims struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of a JWT without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}

// Expired reports whether the token's exp claim is at or before now.
// A token without an exp claim is treated as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// UserFromClaims builds the stored user object from decoded claims,
// falling back to the registered sub claim for the ID and to the email's
// local part for the display name.
func UserFromClaims(c *Claims) *User {
	id := c.ID
	if id == 0 && c.Subject != "" {
		if n, err := strconv.ParseInt(c.Subject, 10, 64); err == nil {
			id = n
		}
	}

	name := c.Name
	if name == "" && c.Email != "" {
		name = strings.SplitN(c.Email, "@", 2)[0]
	}

	return &User{
		ID:          id,
		Name:        name,
		Email:       c.Email,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
}
