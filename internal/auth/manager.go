package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Authentication endpoints, relative to the server base URL.
const (
	loginPath         = "api/auth/login"
	logoutPath        = "api/auth/logout"
	refreshPath       = "api/auth/refresh-token"
	sendOTPPath       = "api/auth/send-otp"
	verifyOTPPath     = "api/auth/verify-otp"
	resetPasswordPath = "api/auth/reset-password"
)

// APIError is a non-2xx response whose body carried a JSON error envelope.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// Manager owns the session lifecycle: it performs login and logout,
// attaches a valid bearer token to every authenticated request, refreshes
// the token exactly when needed, and answers permission checks from the
// decoded token claims.
type Manager struct {
	baseURL string
	store   Store
	client  *http.Client
	now     func() time.Time
}

// NewManager creates a Manager talking to the API at baseURL and
// persisting the session through store.
func NewManager(baseURL string, store Store) *Manager {
	return &Manager{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Result  tokenPair `json:"result"`
}

// Login authenticates with email and password. On success it replaces any
// prior session: both tokens are persisted and the access token's claims
// are decoded into the stored user. On any failure nothing is persisted.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.post(ctx, loginPath, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromBody(resp.StatusCode, body)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	if lr.Result.AccessToken == "" || lr.Result.RefreshToken == "" {
		return fmt.Errorf("unexpected login response: missing token pair")
	}

	claims, err := ParseClaims(lr.Result.AccessToken)
	if err != nil {
		return err
	}

	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}
	if err := m.store.Save(&Session{
		AccessToken:  lr.Result.AccessToken,
		RefreshToken: lr.Result.RefreshToken,
		User:         UserFromClaims(claims),
	}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	slog.Info("logged in", "email", email)
	return nil
}

// Logout clears the stored session unconditionally. The server is notified
// best-effort; a failure there never blocks the local clear. Calling
// Logout with no active session is a no-op besides the clear.
func (m *Manager) Logout(ctx context.Context) error {
	if sess, err := m.store.Load(); err == nil && sess != nil && sess.AccessToken != "" {
		if resp, err := m.send(ctx, http.MethodPost, logoutPath, nil, sess.AccessToken); err == nil {
			resp.Body.Close()
		}
	}
	return m.store.Clear()
}

// IsAuthenticated reports whether a non-expired access token is stored.
// An expired or absent access token returns false even when a refresh
// token is present: refresh happens lazily inside Do, not here. When the
// token is unusable and no refresh token remains, the session is cleared.
func (m *Manager) IsAuthenticated() bool {
	sess, err := m.store.Load()
	if err != nil || sess == nil || sess.AccessToken == "" {
		return false
	}

	claims, err := ParseClaims(sess.AccessToken)
	if err != nil {
		m.store.Clear()
		return false
	}

	if claims.Expired(m.now()) {
		if sess.RefreshToken == "" {
			m.store.Clear()
		}
		return false
	}
	return true
}

// CurrentUser returns the stored user, or nil when no session is active.
func (m *Manager) CurrentUser() *User {
	sess, err := m.store.Load()
	if err != nil || sess == nil {
		return nil
	}
	return sess.User
}

// HasPermission reports whether the logged-in user may perform action
// ("view", "create", "update" or "delete") on the named module. The module
// match is case-insensitive; anything not explicitly granted is denied.
func (m *Manager) HasPermission(module, action string) bool {
	user := m.CurrentUser()
	if user == nil {
		return false
	}

	for _, p := range user.Permissions {
		if !strings.EqualFold(p.Module, module) {
			continue
		}
		switch action {
		case ActionView:
			return p.CanView
		case ActionCreate:
			return p.CanCreate
		case ActionUpdate:
			return p.CanUpdate
		case ActionDelete:
			return p.CanDelete
		default:
			return false
		}
	}
	return false
}

// Do performs an authenticated request against the API. The request
// carries a bearer token, refreshing it when absent; a 401 response
// triggers exactly one refresh and one retry. When refresh cannot produce
// a usable token the session is cleared and ErrAuthRequired is returned
// without (further) issuing the request.
//
// A terminal non-2xx response with a JSON error body is converted into an
// *APIError; a non-JSON error body is handed back to the caller unchanged.
func (m *Manager) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	sess, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var accessToken, refreshToken string
	if sess != nil {
		accessToken = sess.AccessToken
		refreshToken = sess.RefreshToken
	}

	if accessToken == "" {
		if refreshToken == "" {
			return nil, ErrAuthRequired
		}
		tok, ok := m.RefreshAccessToken(ctx, refreshToken)
		if !ok {
			m.store.Clear()
			return nil, ErrAuthRequired
		}
		accessToken = tok
	}

	resp, err := m.send(ctx, method, path, payload, accessToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if refreshToken == "" {
			m.store.Clear()
			return nil, ErrAuthRequired
		}
		tok, ok := m.RefreshAccessToken(ctx, refreshToken)
		if !ok {
			m.store.Clear()
			return nil, ErrAuthRequired
		}
		resp, err = m.send(ctx, method, path, payload, tok)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			m.store.Clear()
			return nil, ErrAuthRequired
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read error response: %w", err)
		}
		var envelope struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(b, &envelope) == nil && envelope.Message != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: envelope.Code, Message: envelope.Message}
		}
		// Non-JSON error bodies surface to the caller unchanged.
		resp.Body = io.NopCloser(bytes.NewReader(b))
		return resp, nil
	}

	return resp, nil
}

type refreshResponse struct {
	Result struct {
		AccessToken string `json:"accessToken"`
	} `json:"result"`
}

// RefreshAccessToken exchanges the refresh token for a new access token
// and persists it. Any failure, network or otherwise, reports ok=false;
// refresh never escalates into an error by itself.
func (m *Manager) RefreshAccessToken(ctx context.Context, refreshToken string) (string, bool) {
	resp, err := m.post(ctx, refreshPath, map[string]string{"refreshToken": refreshToken})
	if err != nil {
		slog.Debug("token refresh failed", "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("token refresh rejected", "status", resp.StatusCode)
		return "", false
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil || rr.Result.AccessToken == "" {
		slog.Debug("token refresh returned malformed body")
		return "", false
	}

	sess, err := m.store.Load()
	if err != nil || sess == nil {
		sess = &Session{RefreshToken: refreshToken}
	}
	sess.AccessToken = rr.Result.AccessToken
	if err := m.store.Save(sess); err != nil {
		slog.Debug("failed to persist refreshed token", "error", err)
		return "", false
	}

	slog.Debug("access token refreshed")
	return rr.Result.AccessToken, true
}

// send issues one HTTP request with the given bearer token.
func (m *Manager) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.url(path), rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	slog.Debug("api request", "request_id", requestID, "method", method, "path", path)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	slog.Debug("api response", "request_id", requestID, "status", resp.StatusCode)
	return resp, nil
}

// post issues an unauthenticated JSON POST (login, refresh, recovery).
func (m *Manager) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return m.client.Do(req)
}

func (m *Manager) url(path string) string {
	return m.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// errorFromBody turns a non-2xx body into an *APIError when it carries a
// JSON error envelope, or a bare status error otherwise.
func errorFromBody(status int, body []byte) error {
	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
		return &APIError{StatusCode: status, Code: envelope.Code, Message: envelope.Message}
	}
	return fmt.Errorf("request failed with status %d", status)
}
