package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestManager(baseURL string) (*Manager, *MemStore) {
	store := NewMemStore()
	return NewManager(baseURL, store), store
}

func validToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return mintToken(t, map[string]any{
		"id":    int64(1),
		"name":  "Alex",
		"email": "a@b.com",
		"role":  RoleProjectManager,
		"exp":   exp.Unix(),
		"permissions": []map[string]any{
			{"module": "Projects", "canView": true, "canCreate": true},
			{"module": "TASKS", "canView": true, "canUpdate": true},
		},
	})
}

func seedSession(t *testing.T, store *MemStore, access, refresh string) {
	t.Helper()
	var user *User
	if access != "" {
		claims, err := ParseClaims(access)
		if err != nil {
			t.Fatalf("failed to parse seeded token: %v", err)
		}
		user = UserFromClaims(claims)
	}
	if err := store.Save(&Session{AccessToken: access, RefreshToken: refresh, User: user}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Fatalf("failed to write response: %v", err)
	}
}

func TestLoginStoresSession(t *testing.T) {
	access := validToken(t, time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("failed to decode credentials: %v", err)
		}
		if creds["email"] != "a@b.com" || creds["password"] != "validpass1" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "bad credentials"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"code":    200,
			"message": nil,
			"result":  map[string]string{"accessToken": access, "refreshToken": "r1"},
		})
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	if err := mgr.Login(context.Background(), "a@b.com", "validpass1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sess, _ := store.Load()
	if sess == nil || sess.AccessToken != access || sess.RefreshToken != "r1" {
		t.Fatalf("session not persisted: %+v", sess)
	}
	if sess.User == nil || sess.User.Email != "a@b.com" || sess.User.Role != RoleProjectManager {
		t.Errorf("user not decoded from claims: %+v", sess.User)
	}
	if !mgr.IsAuthenticated() {
		t.Error("IsAuthenticated should be true after login")
	}
	if !mgr.HasPermission("projects", ActionView) {
		t.Error("HasPermission should reflect decoded claims")
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "bad credentials"})
			},
		},
		{
			name: "missing token pair",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"code": 200, "result": map[string]string{}})
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, "<html>login page</html>")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			mgr, store := newTestManager(srv.URL)
			if err := mgr.Login(context.Background(), "a@b.com", "pw"); err == nil {
				t.Fatal("Login should fail")
			}
			if sess, _ := store.Load(); sess != nil {
				t.Errorf("failed login must not persist a session, got %+v", sess)
			}
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	mgr, store := newTestManager("http://unused")

	if mgr.IsAuthenticated() {
		t.Error("empty store should not be authenticated")
	}

	// Expired access token with a refresh token: false, but the session
	// survives so the next Do can refresh lazily.
	seedSession(t, store, validToken(t, time.Now().Add(-time.Minute)), "r1")
	if mgr.IsAuthenticated() {
		t.Error("expired token must report unauthenticated even with refresh token")
	}
	if sess, _ := store.Load(); sess == nil {
		t.Error("session with refresh token should survive the check")
	}

	// Expired access token and no refresh token: cleared as a side effect.
	seedSession(t, store, validToken(t, time.Now().Add(-time.Minute)), "")
	if mgr.IsAuthenticated() {
		t.Error("expired token without refresh must report unauthenticated")
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("session without refresh token should be cleared")
	}

	// Unparsable token: cleared.
	store.Save(&Session{AccessToken: "garbage"})
	if mgr.IsAuthenticated() {
		t.Error("invalid token must report unauthenticated")
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("session with invalid token should be cleared")
	}
}

func TestDoRetriesExactlyOnceOn401(t *testing.T) {
	oldAccess := validToken(t, time.Now().Add(time.Hour))
	newAccess := validToken(t, time.Now().Add(2*time.Hour))

	var resourceCalls, refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh-token":
			refreshCalls++
			writeJSON(t, w, http.StatusOK, map[string]any{
				"result": map[string]string{"accessToken": newAccess},
			})
		case "/api/things":
			resourceCalls++
			if r.Header.Get("Authorization") == "Bearer "+newAccess {
				writeJSON(t, w, http.StatusOK, map[string]any{"code": 200, "result": "ok"})
				return
			}
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "expired"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, oldAccess, "r1")

	resp, err := mgr.Do(context.Background(), http.MethodGet, "api/things", nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", refreshCalls)
	}
	if resourceCalls != 2 {
		t.Errorf("resource calls = %d, want exactly 2 (original + one retry)", resourceCalls)
	}
	if sess, _ := store.Load(); sess == nil || sess.AccessToken != newAccess {
		t.Error("refreshed access token should be persisted")
	}
}

func TestDoSilentRefreshOnMissingAccessToken(t *testing.T) {
	newAccess := validToken(t, time.Now().Add(time.Hour))

	var refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh-token":
			refreshCalls++
			writeJSON(t, w, http.StatusOK, map[string]any{
				"result": map[string]string{"accessToken": newAccess},
			})
		case "/api/things":
			if r.Header.Get("Authorization") != "Bearer "+newAccess {
				t.Errorf("request sent without refreshed token")
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"code": 200, "result": "ok"})
		}
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, "", "r1")

	resp, err := mgr.Do(context.Background(), http.MethodGet, "api/things", nil)
	if err != nil {
		t.Fatalf("Do should succeed after silent refresh: %v", err)
	}
	resp.Body.Close()

	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
}

func TestDoWithoutAnyTokens(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	mgr, _ := newTestManager(srv.URL)
	if _, err := mgr.Do(context.Background(), http.MethodGet, "api/things", nil); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if called {
		t.Error("no HTTP request may be issued without tokens")
	}
}

func TestDoRefreshFailureClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh-token":
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "refresh expired"})
		default:
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "expired"})
		}
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, validToken(t, time.Now().Add(time.Hour)), "r1")

	if _, err := mgr.Do(context.Background(), http.MethodGet, "api/things", nil); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("session should be cleared after refresh failure")
	}
}

func TestDoNeverRetriesTwice(t *testing.T) {
	newAccess := validToken(t, time.Now().Add(time.Hour))

	var resourceCalls, refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh-token":
			refreshCalls++
			writeJSON(t, w, http.StatusOK, map[string]any{
				"result": map[string]string{"accessToken": newAccess},
			})
		default:
			resourceCalls++
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "still no"})
		}
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, validToken(t, time.Now().Add(time.Hour)), "r1")

	if _, err := mgr.Do(context.Background(), http.MethodGet, "api/things", nil); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if resourceCalls != 2 {
		t.Errorf("resource calls = %d, want 2 (never more than one retry)", resourceCalls)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("session should be cleared when the retry also fails")
	}
}

func TestDoErrorBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/json-error":
			writeJSON(t, w, http.StatusNotFound, map[string]any{"code": 404, "message": "project not found"})
		case "/api/raw-error":
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "upstream exploded")
		}
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, validToken(t, time.Now().Add(time.Hour)), "r1")

	_, err := mgr.Do(context.Background(), http.MethodGet, "api/json-error", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "project not found" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}

	// A non-JSON error body is handed back to the caller unchanged.
	resp, err := mgr.Do(context.Background(), http.MethodGet, "api/raw-error", nil)
	if err != nil {
		t.Fatalf("non-JSON error body should not raise: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "upstream exploded" {
		t.Errorf("body = %q, want original content", body)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server-side logout failing must not block the local clear.
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	mgr, store := newTestManager(srv.URL)
	seedSession(t, store, validToken(t, time.Now().Add(time.Hour)), "r1")

	if err := mgr.Logout(context.Background()); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("session should be cleared after logout")
	}
	if err := mgr.Logout(context.Background()); err != nil {
		t.Fatalf("second Logout must be a no-op, got: %v", err)
	}
}

func TestHasPermission(t *testing.T) {
	mgr, store := newTestManager("http://unused")
	seedSession(t, store, validToken(t, time.Now().Add(time.Hour)), "r1")

	tests := []struct {
		module string
		action string
		want   bool
	}{
		{"PROJECTS", ActionView, true},
		{"projects", ActionView, true}, // case-insensitive
		{"Projects", ActionCreate, true},
		{"PROJECTS", ActionDelete, false},
		{"tasks", ActionUpdate, true},
		{"TASKS", ActionCreate, false},
		{"BILLING", ActionView, false}, // absent module
		{"PROJECTS", "approve", false}, // unknown action
	}
	for _, tt := range tests {
		if got := mgr.HasPermission(tt.module, tt.action); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.module, tt.action, got, tt.want)
		}
	}

	store.Clear()
	if mgr.HasPermission("PROJECTS", ActionView) {
		t.Error("HasPermission must be false with no session")
	}
}

func TestRefreshAccessTokenFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "nope"})
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"result": map[string]string{}})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			mgr, _ := newTestManager(srv.URL)
			if _, ok := mgr.RefreshAccessToken(context.Background(), "r1"); ok {
				t.Error("RefreshAccessToken should report failure")
			}
		})
	}
}
