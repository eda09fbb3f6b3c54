package auth

import (
	"path/filepath"
	"testing"

	"github.com/planhub/planhub-cli/internal/config"
)

func useTempConfig(t *testing.T) {
	t.Helper()
	old := config.GetConfigPath()
	config.SetConfigPath(filepath.Join(t.TempDir(), "config.yaml"))
	t.Cleanup(func() { config.SetConfigPath(old) })
}

func TestConfigStoreRoundTrip(t *testing.T) {
	useTempConfig(t)
	store := NewConfigStore()

	if sess, err := store.Load(); err != nil || sess != nil {
		t.Fatalf("fresh store should load nil session, got %+v, %v", sess, err)
	}

	want := &Session{
		AccessToken:  "acc",
		RefreshToken: "ref",
		User: &User{
			ID:    7,
			Name:  "Dana",
			Email: "dana@b.com",
			Role:  RoleAdmin,
			Permissions: []Permission{
				{Module: "PROJECTS", CanView: true, CanDelete: true},
			},
		},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.AccessToken != "acc" || got.RefreshToken != "ref" {
		t.Errorf("tokens lost in round trip: %+v", got)
	}
	if got.User == nil || got.User.Name != "Dana" || got.User.Role != RoleAdmin {
		t.Fatalf("user lost in round trip: %+v", got.User)
	}
	if len(got.User.Permissions) != 1 || !got.User.Permissions[0].CanDelete {
		t.Errorf("permissions lost in round trip: %+v", got.User.Permissions)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if sess, _ := store.Load(); sess != nil {
		t.Errorf("session should be gone after Clear, got %+v", sess)
	}

	// Clearing the session must not touch unrelated config values.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	if cfg.ServerURL == "" {
		t.Error("server URL should survive a session clear")
	}
}

func TestConfigStoreResetToken(t *testing.T) {
	useTempConfig(t)
	store := NewConfigStore()

	if tok, err := store.ResetToken(); err != nil || tok != "" {
		t.Fatalf("fresh store: token = %q, err = %v", tok, err)
	}
	if err := store.SaveResetToken("rt-1"); err != nil {
		t.Fatalf("SaveResetToken failed: %v", err)
	}
	if tok, _ := store.ResetToken(); tok != "rt-1" {
		t.Errorf("token = %q, want rt-1", tok)
	}
	if err := store.ClearResetToken(); err != nil {
		t.Fatalf("ClearResetToken failed: %v", err)
	}
	if tok, _ := store.ResetToken(); tok != "" {
		t.Errorf("token = %q, want empty after clear", tok)
	}
}
