package auth

import (
	"github.com/planhub/planhub-cli/internal/config"
)

// ConfigStore persists the session in the planhub config file. It is the
// production Store; tests use MemStore.
type ConfigStore struct{}

// NewConfigStore returns the config-file backed store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

func (s *ConfigStore) Load() (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.AccessToken == "" && cfg.RefreshToken == "" && cfg.User == nil {
		return nil, nil
	}

	sess := &Session{
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
	}
	if cfg.User != nil {
		sess.User = userFromConfig(cfg.User)
	}
	return sess, nil
}

func (s *ConfigStore) Save(sess *Session) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.AccessToken = sess.AccessToken
	cfg.RefreshToken = sess.RefreshToken
	cfg.User = userToConfig(sess.User)
	return config.Save(cfg)
}

func (s *ConfigStore) Clear() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.AccessToken = ""
	cfg.RefreshToken = ""
	cfg.User = nil
	return config.Save(cfg)
}

func (s *ConfigStore) ResetToken() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.ResetToken, nil
}

func (s *ConfigStore) SaveResetToken(token string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ResetToken = token
	return config.Save(cfg)
}

func (s *ConfigStore) ClearResetToken() error {
	return s.SaveResetToken("")
}

func userFromConfig(u *config.User) *User {
	perms := make([]Permission, len(u.Permissions))
	for i, p := range u.Permissions {
		perms[i] = Permission{
			Module:    p.Module,
			CanView:   p.CanView,
			CanCreate: p.CanCreate,
			CanUpdate: p.CanUpdate,
			CanDelete: p.CanDelete,
		}
	}
	return &User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: perms,
	}
}

func userToConfig(u *User) *config.User {
	if u == nil {
		return nil
	}
	perms := make([]config.Permission, len(u.Permissions))
	for i, p := range u.Permissions {
		perms[i] = config.Permission{
			Module:    p.Module,
			CanView:   p.CanView,
			CanCreate: p.CanCreate,
			CanUpdate: p.CanUpdate,
			CanDelete: p.CanDelete,
		}
	}
	return &config.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: perms,
	}
}
