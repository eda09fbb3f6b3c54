package auth

// Role values carried in the access token's role claim.
const (
	RoleAdmin          = "ADMIN"
	RoleProjectManager = "PROJECT_MANAGER"
	RoleDeveloper      = "DEVELOPER"
)

// Action names accepted by HasPermission.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Permission is a per-module capability flag set attached to a user's role.
type Permission struct {
	Module    string `json:"module"`
	CanView   bool   `json:"canView"`
	CanCreate bool   `json:"canCreate"`
	CanUpdate bool   `json:"canUpdate"`
	CanDelete bool   `json:"canDelete"`
}

// User is the identity decoded from the access token at login.
type User struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// Session holds the current authenticated identity. At most one session is
// active at a time; the Manager owns it and every other component reads it
// through the Manager's accessors.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

// Store persists the session and the transient password-reset token.
// The Manager is handed a Store explicitly so its lifecycle is testable
// without a real storage backend.
type Store interface {
	// Load returns the stored session, or nil when none is stored.
	Load() (*Session, error)
	Save(*Session) error
	Clear() error

	ResetToken() (string, error)
	SaveResetToken(string) error
	ClearResetToken() error
}

// MemStore is an in-memory Store. It backs tests and one-off invocations
// where credentials must not touch disk.
type MemStore struct {
	session    *Session
	resetToken string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Load() (*Session, error) {
	return m.session, nil
}

func (m *MemStore) Save(s *Session) error {
	m.session = s
	return nil
}

func (m *MemStore) Clear() error {
	m.session = nil
	return nil
}

func (m *MemStore) ResetToken() (string, error) {
	return m.resetToken, nil
}

func (m *MemStore) SaveResetToken(token string) error {
	m.resetToken = token
	return nil
}

func (m *MemStore) ClearResetToken() error {
	m.resetToken = ""
	return nil
}
