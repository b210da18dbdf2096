// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type memoryUsers struct {
	mu        sync.Mutex
	byID      map[string]*UserInfo
	roleNames map[int64]string

	// createErr forces Create to fail after EmailTaken said no.
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		byID:      map[string]*UserInfo{},
		roleNames: map[int64]string{1: "admin", 2: "teacher", 3: "player"},
	}
}

func (m *memoryUsers) GetActiveByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == email && u.IsActive {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (m *memoryUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Create(
	_ context.Context,
	email, passwordHash, fullName string,
	roleID int64,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}

	for _, u := range m.byID {
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}

	u := &UserInfo{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         m.roleNames[roleID],
		RoleID:       roleID,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.byID[u.ID] = u

	c := *u
	return &c, nil
}

func (m *memoryUsers) IncrementTokenVersion(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memoryUsers) setActive(userID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[userID].IsActive = active
}

type staticRoles struct {
	ids   map[string]int64
	perms map[string][]string
}

func (r staticRoles) RoleIDByName(_ context.Context, name string) (int64, error) {
	id, ok := r.ids[name]
	if !ok {
		return 0, fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	return id, nil
}

func (r staticRoles) PermissionsForUser(_ context.Context, userID string) []string {
	if p, ok := r.perms[userID]; ok {
		return p
	}
	return []string{}
}

type recordedEvents struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordedEvents) Record(_ context.Context, e audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func (r *recordedEvents) last() audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recordedEvents) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken

	createErr error
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]*RefreshToken{}}
}

func (m *memoryTokens) Create(_ context.Context, t *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	t.CreatedAt = time.Now()
	c := *t
	m.tokens[t.ID] = &c
	return nil
}

func (m *memoryTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.TokenHash == hash {
			c := *t
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (m *memoryTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[id]
	if !ok || t.IsUsed || t.RevokedAt != nil {
		return fmt.Errorf("mark refresh token as used: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	return nil
}

func (m *memoryTokens) revokeWhere(match func(*RefreshToken) bool) int64 {
	now := time.Now()
	var n int64
	for _, t := range m.tokens {
		if t.RevokedAt == nil && match(t) {
			t.RevokedAt = &now
			n++
		}
	}
	return n
}

func (m *memoryTokens) RevokeByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.revokeWhere(func(t *RefreshToken) bool { return t.ID == id }) == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (m *memoryTokens) RevokeByIDForUser(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.revokeWhere(func(t *RefreshToken) bool {
		return t.ID == id && t.UserID == userID
	}) == 0 {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}
	return nil
}

func (m *memoryTokens) RevokeByFamilyID(_ context.Context, familyID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeWhere(func(t *RefreshToken) bool { return t.FamilyID == familyID }), nil
}

func (m *memoryTokens) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeWhere(func(t *RefreshToken) bool { return t.UserID == userID }), nil
}

func (m *memoryTokens) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []RefreshToken{}
	for _, t := range m.tokens {
		if t.UserID == userID && !t.IsUsed && t.RevokedAt == nil &&
			time.Now().Before(t.ExpiresAt) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memoryTokens) DeleteExpired(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(olderThan) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

type fixture struct {
	svc    *Service
	jwt    *JWTManager
	users  *memoryUsers
	tokens *memoryTokens
	events *recordedEvents
	redis  *miniredis.Miniredis
}

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "quiz-platform-test",
		Audience:           "quiz-platform-test-api",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	jwtManager, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		jwt:    jwtManager,
		users:  newMemoryUsers(),
		tokens: newMemoryTokens(),
		events: &recordedEvents{},
		redis:  mr,
	}

	f.svc = NewService(Deps{
		Tokens:    f.tokens,
		JWT:       jwtManager,
		Users:     f.users,
		Roles:     staticRoles{ids: map[string]int64{"admin": 1, "teacher": 2, "player": 3}},
		Audit:     f.events,
		Blacklist: NewRedisBlacklist(client),
		Config: config.AuthConfig{
			DefaultRole:        "player",
			UniformLoginErrors: true,
		},
	})

	return f
}

// signup registers a user through the service and clears the audit log.
func (f *fixture) signup(t *testing.T, email, password string) *AuthResponse {
	t.Helper()

	resp, err := f.svc.Signup(context.Background(), SignupRequest{
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)
	f.events.reset()
	return resp
}
