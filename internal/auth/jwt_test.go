// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)

	issued, err := m.CreateAccessToken(&UserInfo{ID: "u1", Role: "teacher", TokenVersion: 3})
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "teacher", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestAccessTokenExpires(t *testing.T) {
	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)

	issued, err := m.CreateAccessToken(&UserInfo{ID: "u1", Role: "player"})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.VerifyAccessToken(context.Background(), issued.Token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)

	refresh, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	assert.NotEmpty(t, refresh.FamilyID)
	assert.NotEqual(t, refresh.Token, refresh.Hash)

	_, err = m.VerifyAccessToken(context.Background(), refresh.Token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSPublishesPublicKeyOnly(t *testing.T) {
	m, err := NewJWTManager(testJWTConfig(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.Equal(t, "ES256", body.Keys[0]["alg"])
	assert.NotContains(t, body.Keys[0], "d")
}

func TestGenerateKeyPairRefusesOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "keys")
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(priv, pub))
	require.ErrorIs(t, GenerateKeyPair(priv, pub), ErrKeyExists)
}
