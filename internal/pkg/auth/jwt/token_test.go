package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/app/user"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	payload := &Payload{
		ID:       "u-1",
		Username: "alice",
		Role:     user.RoleAdmin,
	}

	tokenString, err := GenerateToken(payload, testSecret, time.Minute)
	require.NoError(t, err)

	parsed, err := ParseToken(tokenString, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "u-1", parsed.ID)
	assert.Equal(t, "alice", parsed.Username)
	assert.Equal(t, user.RoleAdmin, parsed.Role)
	assert.Equal(t, TokenIssuer, parsed.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenString, err := GenerateToken(&Payload{ID: "u-1", Username: "alice", Role: user.RoleMember}, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	tokenString, err := GenerateToken(&Payload{ID: "u-1", Username: "alice", Role: user.RoleMember}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tokenString, testSecret)
	assert.Error(t, err)
}

func newAuthedRequest(t *testing.T, role user.Role) *http.Request {
	t.Helper()

	tokenString, err := GenerateToken(&Payload{ID: "u-1", Username: "alice", Role: role}, testSecret, time.Minute)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	r.Header.Set("Authorization", "Bearer "+tokenString)
	return r
}

func TestMiddleware_InjectsIdentity(t *testing.T) {
	var got *Payload
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPayloadFromContext(r)
	})

	handler := IdentityExtractorMiddleware(testSecret)(next)
	handler.ServeHTTP(httptest.NewRecorder(), newAuthedRequest(t, user.RoleMember))

	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Run("member is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		handler := IdentityExtractorMiddleware(testSecret)(RequireAdmin(next))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newAuthedRequest(t, user.RoleMember))

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes through", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		handler := IdentityExtractorMiddleware(testSecret)(RequireAdmin(next))
		handler.ServeHTTP(httptest.NewRecorder(), newAuthedRequest(t, user.RoleAdmin))

		assert.True(t, called)
	})
}
