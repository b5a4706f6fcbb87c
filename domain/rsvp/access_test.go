package rsvp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccessTokens(t *testing.T) *AccessTokens {
	t.Helper()

	tokens, err := NewAccessTokens(AccessConfig{Secret: "record-secret", TTL: time.Hour, PendingTTL: time.Minute})
	require.NoError(t, err)
	return tokens
}

func TestNewAccessTokens_RequiresSecret(t *testing.T) {
	_, err := NewAccessTokens(AccessConfig{})
	assert.ErrorIs(t, err, ErrAccessSecretMissing)
}

func TestAccessTokens_IssueAndVerify(t *testing.T) {
	tokens := newTestAccessTokens(t)
	tokens.now = func() time.Time { return fixedNow }

	record, err := tokens.Issue("rsvp-1", ScopeRecord)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T19:00:00Z", record.ExpiresAt)

	pending, err := tokens.Issue("rsvp-1", ScopePending)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T18:01:00Z", pending.ExpiresAt)

	assert.NoError(t, tokens.Verify(record.Token, "rsvp-1", ScopeRecord))
	assert.NoError(t, tokens.Verify(pending.Token, "rsvp-1", ScopePending, ScopeRecord))

	assert.ErrorIs(t, tokens.Verify(record.Token, "rsvp-2", ScopeRecord), ErrAccessDenied)
	assert.ErrorIs(t, tokens.Verify(pending.Token, "rsvp-1", ScopeRecord), ErrAccessDenied)
	assert.ErrorIs(t, tokens.Verify(record.Token, "", ScopeRecord), ErrAccessDenied)
}

func TestAccessTokens_RejectsExpiredToken(t *testing.T) {
	tokens := newTestAccessTokens(t)
	tokens.now = func() time.Time { return fixedNow }

	pending, err := tokens.Issue("rsvp-1", ScopePending)
	require.NoError(t, err)

	tokens.now = func() time.Time { return fixedNow.Add(2 * time.Minute) }
	assert.ErrorIs(t, tokens.Verify(pending.Token, "rsvp-1", ScopePending), ErrAccessDenied)
}

func TestAccessTokens_RejectsForeignSignature(t *testing.T) {
	tokens := newTestAccessTokens(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Scope: ScopeRecord,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    accessIssuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			Subject:   "rsvp-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	assert.ErrorIs(t, tokens.Verify(signed, "rsvp-1", ScopeRecord), ErrAccessDenied)
}

func TestRequireRecordAccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTestAccessTokens(t)

	engine := gin.New()
	engine.GET("/rsvps/:id", RequireRecordAccess(tokens, ScopeRecord), func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})

	own, err := tokens.Issue("rsvp-1", ScopeRecord)
	require.NoError(t, err)
	other, err := tokens.Issue("rsvp-2", ScopeRecord)
	require.NoError(t, err)
	pending, err := tokens.Issue("rsvp-1", ScopePending)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		status int
	}{
		"no header":             {"", http.StatusUnauthorized},
		"wrong scheme":          {"Basic " + own.Token, http.StatusUnauthorized},
		"another record":        {"Bearer " + other.Token, http.StatusUnauthorized},
		"unverified creator":    {"Bearer " + pending.Token, http.StatusUnauthorized},
		"verified record owner": {"Bearer " + own.Token, http.StatusOK},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rsvps/rsvp-1", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
