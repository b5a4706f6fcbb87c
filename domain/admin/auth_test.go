package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("purim-2026"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthenticator(AuthConfig{
		Email:        "Admin@Example.com",
		PasswordHash: string(hash),
		Secret:       "test-secret",
		TokenTTL:     time.Hour,
	})
}

func TestAuthenticator_LoginAndVerify(t *testing.T) {
	auth := newTestAuthenticator(t)

	token, expiresAt, err := auth.Login(" admin@example.com ", "purim-2026")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	email, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestAuthenticator_RejectsBadCredentials(t *testing.T) {
	auth := newTestAuthenticator(t)

	_, _, err := auth.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("someone@example.com", "purim-2026")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticator_RejectsExpiredToken(t *testing.T) {
	auth := newTestAuthenticator(t)
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := auth.Login("admin@example.com", "purim-2026")
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticator_RejectsForeignSignature(t *testing.T) {
	auth := newTestAuthenticator(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "admin@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = auth.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthConfig_Enabled(t *testing.T) {
	assert.False(t, AuthConfig{}.Enabled())
	assert.False(t, AuthConfig{Email: "a@b.c", PasswordHash: "x"}.Enabled())
	assert.True(t, AuthConfig{Email: "a@b.c", PasswordHash: "x", Secret: "s"}.Enabled())
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator(t)

	engine := gin.New()
	engine.GET("/private", RequireAdmin(auth), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyAdminEmail))
	})

	token, _, err := auth.Login("admin@example.com", "purim-2026")
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		status int
	}{
		"no header":     {"", http.StatusUnauthorized},
		"wrong scheme":  {"Basic " + token, http.StatusUnauthorized},
		"garbage token": {"Bearer not-a-token", http.StatusUnauthorized},
		"valid token":   {"Bearer " + token, http.StatusOK},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "admin@example.com", rec.Body.String())
			}
		})
	}
}
