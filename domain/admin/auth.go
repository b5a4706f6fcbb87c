package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer     = "purim-rsvp"
	defaultTokenTTL = 12 * time.Hour

	// ContextKeyAdminEmail holds the authenticated admin on the gin context.
	ContextKeyAdminEmail = "admin.email"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthConfig struct {
	Email        string
	PasswordHash string
	Secret       string
	TokenTTL     time.Duration
}

// Enabled reports whether every credential needed for admin access is set.
func (c AuthConfig) Enabled() bool {
	return c.Email != "" && c.PasswordHash != "" && c.Secret != ""
}

type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator issues and checks admin session tokens for a single
// configured operator account.
type Authenticator struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(cfg AuthConfig) *Authenticator {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &Authenticator{
		email:        strings.ToLower(strings.TrimSpace(cfg.Email)),
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.Secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login checks the credentials and returns a signed token and its expiry.
func (a *Authenticator) Login(email, password string) (string, time.Time, error) {
	given := strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(a.email)) == 1
	// The hash is compared even for an unknown email so both paths cost the same.
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))

	if !emailOK || passwordErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   a.email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify returns the admin email a valid token was issued to.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject != a.email {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// RequireAdmin rejects requests without a valid bearer token.
func RequireAdmin(auth *Authenticator) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("missing bearer token").ToJSON())
			return
		}

		email, err := auth.Verify(strings.TrimSpace(token))
		if err != nil {
			router.GetLogger(c).Warn("Rejected admin token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("invalid or expired token").ToJSON())
			return
		}

		c.Set(ContextKeyAdminEmail, email)
		c.Next()
	}
}
