package rsvp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/golang-jwt/jwt/v5"
)

// AccessScope says what a record token was issued for.
type AccessScope string

const (
	// ScopeRecord is issued once the phone has been proven and allows reading and editing.
	ScopeRecord AccessScope = "record"
	// ScopePending is issued to whoever created an unverified record and only allows bypass.
	ScopePending AccessScope = "pending"
)

const (
	accessIssuer   = "purim-rsvp"
	accessAudience = "rsvp-record"

	DefaultAccessTTL  = 30 * 24 * time.Hour
	DefaultPendingTTL = time.Hour
)

var (
	ErrAccessSecretMissing = errors.New("record access secret is not configured")
	ErrAccessDenied        = errors.New("record access denied")
)

type AccessConfig struct {
	Secret     string
	TTL        time.Duration
	PendingTTL time.Duration
}

type accessClaims struct {
	Scope AccessScope `json:"scope"`
	jwt.RegisteredClaims
}

// AccessToken is flattened into record responses.
type AccessToken struct {
	Token     string `json:"access_token"`
	ExpiresAt string `json:"access_token_expires_at"`
}

// AccessTokens signs and checks tokens bound to a single RSVP record.
type AccessTokens struct {
	secret     []byte
	ttl        time.Duration
	pendingTTL time.Duration
	now        func() time.Time
}

func NewAccessTokens(cfg AccessConfig) (*AccessTokens, error) {
	if cfg.Secret == "" {
		return nil, ErrAccessSecretMissing
	}

	tokens := &AccessTokens{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		pendingTTL: cfg.PendingTTL,
		now:        time.Now,
	}
	if tokens.ttl <= 0 {
		tokens.ttl = DefaultAccessTTL
	}
	if tokens.pendingTTL <= 0 {
		tokens.pendingTTL = DefaultPendingTTL
	}

	return tokens, nil
}

func (t *AccessTokens) Issue(recordID string, scope AccessScope) (AccessToken, error) {
	now := t.now()

	ttl := t.ttl
	if scope == ScopePending {
		ttl = t.pendingTTL
	}
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    accessIssuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			Subject:   recordID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return AccessToken{}, err
	}

	return AccessToken{Token: signed, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)}, nil
}

// Verify accepts a token only for recordID and one of scopes.
func (t *AccessTokens) Verify(tokenString, recordID string, scopes ...AccessScope) error {
	claims := &accessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(accessIssuer),
		jwt.WithAudience(accessAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return errors.Join(ErrAccessDenied, err)
	}

	if !token.Valid || recordID == "" || claims.Subject != recordID {
		return ErrAccessDenied
	}

	for _, scope := range scopes {
		if claims.Scope == scope {
			return nil
		}
	}
	return ErrAccessDenied
}

// RequireRecordAccess guards /:id routes with a bearer token for that record.
func RequireRecordAccess(tokens *AccessTokens, scopes ...AccessScope) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("verify your phone number to access this RSVP").ToJSON())
			return
		}

		if err := tokens.Verify(strings.TrimSpace(token), c.Param("id"), scopes...); err != nil {
			router.GetLogger(c).Warn("Rejected record access token", "rsvp_id", c.Param("id"), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, router.UnauthorizedResult("invalid or expired access token").ToJSON())
			return
		}

		c.Next()
	}
}
