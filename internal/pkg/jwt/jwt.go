package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the HS512 key size in bytes.
const MinSecretLen = 64

var (
	ErrSigningKeyTooShort   = errors.New("jwt: HS512 secret must be at least 64 bytes")
	ErrInvalidSigningMethod = errors.New("jwt: unexpected signing method")
	ErrInvalidToken         = errors.New("jwt: invalid token")
	ErrTokenExpired         = errors.New("jwt: token expired")
	ErrMissingRole          = errors.New("jwt: token has no role")
)

// JWT is what the router needs from a token service. Generate exists for
// the staff portal contract tests and service account provisioning.
type JWT interface {
	Generate(uid int64, role string) (string, error)
	Verify(token string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config is read from the jwt.* keys. Clock and UUID are injected so tokens
// can be checked against a fixed time in tests.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clocker
	UUID      generator
}

// Claims identifies a staff member or service account. Role is one of the
// subjects in authz.policies: ADMIN, RECEPTION or SERVICE.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id,string"`
	Role   string `json:"role"`
}

func normalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

type authKey struct{}

// SetAuth stores verified claims on ctx for the usecases.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}

// GetAuth returns nil for requests that skipped authentication.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(authKey{}).(Claims); ok {
		return &clm
	}
	return nil
}
