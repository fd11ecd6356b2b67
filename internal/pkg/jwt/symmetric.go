package jwt

import (
	"errors"
	"fmt"
	"strconv"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric shares one HS512 secret with the staff portal.
type Symmetric struct {
	cfg    Config
	parser *libJWT.Parser
}

func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, ErrSigningKeyTooShort
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuer(cfg.Issuer),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(cfg.Audiences...))
	}
	if cfg.Clock != nil {
		opts = append(opts, libJWT.WithTimeFunc(cfg.Clock.Now))
	}

	return &Symmetric{cfg: cfg, parser: libJWT.NewParser(opts...)}, nil
}

func (s *Symmetric) Generate(uid int64, role string) (string, error) {
	now := s.cfg.Clock.Now()
	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(uid, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID: uid,
		Role:   normalizeRole(role),
	}
	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(s.cfg.Secret)
}

func (s *Symmetric) key(t *libJWT.Token) (any, error) {
	if _, ok := t.Method.(*libJWT.SigningMethodHMAC); !ok {
		return nil, ErrInvalidSigningMethod
	}
	return s.cfg.Secret, nil
}

// Verify returns ErrTokenExpired or ErrMissingRole for those two cases and
// wraps every other rejection in ErrInvalidToken.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := s.parser.ParseWithClaims(token, &claims, s.key)
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	case !parsed.Valid:
		return Claims{}, ErrInvalidToken
	}

	claims.Role = normalizeRole(claims.Role)
	if claims.Role == "" {
		return Claims{}, ErrMissingRole
	}
	return claims, nil
}
