package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type staticUUID struct{}

func (staticUUID) Generate() string { return "jti-1" }

func newTestJWT(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "staff-portal",
		Audiences: []string{"gonotif"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticUUID{},
	})
	require.NoError(t, err)

	return j
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(42, "admin")
	require.NoError(t, err)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestSymmetric_VerifyExpired(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(1, "RECEPTION")
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_VerifyMissingRole(t *testing.T) {
	j := newTestJWT(t, &fixedClock{now: time.Now()})

	token, err := j.Generate(1, "  ")
	require.NoError(t, err)

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrMissingRole)
}

func TestAuthContext(t *testing.T) {
	assert.Nil(t, GetAuth(context.Background()))

	ctx := SetAuth(context.Background(), Claims{UserID: 7, Role: "ADMIN"})
	clm := GetAuth(ctx)
	require.NotNil(t, clm)
	assert.Equal(t, "ADMIN", clm.Role)
}

func TestSymmetric_VerifyRejected(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	j := newTestJWT(t, clk)

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "staff-portal",
		Audiences: []string{"gonotif"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticUUID{},
	})
	require.NoError(t, err)

	forged, err := other.Generate(1, "ADMIN")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": forged,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
