package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPairRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 5*time.Minute, time.Hour)
	pair, err := m.IssuePair(42)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	id, err := m.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	// a refresh token is not accepted where an access token is required
	_, err = m.Parse(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	access, err := m.Refresh(pair.Refresh)
	require.NoError(t, err)
	id, err = m.Parse(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = m.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager("secret", time.Minute, time.Hour)
	now := time.Now()
	m.now = func() time.Time { return now }

	pair, err := m.IssuePair(1)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = m.Parse(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(pair.Refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestTokenRejectsForeignSignatures(t *testing.T) {
	issuer := NewTokenManager("one", time.Minute, time.Hour)
	verifier := NewTokenManager("two", time.Minute, time.Hour)
	pair, err := issuer.IssuePair(7)
	require.NoError(t, err)

	_, err = verifier.Parse(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Parse("not-a-jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenTypeAccess})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = verifier.Parse(unsigned, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute, time.Hour).IssuePair(1)
	assert.Error(t, err)
}
