package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume/internal/config"
)

func testConfig(ttlMinutes int) *config.Config {
	return &config.Config{
		SecretKey:                "test-secret-key",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: ttlMinutes,
	}
}

func TestCreateAndParseToken(t *testing.T) {
	s := NewTokenService(testConfig(30))

	token, err := s.CreateAccessToken("test@example.com")
	require.NoError(t, err)

	subject, err := s.ParseSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", subject)
}

func TestParseExpiredToken(t *testing.T) {
	// A non-positive TTL makes the token expired the moment it is issued.
	s := NewTokenService(testConfig(-1))

	token, err := s.CreateAccessToken("test@example.com")
	require.NoError(t, err)

	_, err = s.ParseSubject(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseMalformedToken(t *testing.T) {
	s := NewTokenService(testConfig(30))

	_, err := s.ParseSubject("not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = s.ParseSubject("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService(testConfig(30))
	verifier := NewTokenService(&config.Config{
		SecretKey:                "rotated-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
	})

	token, err := issuer.CreateAccessToken("test@example.com")
	require.NoError(t, err)

	// Rotating the secret invalidates every outstanding token.
	_, err = verifier.ParseSubject(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
