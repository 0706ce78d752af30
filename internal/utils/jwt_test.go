package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewSessionToken("secret", "abc-123", "42", time.Hour, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), tok.Exp, time.Second)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.SessionID)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseSessionTokenRejects(t *testing.T) {
	good, err := NewSessionToken("secret", "sid", "1", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := NewSessionToken("secret", "sid", "1", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	noSID, err := NewSessionToken("secret", "", "1", time.Hour, time.Now())
	require.NoError(t, err)

	cases := map[string]struct {
		secret string
		raw    string
	}{
		"wrong secret": {"other", good.Token},
		"expired":      {"secret", expired.Token},
		"missing sid":  {"secret", noSID.Token},
		"garbage":      {"secret", "not.a.jwt"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}
