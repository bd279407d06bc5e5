package hivekeeper_test

import (
	"testing"
	"time"

	hivekeeper "github.com/apiarylab/hivekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	id    string
	email string
	name  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Name() string  { return i.name }

var keeperIdentity = testIdentity{
	id:    "c7a0135e-5f19-4dbb-bd27-e1dcb8a4f52c",
	email: "keeper@example.com",
	name:  "Test Keeper",
}

func newTestTokenService(t *testing.T) hivekeeper.TokenService {
	t.Helper()
	return hivekeeper.NewTokenService(
		[]byte("test-signing-key"),
		hivekeeper.DefaultTokenExpiration,
		"hivekeeper-test",
		nil,
		nil,
	)
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(keeperIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, keeperIdentity.id, claims.Subject())
	assert.Equal(t, keeperIdentity.id, claims.UserID())
	assert.Equal(t, keeperIdentity.email, claims.UserEmail())

	window := claims.Expires().Sub(claims.IssuedAt())
	assert.Equal(t, time.Duration(hivekeeper.DefaultTokenExpiration)*time.Hour, window)
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Issue a token whose whole window already elapsed.
	token, _, err := hivekeeper.MintToken(ts, keeperIdentity, hivekeeper.TokenOptions{
		IssuedAt: time.Now().Add(-74 * time.Hour),
	})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.True(t, hivekeeper.IsTokenExpiredError(err))
}

func TestTokenServiceAcceptsTokenInsideWindow(t *testing.T) {
	ts := newTestTokenService(t)

	// Issued 71h ago under a 72h window: still good.
	token, _, err := hivekeeper.MintToken(ts, keeperIdentity, hivekeeper.TokenOptions{
		IssuedAt: time.Now().Add(-71 * time.Hour),
	})
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, keeperIdentity.id, claims.UserID())
}

func TestTokenServiceRejectsWrongKey(t *testing.T) {
	ts := newTestTokenService(t)

	other := hivekeeper.NewTokenService(
		[]byte("a-different-key"),
		hivekeeper.DefaultTokenExpiration,
		"hivekeeper-test",
		nil,
		nil,
	)

	token, err := other.Generate(keeperIdentity)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.True(t, hivekeeper.IsMalformedError(err))
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []string{
		"",
		"not-a-token",
		"aaaa.bbbb.cccc",
	}

	for _, token := range tests {
		_, err := ts.Validate(token)
		require.Error(t, err)
		assert.True(t, hivekeeper.IsMalformedError(err))
	}
}

func TestTokenServiceRejectsTamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(keeperIdentity)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	_, err = ts.Validate(tampered)
	assert.Error(t, err)
}

func TestTokenServiceDefaultExpirationFallback(t *testing.T) {
	ts := hivekeeper.NewTokenService([]byte("key"), 0, "", nil, nil)

	token, err := ts.Generate(keeperIdentity)
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	window := claims.Expires().Sub(claims.IssuedAt())
	assert.Equal(t, time.Duration(hivekeeper.DefaultTokenExpiration)*time.Hour, window)
}
