package hivekeeper_test

import (
	"context"
	"testing"
	"time"

	hivekeeper "github.com/apiarylab/hivekeeper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentityProvider implements hivekeeper.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (hivekeeper.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hivekeeper.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (hivekeeper.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(hivekeeper.Identity), args.Error(1)
}

// fakeSessions records calls; only the methods the authenticator touches are
// implemented, the embedded interface covers the rest.
type fakeSessions struct {
	hivekeeper.Sessions
	created     []*hivekeeper.Session
	invalidated []string
}

func (f *fakeSessions) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time, meta hivekeeper.SessionMetadata) (*hivekeeper.Session, error) {
	record := &hivekeeper.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: expiresAt,
		Valid:     true,
	}
	f.created = append(f.created, record)
	return record, nil
}

func (f *fakeSessions) InvalidateByToken(ctx context.Context, token string) error {
	f.invalidated = append(f.invalidated, token)
	return nil
}

type authTestConfig struct{}

func (authTestConfig) GetSigningKey() string   { return "test-signing-key" }
func (authTestConfig) GetTokenExpiration() int { return 72 }
func (authTestConfig) GetIssuer() string       { return "hivekeeper-test" }
func (authTestConfig) GetAudience() []string   { return nil }
func (authTestConfig) GetContextKey() string   { return "user" }
func (authTestConfig) GetTokenLookup() string  { return "header:Authorization" }
func (authTestConfig) GetAuthScheme() string   { return "Bearer" }
func (authTestConfig) GetHashTime() uint32     { return 1 }
func (authTestConfig) GetHashMemory() uint32   { return 8 * 1024 }
func (authTestConfig) GetHashThreads() uint8   { return 1 }

func TestLoginCreatesSession(t *testing.T) {
	provider := new(MockIdentityProvider)
	provider.On("VerifyIdentity", mock.Anything, "keeper@example.com", "secret password").
		Return(keeperIdentity, nil)

	sessions := &fakeSessions{}
	auther := hivekeeper.NewAuthenticator(provider, sessions, authTestConfig{})

	meta := hivekeeper.SessionMetadata{
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
	}

	result, err := auther.Login(context.Background(), "keeper@example.com", "secret password", meta)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Token)

	require.Len(t, sessions.created, 1)
	session := sessions.created[0]

	assert.Equal(t, keeperIdentity.ID(), session.UserID.String())
	assert.Equal(t, result.Token, session.Token)
	assert.Equal(t, "test-agent", session.UserAgent)
	assert.Equal(t, "127.0.0.1", session.IPAddress)
	assert.True(t, session.Valid)

	// Session expiry mirrors the token window.
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), session.ExpiresAt, time.Minute)

	// The stored token validates against the same service.
	claims, err := auther.TokenService().Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, keeperIdentity.ID(), claims.UserID())
}

func TestLoginFailurePropagatesAndCreatesNothing(t *testing.T) {
	provider := new(MockIdentityProvider)
	provider.On("VerifyIdentity", mock.Anything, "keeper@example.com", "wrong").
		Return(nil, hivekeeper.ErrInvalidCredentials)

	sessions := &fakeSessions{}
	auther := hivekeeper.NewAuthenticator(provider, sessions, authTestConfig{})

	result, err := auther.Login(context.Background(), "keeper@example.com", "wrong", hivekeeper.SessionMetadata{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, hivekeeper.ErrInvalidCredentials)
	assert.Empty(t, sessions.created)
}

func TestLogoutInvalidatesByToken(t *testing.T) {
	sessions := &fakeSessions{}
	auther := hivekeeper.NewAuthenticator(new(MockIdentityProvider), sessions, authTestConfig{})

	err := auther.Logout(context.Background(), "some-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"some-token"}, sessions.invalidated)
}

func TestLogoutRejectsEmptyToken(t *testing.T) {
	sessions := &fakeSessions{}
	auther := hivekeeper.NewAuthenticator(new(MockIdentityProvider), sessions, authTestConfig{})

	err := auther.Logout(context.Background(), "")
	assert.ErrorIs(t, err, hivekeeper.ErrTokenMalformed)
	assert.Empty(t, sessions.invalidated)
}
