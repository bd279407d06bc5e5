package hivekeeper_test

import (
	"context"
	"testing"

	hivekeeper "github.com/apiarylab/hivekeeper"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserStore implements hivekeeper.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*hivekeeper.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hivekeeper.User), args.Error(1)
}

func testPasswordAuthenticator(t *testing.T) hivekeeper.PasswordAuthenticator {
	t.Helper()
	pool := hivekeeper.NewHashPool(testHasher(t), 1, 2)
	t.Cleanup(pool.Close)
	return pool
}

func storedUser(t *testing.T, hasher hivekeeper.PasswordAuthenticator, password string) *hivekeeper.User {
	t.Helper()
	hash, err := hasher.HashPassword(context.Background(), password)
	require.NoError(t, err)

	return &hivekeeper.User{
		ID:           uuid.New(),
		FirstName:    "Ana",
		LastName:     "Miel",
		Email:        "ana@example.com",
		PasswordHash: hash,
	}
}

func TestVerifyIdentitySuccess(t *testing.T) {
	hasher := testPasswordAuthenticator(t)
	user := storedUser(t, hasher, "honeycomb secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, "ana@example.com").Return(user, nil)

	provider := hivekeeper.NewUserProvider(store, hasher)

	identity, err := provider.VerifyIdentity(context.Background(), "ana@example.com", "honeycomb secret")
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, user.Email, identity.Email())
	assert.Equal(t, "Ana Miel", identity.Name())
	store.AssertExpectations(t)
}

func TestVerifyIdentityWrongPassword(t *testing.T) {
	hasher := testPasswordAuthenticator(t)
	user := storedUser(t, hasher, "honeycomb secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, "ana@example.com").Return(user, nil)

	provider := hivekeeper.NewUserProvider(store, hasher)

	identity, err := provider.VerifyIdentity(context.Background(), "ana@example.com", "wrong password")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, hivekeeper.ErrInvalidCredentials)
}

func TestVerifyIdentityUnknownIdentifier(t *testing.T) {
	hasher := testPasswordAuthenticator(t)

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, "nobody@example.com").
		Return(nil, repository.NewRecordNotFound())

	provider := hivekeeper.NewUserProvider(store, hasher)

	identity, err := provider.VerifyIdentity(context.Background(), "nobody@example.com", "whatever")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, hivekeeper.ErrInvalidCredentials)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestVerifyIdentityUniformFailure(t *testing.T) {
	hasher := testPasswordAuthenticator(t)
	user := storedUser(t, hasher, "honeycomb secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, "ana@example.com").Return(user, nil)
	store.On("GetByIdentifier", mock.Anything, "ghost@example.com").
		Return(nil, repository.NewRecordNotFound())

	provider := hivekeeper.NewUserProvider(store, hasher)

	_, wrongPassword := provider.VerifyIdentity(context.Background(), "ana@example.com", "bad")
	_, unknownEmail := provider.VerifyIdentity(context.Background(), "ghost@example.com", "bad")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestFindIdentityByIdentifier(t *testing.T) {
	hasher := testPasswordAuthenticator(t)
	user := storedUser(t, hasher, "honeycomb secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, user.ID.String()).Return(user, nil)

	provider := hivekeeper.NewUserProvider(store, hasher)

	identity, err := provider.FindIdentityByIdentifier(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, identity.Email())
}

func TestFindIdentityByIdentifierNotFound(t *testing.T) {
	hasher := testPasswordAuthenticator(t)

	store := new(MockUserStore)
	store.On("GetByIdentifier", mock.Anything, "missing").
		Return(nil, repository.NewRecordNotFound())

	provider := hivekeeper.NewUserProvider(store, hasher)

	identity, err := provider.FindIdentityByIdentifier(context.Background(), "missing")
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, hivekeeper.ErrIdentityNotFound)
}
