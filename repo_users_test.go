package hivekeeper_test

import (
	"context"
	"database/sql"
	"testing"

	hivekeeper "github.com/apiarylab/hivekeeper"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupUsersRepo(t *testing.T) hivekeeper.Users {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return hivekeeper.NewUsersRepository(bunDB)
}

func newKeeper(email string) *hivekeeper.User {
	return &hivekeeper.User{
		FirstName:    "Jean",
		LastName:     "Dupont",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
	}
}

func TestUsersRegisterAssignsID(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	record, err := repo.Register(ctx, newKeeper("jean@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
}

func TestUsersRegisterDuplicateEmail(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	_, err := repo.Register(ctx, newKeeper("jean@example.com"))
	require.NoError(t, err)

	_, err = repo.Register(ctx, newKeeper("jean@example.com"))
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, hivekeeper.ErrDuplicateEmail))
}

func TestUsersGetByIdentifier(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	created, err := repo.Register(ctx, newKeeper("jean@example.com"))
	require.NoError(t, err)

	byEmail, err := repo.GetByIdentifier(ctx, "jean@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByIdentifier(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "jean@example.com", byID.Email)
}

func TestUsersGetByIdentifierUnknown(t *testing.T) {
	repo := setupUsersRepo(t)

	_, err := repo.GetByIdentifier(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersEmailExists(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	exists, err := repo.EmailExists(ctx, "jean@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Register(ctx, newKeeper("jean@example.com"))
	require.NoError(t, err)

	exists, err = repo.EmailExists(ctx, "jean@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUsersDeleteByID(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	created, err := repo.Register(ctx, newKeeper("jean@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, created.ID))

	_, err = repo.GetByIdentifier(ctx, created.ID.String())
	assert.Error(t, err)
}
