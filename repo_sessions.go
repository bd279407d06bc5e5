package hivekeeper

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionMetadata carries the request attributes recorded alongside a
// session at login time.
type SessionMetadata struct {
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

type Sessions interface {
	SessionChecker

	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time, meta SessionMetadata) (*Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	GetByToken(ctx context.Context, token string) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	Update(ctx context.Context, record *Session) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Invalidate(ctx context.Context, id uuid.UUID) error
	InvalidateByToken(ctx context.Context, token string) error
	InvalidateAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Cleanup(ctx context.Context) (int64, error)
}

type sessions struct {
	db  *bun.DB
	now func() time.Time
}

var _ Sessions = (*sessions)(nil)

func NewSessionsRepository(db *bun.DB) Sessions {
	return &sessions{
		db:  db,
		now: time.Now,
	}
}

func (r *sessions) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time, meta SessionMetadata) (*Session, error) {
	record := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: expiresAt,
		Valid:     true,
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create session")
	}

	return record, nil
}

func (r *sessions) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	record := &Session{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapSessionLookup(err)
	}
	return record, nil
}

func (r *sessions) GetByToken(ctx context.Context, token string) (*Session, error) {
	record := &Session{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapSessionLookup(err)
	}
	return record, nil
}

func (r *sessions) List(ctx context.Context) ([]*Session, error) {
	var records []*Session
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sessions) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	var records []*Session
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sessions) Update(ctx context.Context, record *Session) (*Session, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *sessions) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Session)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *sessions) Invalidate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*Session)(nil)).
		Set("valid = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *sessions) InvalidateByToken(ctx context.Context, token string) error {
	_, err := r.db.NewUpdate().
		Model((*Session)(nil)).
		Set("valid = ?", false).
		Where("token = ?", token).
		Exec(ctx)
	return err
}

// InvalidateAll revokes every live session for the user in one statement.
// Sessions created after the call are untouched.
func (r *sessions) InvalidateAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*Session)(nil)).
		Set("valid = ?", false).
		Where("user_id = ?", userID).
		Where("valid = ?", true).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Cleanup deletes sessions whose expiry has passed, regardless of the
// validity flag. Returns the number of rows removed.
func (r *sessions) Cleanup(ctx context.Context) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*Session)(nil)).
		Where("expires_at < ?", r.now()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsActive reports whether the token maps to a stored session that is both
// unrevoked and unexpired. An unknown token is inactive, not an error.
func (r *sessions) IsActive(ctx context.Context, token string) (bool, error) {
	record, err := r.GetByToken(ctx, token)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return record.ActiveAt(r.now()), nil
}

func wrapSessionLookup(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goerrors.New("session not found", goerrors.CategoryNotFound).
			WithTextCode("SESSION_NOT_FOUND")
	}
	return err
}
