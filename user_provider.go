package hivekeeper

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the slice of the users repository the provider needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

// UserProvider resolves identities against the user store.
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore, hasher PasswordAuthenticator) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifier and wrong password collapse into the same
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (u UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !u.hasher.VerifyPassword(ctx, password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return identityFromUser(user), nil
}

func (u UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return identityFromUser(user), nil
}

type authIdentity struct {
	id    string
	email string
	name  string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Name() string {
	return a.name
}

var _ Identity = authIdentity{}

func identityFromUser(user *User) Identity {
	return authIdentity{
		id:    user.ID.String(),
		email: user.Email,
		name:  user.FullName(),
	}
}
