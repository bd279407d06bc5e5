package hivekeeper

import (
	"context"
	"reflect"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LoginResult is what a successful login returns: the signed token plus the
// session record that tracks it.
type LoginResult struct {
	Token     string
	Identity  Identity
	SessionID uuid.UUID
	ExpiresAt time.Time
}

type Auther struct {
	provider        IdentityProvider
	sessions        Sessions
	tokenService    TokenService
	tokenExpiration int
	logger          Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, sessions Sessions, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	tokenExpiration := opts.GetTokenExpiration()
	if tokenExpiration <= 0 {
		tokenExpiration = DefaultTokenExpiration
	}

	return &Auther{
		provider:        provider,
		sessions:        sessions,
		tokenService:    tokenService,
		tokenExpiration: tokenExpiration,
		logger:          defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService replaces the default token service, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials, mints a token, and records the session.
// The session expiry mirrors the token's own so both die together unless the
// session is revoked first.
func (s *Auther) Login(ctx context.Context, identifier, password string, meta SessionMetadata) (*LoginResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate token")
	}

	expiresAt := time.Now().Add(time.Duration(s.tokenExpiration) * time.Hour)

	userID, err := uuid.Parse(identity.ID())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "identity has a malformed id")
	}

	session, err := s.sessions.Create(ctx, userID, token, expiresAt, meta)
	if err != nil {
		s.logger.Error("Login session create error", "error", err)
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		Identity:  identity,
		SessionID: session.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session behind the token. The JWT itself stays
// cryptographically valid until its expiry; the gate's session check is what
// makes revocation effective immediately.
func (s *Auther) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenMalformed
	}
	return s.sessions.InvalidateByToken(ctx, token)
}

var _ Authenticator = (*Auther)(nil)
