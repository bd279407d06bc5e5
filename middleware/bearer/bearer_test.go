package bearer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionChecker struct {
	active bool
	err    error
	tokens []string
}

func (s *stubSessionChecker) IsActive(_ context.Context, token string) (bool, error) {
	s.tokens = append(s.tokens, token)
	return s.active, s.err
}

type stubClaims struct{}

func (stubClaims) Subject() string     { return "sub" }
func (stubClaims) UserID() string      { return "uid" }
func (stubClaims) UserEmail() string   { return "keeper@example.com" }
func (stubClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (stubClaims) IssuedAt() time.Time { return time.Now() }

type stubValidator struct{}

func (stubValidator) Validate(string) (AuthClaims, error) { return stubClaims{}, nil }

func TestCheckSession(t *testing.T) {
	storeErr := errors.New("store unavailable")

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "active session passes",
			cfg:  Config{SessionChecker: &stubSessionChecker{active: true}},
		},
		{
			name:    "revoked session is rejected",
			cfg:     Config{SessionChecker: &stubSessionChecker{active: false}},
			wantErr: ErrSessionNotActive,
		},
		{
			name:    "store errors reject the request",
			cfg:     Config{SessionChecker: &stubSessionChecker{err: storeErr}},
			wantErr: storeErr,
		},
		{
			name: "skip flag bypasses the store",
			cfg:  Config{SkipSessionCheck: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSession(context.Background(), tt.cfg, "raw-token")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckSessionPassesRawToken(t *testing.T) {
	checker := &stubSessionChecker{active: true}
	cfg := Config{SessionChecker: checker}

	require.NoError(t, checkSession(context.Background(), cfg, "the-raw-jwt"))
	require.Len(t, checker.tokens, 1)
	assert.Equal(t, "the-raw-jwt", checker.tokens[0])
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig(Config{
		TokenValidator: stubValidator{},
		SessionChecker: &stubSessionChecker{active: true},
	})

	assert.Equal(t, "user", cfg.ContextKey)
	assert.Equal(t, "bearer_token", cfg.RawTokenKey)
	assert.Equal(t, defaultTokenLookup, cfg.TokenLookup)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotNil(t, cfg.SuccessHandler)
	assert.NotNil(t, cfg.ErrorHandler)
}

func TestGetDefaultConfigRequiresValidator(t *testing.T) {
	assert.Panics(t, func() {
		GetDefaultConfig(Config{SessionChecker: &stubSessionChecker{}})
	})
}

func TestGetDefaultConfigRequiresSessionChecker(t *testing.T) {
	assert.Panics(t, func() {
		GetDefaultConfig(Config{TokenValidator: stubValidator{}})
	})

	assert.NotPanics(t, func() {
		GetDefaultConfig(Config{
			TokenValidator:   stubValidator{},
			SkipSessionCheck: true,
		})
	})
}

func TestGetExtractors(t *testing.T) {
	tests := []struct {
		name   string
		lookup string
		want   int
	}{
		{"single header", "header:Authorization", 1},
		{"header and cookie", "header:Authorization,cookie:jwt", 2},
		{"full chain", "header:Authorization,cookie:jwt,query:auth_token,param:token", 4},
		{"unknown source is skipped", "body:token", 0},
		{"whitespace tolerated", " header : Authorization , query : tok ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetExtractors(tt.lookup, "Bearer")
			assert.Len(t, got, tt.want)
		})
	}
}
