package bearer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
	ErrSessionNotActive      = errors.New("session is no longer active")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the root package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
type AuthClaims interface {
	Subject() string
	UserID() string
	UserEmail() string
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionChecker answers whether the server side session behind a raw token
// is still live. The gate consults it on every request unless the check is
// explicitly skipped, so revocation takes effect before the JWT expires.
type SessionChecker interface {
	IsActive(ctx context.Context, token string) (bool, error)
}

// ValidationListener is invoked after a token has been validated but before
// the request proceeds.
type ValidationListener func(ctx router.Context, claims AuthClaims) error

type Config struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	ContextKey     string
	// RawTokenKey is the locals key under which the raw bearer token is
	// stored for downstream handlers, e.g. logout.
	RawTokenKey string
	TokenLookup string
	AuthScheme  string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator
	// SessionChecker is required unless SkipSessionCheck is set. A token
	// whose session fails the check is rejected even if its signature and
	// expiry are fine.
	SessionChecker SessionChecker
	// SkipSessionCheck disables the per request session lookup. Only set
	// this on routes that tolerate stale revocation, and say so loudly.
	SkipSessionCheck bool

	// ContextEnricher is an optional function to propagate claims to the
	// standard Go context after successful validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context

	// ValidationListeners are invoked after token validation succeeds.
	ValidationListeners []ValidationListener
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := checkSession(ctx.Context(), cfg, raw); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.runValidationListeners(ctx, claims); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)
			ctx.Locals(cfg.RawTokenKey, raw)

			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				stdCtxWithClaims := cfg.ContextEnricher(stdCtx, claims)
				ctx.SetContext(stdCtxWithClaims)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// checkSession consults the session store for the raw token. Errors from the
// store reject the request; a gate that cannot see session state must not
// wave traffic through.
func checkSession(ctx context.Context, cfg Config, raw string) error {
	if cfg.SkipSessionCheck {
		return nil
	}

	active, err := cfg.SessionChecker.IsActive(ctx, raw)
	if err != nil {
		return err
	}
	if !active {
		return ErrSessionNotActive
	}
	return nil
}

func ExtractRawTokenFromContext(ctx router.Context, extractors []Extractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if err.Error() == ErrJWTMissingOrMalformed.Error() {
				return c.Status(router.StatusBadRequest).SendString(ErrJWTMissingOrMalformed.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: bearer middleware configuration: TokenValidator is required.")
	}

	if cfg.SessionChecker == nil && !cfg.SkipSessionCheck {
		panic("AUTH: bearer middleware configuration: SessionChecker is required unless SkipSessionCheck is set.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.RawTokenKey == "" {
		cfg.RawTokenKey = "bearer_token"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []Extractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(ctx router.Context, claims AuthClaims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(ctx, claims); err != nil {
			return err
		}
	}
	return nil
}

func GetExtractors(tokenLookup string, authSchemes ...string) []Extractor {
	extractors := make([]Extractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		//header:Authorization
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

type Extractor func(c router.Context) (string, error)

// tokenFromHeader returns a function that extracts token from the request header.
func tokenFromHeader(header string, authScheme string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// tokenFromQuery returns a function that extracts token from the query string.
func tokenFromQuery(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromParam returns a function that extracts token from the url param string.
func tokenFromParam(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts token from the named cookie.
func tokenFromCookie(name string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
