package hivekeeper

import (
	"context"

	"github.com/apiarylab/hivekeeper/middleware/bearer"
)

// ValidationListener aliases the bearer listener so consumers can use root
// package helpers directly.
type ValidationListener = bearer.ValidationListener

// ContextEnricherAdapter adapts bearer.AuthClaims to the root AuthClaims and
// stores claims in the standard context for downstream usage.
func ContextEnricherAdapter(c context.Context, claims bearer.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}

// RegisterValidationListeners appends listeners to a bearer.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *bearer.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}

// ProtectedRoute builds the auth gate for API routes. Every request pays a
// token validation plus one session lookup; a revoked session turns away a
// still valid JWT.
func ProtectedRoute(cfg Config, validator TokenValidator, sessions SessionChecker) bearer.Config {
	return bearer.Config{
		TokenValidator:  tokenValidatorAdapter{validator},
		SessionChecker:  sessions,
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		ContextEnricher: ContextEnricherAdapter,
	}
}

type tokenValidatorAdapter struct {
	inner TokenValidator
}

func (a tokenValidatorAdapter) Validate(tokenString string) (bearer.AuthClaims, error) {
	claims, err := a.inner.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
