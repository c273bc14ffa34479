// Package auth carries the authenticated principal through the request
// context and provides role-based route guards. The bearer token is decoded
// exactly once per request (by the account middleware); handlers downstream
// receive the resolved principal instead of re-parsing headers.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller as resolved against the credential
// store at request time. The token proves who the caller is; the store
// defines what they currently are.
type Principal interface {
	Subject() string
	RoleName() string
}

// WithPrincipal returns a context carrying the resolved principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the resolved principal, or nil when the
// request was not authenticated.
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey).(Principal)
	return p
}

// RequireRole returns middleware that rejects requests whose principal holds
// none of the given roles. Administrators pass every role check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFromContext(c.Request().Context())
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			have := p.RoleName()
			for _, required := range roles {
				if have == required || have == "admin" {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// BearerToken extracts the token from an Authorization header of the form
// "Bearer <token>". The second return value reports whether a well-formed
// header was present.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
