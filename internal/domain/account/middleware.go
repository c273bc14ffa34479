package account

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Conqueror226/danaya/internal/platform/auth"
	"github.com/Conqueror226/danaya/internal/platform/token"
)

const (
	msgExpired     = "token has expired"
	msgInvalid     = "could not validate credentials"
	msgDeactivated = "user account is deactivated"
)

// timeNow is swapped out in tests to exercise expiry handling.
var timeNow = time.Now

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// Authenticated decodes the bearer token and re-resolves its subject against
// the store, so role or status changes since issuance are seen immediately.
// The resolved account is attached to the request context as the principal;
// downstream handlers never parse the token themselves.
func Authenticated(verifier *token.Verifier, svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := auth.BearerToken(c)
			if !ok {
				return unauthorized(c, msgInvalid)
			}

			claims, err := verifier.Verify(raw, timeNow())
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					return unauthorized(c, msgExpired)
				}
				return unauthorized(c, msgInvalid)
			}

			acct, err := svc.GetByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, ErrUnknownSubject) {
					return unauthorized(c, msgInvalid)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "could not resolve user")
			}
			if !acct.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, msgDeactivated)
			}

			ctx := auth.WithPrincipal(c.Request().Context(), acct)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
