package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
)

// IdentityKey is the echo context key holding the caller's *domain.Identity.
const IdentityKey = "identity"

// Identify resolves the bearer token, when one is sent, and stores the
// identity in the context. A missing or unusable token leaves the request
// anonymous; the handlers and services decide whether that is acceptable.
func Identify(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				return next(c)
			}

			identity, err := resolver.Authenticate(c.Request().Context(), token)
			if err == nil {
				c.Set(IdentityKey, identity)
			}
			return next(c)
		}
	}
}

// Auth requires a valid bearer token and rejects the request with 401 otherwise.
func Auth(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token, ok := bearerToken(c.Request())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := resolver.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(IdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Identify or Auth, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(IdentityKey).(*domain.Identity)
	return identity
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
