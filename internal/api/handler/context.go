package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/gaadidekho/car-marketplace/internal/api/middleware"
	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

// ctxIdentity returns the caller resolved by the session middleware, or nil
// for an anonymous request.
func ctxIdentity(c echo.Context) *domain.Identity {
	return middleware.IdentityFrom(c)
}

// requireIdentity fails fast with ErrUnauthenticated before any service call.
func requireIdentity(c echo.Context) (*domain.Identity, error) {
	identity := ctxIdentity(c)
	if identity == nil || identity.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}

// bindError turns a c.Bind failure into a validation error carrying the
// decoder's message.
func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Errorf("%w: invalid payload: %v", domain.ErrValidation, he.Message)
	}
	return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
}
