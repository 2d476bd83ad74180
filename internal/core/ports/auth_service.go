package ports

import (
	"context"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// SessionResolver turns a bearer token into the caller's identity.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

type AuthService interface {
	SessionResolver
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, identity *domain.Identity) error
	Me(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}
