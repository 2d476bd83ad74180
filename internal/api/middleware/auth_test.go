package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
)

type stubResolver struct {
	tokens map[string]*domain.Identity
}

func (r *stubResolver) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if id, ok := r.tokens[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

func newResolver() *stubResolver {
	return &stubResolver{tokens: map[string]*domain.Identity{
		"good": {UserID: "user-1", Name: "Alice"},
	}}
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called := false
	rec := serve(t, Auth(newResolver()), "Bearer good", func(c echo.Context) error {
		called = true
		identity := IdentityFrom(c)
		if identity == nil || identity.UserID != "user-1" {
			t.Fatalf("identity not set: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	headers := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"empty token":    "Bearer ",
		"unknown token":  "Bearer not-a-token",
	}

	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, Auth(newResolver()), header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestIdentifyMiddleware_ResolvesToken(t *testing.T) {
	rec := serve(t, Identify(newResolver()), "Bearer good", func(c echo.Context) error {
		if IdentityFrom(c) == nil {
			t.Fatalf("identity not set")
		}
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdentifyMiddleware_AnonymousOnMissingOrBadToken(t *testing.T) {
	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		rec := serve(t, Identify(newResolver()), header, func(c echo.Context) error {
			if IdentityFrom(c) != nil {
				t.Fatalf("expected anonymous request for header %q", header)
			}
			return c.NoContent(http.StatusOK)
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}
