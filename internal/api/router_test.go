package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaadidekho/car-marketplace/internal/core/domain"
	"github.com/gaadidekho/car-marketplace/internal/core/ports"
	"github.com/gaadidekho/car-marketplace/internal/core/service"
	"github.com/gaadidekho/car-marketplace/internal/infrastructure/http/handlers"
)

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func (r *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	created := *u
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.ID] = &created
	out := created
	return &out, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsers) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, err := r.FindByID(ctx, id); err == nil {
			out[id] = u
		}
	}
	return out, nil
}

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[tokenID] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[tokenID], nil
}

type memListings struct {
	mu   sync.Mutex
	byID map[string]domain.Listing
}

func (r *memListings) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID] = *l
	return nil
}

func (r *memListings) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *memListings) Update(_ context.Context, id string, p domain.ListingPatch) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Images != nil {
		l.Images = *p.Images
	}
	l.UpdatedAt = time.Now().UTC()
	r.byID[id] = l
	return &l, nil
}

func (r *memListings) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memListings) List(_ context.Context, f ports.ListListingsFilter) ([]*domain.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Listing
	for _, l := range r.byID {
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type testServer struct {
	e        *echo.Echo
	listings *memListings
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := &memUsers{users: map[string]*domain.User{}}
	listings := &memListings{byID: map[string]domain.Listing{}}
	log := zerolog.Nop()

	authSvc := service.NewAuthService(users, &memRevoker{revoked: map[string]bool{}}, "test-secret", time.Hour, log)
	listingSvc := service.NewListingService(listings, users, nil, log)
	reg := prometheus.NewRegistry()

	e := NewRouter(Deps{
		Logger:   log,
		Auth:     authSvc,
		Listings: listingSvc,
		HealthChecks: []handlers.Check{
			{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		},
		Registerer: reg,
		Gatherer:   reg,
	})
	return &testServer{e: e, listings: listings}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func (s *testServer) signUp(t *testing.T, name string) string {
	t.Helper()
	email := strings.ToLower(name) + "@example.com"
	code, _ := s.do(t, http.MethodPost, "/auth/register", "",
		fmt.Sprintf(`{"name":%q,"email":%q,"password":"password123"}`, name, email))
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do(t, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
	require.Equal(t, http.StatusOK, code)
	return resp["token"].(string)
}

func listingJSON(images int, extra string) string {
	urls := make([]string, images)
	for i := range urls {
		urls[i] = fmt.Sprintf(`"https://img.example.com/%d.jpg"`, i)
	}
	return fmt.Sprintf(`{"title":"Honda City ZX","make":"Honda","model":"City","year":2018,"price":700000,`+
		`"mileage":42000,"location":"Mumbai","fuel_type":"Petrol","transmission":"Automatic",`+
		`"description":"Well kept","features":"Sunroof","images":[%s]%s}`, strings.Join(urls, ","), extra)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_OwnershipScenario(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.signUp(t, "Alice")
	tokenB := s.signUp(t, "Bob")

	code, created := s.do(t, http.MethodPost, "/v1/listings", tokenA, listingJSON(3, ""))
	require.Equal(t, http.StatusCreated, code)
	id := created["id"].(string)

	code, resp := s.do(t, http.MethodPut, "/v1/listings/"+id, tokenB, `{"price":1}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "you can only modify your own listings", resp["error"])

	code, resp = s.do(t, http.MethodPut, "/v1/listings/"+id, tokenA, `{"price":1}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["price"])

	code, _ = s.do(t, http.MethodDelete, "/v1/listings/"+id, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodDelete, "/v1/listings/"+id, tokenB, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, "/v1/listings/"+id, tokenA, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/v1/listings/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_MissingListingIsNotFoundForEveryone(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	for _, tok := range []string{"", token, "garbage-token"} {
		code, _ := s.do(t, http.MethodPut, "/v1/listings/does-not-exist", tok, `{"price":1}`)
		assert.Equal(t, http.StatusNotFound, code)
		code, _ = s.do(t, http.MethodDelete, "/v1/listings/does-not-exist", tok, "")
		assert.Equal(t, http.StatusNotFound, code)
		code, _ = s.do(t, http.MethodGet, "/v1/listings/does-not-exist", tok, "")
		assert.Equal(t, http.StatusNotFound, code)
	}
}

func TestRouter_CreateImageBounds(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	for _, n := range []int{0, 11} {
		code, _ := s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(n, ""))
		assert.Equal(t, http.StatusBadRequest, code, "%d images", n)
	}
	for _, n := range []int{1, 10} {
		code, resp := s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(n, ""))
		require.Equal(t, http.StatusCreated, code, "%d images", n)
		assert.Len(t, resp["images"], n)
	}
	assert.Len(t, s.listings.byID, 2)
}

func TestRouter_CreateIgnoresOwnerFields(t *testing.T) {
	s := newTestServer(t)
	tokenA := s.signUp(t, "Alice")
	tokenB := s.signUp(t, "Bob")

	code, me := s.do(t, http.MethodGet, "/auth/me", tokenB, "")
	require.Equal(t, http.StatusOK, code)
	_, alice := s.do(t, http.MethodGet, "/auth/me", tokenA, "")

	code, created := s.do(t, http.MethodPost, "/v1/listings", tokenB,
		listingJSON(1, fmt.Sprintf(`,"owner_id":%q,"userId":%q`, alice["id"], alice["id"])))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, me["id"], created["owner_id"])
	assert.Equal(t, "Bob", created["owner"].(map[string]any)["name"])
}

func TestRouter_CreateThenFetch(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	code, created := s.do(t, http.MethodPost, "/v1/listings", token,
		listingJSON(2, `,"tags":{"car_type":"Sedan","company":"Honda"}`))
	require.Equal(t, http.StatusCreated, code)

	code, fetched := s.do(t, http.MethodGet, "/v1/listings/"+created["id"].(string), "", "")
	require.Equal(t, http.StatusOK, code)

	for _, field := range []string{"id", "title", "make", "model", "year", "price", "mileage", "location",
		"fuel_type", "transmission", "description", "features", "images", "tags", "owner_id", "created_at"} {
		assert.Equal(t, created[field], fetched[field], field)
	}
	assert.NotEmpty(t, fetched["created_at"])
}

func TestRouter_CreateRequiresAuthBeforeValidation(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/v1/listings", "", `{"title":""}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "authentication required", resp["error"])
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	code, _ := s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(1, `,"is_featured":true`))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_ListNewestFirst(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	_, first := s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(1, ""))
	time.Sleep(2 * time.Millisecond)
	_, second := s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(1, ""))

	code, resp := s.do(t, http.MethodGet, "/v1/listings", "", "")
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, second["id"], data[0].(map[string]any)["id"])
	assert.Equal(t, first["id"], data[1].(map[string]any)["id"])
	assert.EqualValues(t, 2, resp["pagination"].(map[string]any)["total"])
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "Alice")

	code, _ := s.do(t, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/v1/listings", token, listingJSON(1, ""))
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_AuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "Alice")

	code, _ := s.do(t, http.MethodPost, "/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, resp := s.do(t, http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", resp["error"])

	code, _ = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, resp := s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	code, _ = s.do(t, http.MethodGet, "/v2/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}
