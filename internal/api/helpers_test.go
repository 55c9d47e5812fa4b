package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/traintrackhq/traintrack-api/internal/api"
	"github.com/traintrackhq/traintrack-api/internal/api/middleware"
	"github.com/traintrackhq/traintrack-api/internal/config"
	"github.com/traintrackhq/traintrack-api/internal/domain"
	"github.com/traintrackhq/traintrack-api/internal/mocks"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/internal/service/auth"
	"github.com/traintrackhq/traintrack-api/internal/store"
)

// passthroughTxRunner runs the transactional function directly; the mock
// stores ignore the nil transaction.
func passthroughTxRunner(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, (*sql.Tx)(nil))
}

// testEnv bundles a fully wired router with the mock stores behind it,
// so tests can both drive HTTP requests and inspect store state.
type testEnv struct {
	router       chi.Router
	users        *mocks.MockUserStore
	workouts     *mocks.MockWorkoutStore
	tokenService auth.TokenService
}

// newTestEnv wires the handlers the same way the server does, with mock
// stores and the mock hasher in place of postgres and bcrypt.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mocks.NewMockUserStore()
	workouts := mocks.NewMockWorkoutStore()
	hasher := &mocks.MockPasswordHasher{}

	tokenService, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 600,
	})
	require.NoError(t, err)

	accountService, err := service.NewAccountService(
		users, workouts, hasher, passthroughTxRunner, slog.Default())
	require.NoError(t, err)

	workoutService, err := service.NewWorkoutService(users, workouts, slog.Default())
	require.NoError(t, err)

	accountHandler := api.NewAccountHandler(accountService, tokenService)
	adminHandler := api.NewAdminHandler(accountService)
	workoutHandler := api.NewWorkoutHandler(workoutService)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	router := chi.NewRouter()
	router.Use(middleware.TraceMiddleware)

	router.Post("/api/register", accountHandler.Register)
	router.Post("/api/login", accountHandler.Login)

	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/api/account/password", accountHandler.ChangePassword)
		r.Post("/api/account/email", accountHandler.ChangeEmail)
		r.Post("/api/workouts", workoutHandler.Save)
		r.Get("/api/workouts", workoutHandler.List)
		r.Get("/api/workouts/{id}", workoutHandler.Get)
	})

	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Use(authMiddleware.RequireAdmin(accountService))
		r.Get("/api/admin/users", adminHandler.ListUsers)
		r.Get("/api/admin/users/{id}", adminHandler.GetUser)
		r.Delete("/api/admin/users/{id}", adminHandler.DeleteUser)
		r.Put("/api/admin/users/{id}/password", adminHandler.ChangePassword)
		r.Put("/api/admin/users/{id}/email", adminHandler.ChangeEmail)
		r.Put("/api/admin/users/{id}/privilege", adminHandler.ChangePrivilege)
	})

	return &testEnv{
		router:       router,
		users:        users,
		workouts:     workouts,
		tokenService: tokenService,
	}
}

// do sends a JSON request through the router. An empty token omits the
// Authorization header.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

// register creates an account through the HTTP endpoint.
func (e *testEnv) register(t *testing.T, username, password, email string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"ssn":      "19900101-1234",
		"username": username,
		"password": password,
		"email":    email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// login authenticates through the HTTP endpoint and returns the token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// promote flips a seeded user to admin directly in the mock store.
func (e *testEnv) promote(t *testing.T, username string) {
	t.Helper()

	user, err := e.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NoError(t, e.users.UpdatePrivilege(context.Background(), user.ID, domain.AdminPrivilege))
}
