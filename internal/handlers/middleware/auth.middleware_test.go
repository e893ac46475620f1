package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"hostelhub/config"
	"hostelhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]uuid.UUID

func (s stubTokens) Validate(token string) (uuid.UUID, error) {
	id, ok := s[token]
	if !ok {
		return uuid.Nil, errors.New("invalid token")
	}
	return id, nil
}

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func newTestMiddleware() (Middleware, *models.User) {
	active := &models.User{DisplayName: "Asha", Role: models.RoleRequester, IsActive: true}
	active.ID = uuid.New()
	inactive := &models.User{DisplayName: "Ben", Role: models.RoleProvider}
	inactive.ID = uuid.New()
	orphan := uuid.New()

	return New(
		config.Config{},
		stubTokens{"active": active.ID, "inactive": inactive.ID, "orphan": orphan},
		stubUsers{active.ID: active, inactive.ID: inactive},
	), active
}

func TestMiddleware_Authenticate(t *testing.T) {
	m, active := newTestMiddleware()
	ctx := context.Background()

	user, err := m.Authenticate(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, active.ID, user.ID)

	_, err = m.Authenticate(ctx, "inactive")
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = m.Authenticate(ctx, "orphan")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMiddleware_RequireAuth(t *testing.T) {
	m, active := newTestMiddleware()

	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/me", m.RequireAuth(), func(c *fiber.Ctx) error {
		user := GetUser(c)
		fromContext := UserFromContext(c.UserContext())
		if user == nil || fromContext == nil || user.ID != fromContext.ID {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(user.ID.String())
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid bearer token", header: "Bearer active", status: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer active", status: fiber.StatusOK},
		{name: "missing header", header: "", status: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic active", status: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: fiber.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", status: fiber.StatusUnauthorized},
		{name: "inactive user", header: "Bearer inactive", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(TraceIDHeader))
		})
	}

	t.Run("user id reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer active")

		resp, err := app.Test(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, active.ID.String(), string(body))
	})
}

func TestMiddleware_TraceIDIsEchoed(t *testing.T) {
	m, _ := newTestMiddleware()

	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(TraceIDHeader, "trace-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))
}
