package middleware

import (
	"context"
	"errors"
	"strings"

	"hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// Authenticate resolves a bearer token to an active user. The websocket
// handshake uses it as well as RequireAuth.
func (m Middleware) Authenticate(ctx context.Context, token string) (*models.User, error) {
	log := m.log.TraceFromContext(ctx).Function("Authenticate")

	userID, err := m.tokens.Validate(token)
	if err != nil {
		log.Debug("token validation failed", "error", err.Error())
		return nil, ErrInvalidCredentials
	}

	user, err := m.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Info("user for token not found", "userID", userID, "error", err.Error())
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Info("inactive user rejected", "userID", user.ID)
		return nil, ErrInactiveUser
	}

	return user, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the user
// on both the fiber locals and the user context.
func (m Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
				"code":  "unauthorized",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" || tokenParts[1] == "" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
				"code":  "unauthorized",
			})
		}

		user, err := m.Authenticate(c.UserContext(), tokenParts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
				"code":  "unauthorized",
			})
		}

		c.Locals(UserKeyFiber, user)
		c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))

		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// UserFromContext returns the user RequireAuth stored on ctx.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}
