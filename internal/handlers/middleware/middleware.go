package middleware

import (
	"context"

	"hostelhub/config"
	"hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
)

type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Middleware struct {
	userRepo UserLookup
	tokens   TokenValidator
	Config   config.Config
	log      logger.Logger
}

func New(config config.Config, tokens TokenValidator, userRepo UserLookup) Middleware {
	return Middleware{
		userRepo: userRepo,
		tokens:   tokens,
		Config:   config,
		log:      logger.New("middleware"),
	}
}
