package services

import (
	"hostelhub/config"
	"hostelhub/internal/events"
	"hostelhub/internal/repositories"
)

type Service struct {
	Transaction      *TransactionService
	Token            *TokenService
	RequestLifecycle *RequestLifecycleService
}

func New(
	config config.Config,
	eventBus *events.EventBus,
	transaction *TransactionService,
	repos repositories.Repository,
) Service {
	return Service{
		Transaction:      transaction,
		Token:            NewTokenService(config),
		RequestLifecycle: NewRequestLifecycleService(repos.ServiceRequest, eventBus),
	}
}
