package repositories

import (
	"hostelhub/internal/database"
)

type Repository struct {
	User           UserRepository
	ServiceRequest ServiceRequestRepository
}

func New(db database.DB, transactor Transactor) Repository {
	return Repository{
		User: NewUserRepository(db),
		ServiceRequest: NewServiceRequestRepository(
			NewServiceRequestStore(db, transactor),
			db.Cache.Requests,
		),
	}
}
