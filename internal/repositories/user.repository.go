package repositories

import (
	"context"
	"errors"

	"hostelhub/internal/constants"
	"hostelhub/internal/database"
	. "hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found := r.getCacheByID(ctx, id, &user); found {
		return &user, nil
	}

	err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, log.Err("failed to get user by ID", err, "userID", id)
	}

	r.addUserToCache(ctx, &user)
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if r.db.Cache.User != nil {
		if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
			WithHash(constants.UserCachePrefix).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
		}
	}

	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, id uuid.UUID, user *User) bool {
	if r.db.Cache.User == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.db.Cache.User, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Get(user)
	if err != nil {
		r.log.Function("getCacheByID").Warn("failed to get user from cache", "userID", id, "error", err)
		return false
	}

	return found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	if r.db.Cache.User == nil {
		return
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, user.ID).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addUserToCache").Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}
