package repositories

import (
	"context"
	"errors"
	"time"

	contextutil "hostelhub/internal/context"
	"hostelhub/internal/database"
	. "hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound  = errors.New("service request not found")
	ErrConditionFailed = errors.New("service request changed before the update was applied")
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type RequestFilter struct {
	RequesterID  *uuid.UUID
	ProviderID   *uuid.UUID
	Category     RequestCategory
	CreatedSince *time.Time
	OrderBy      []string
	Limit        int
	Preload      bool
}

// ServiceRequestStore is the persistence leaf. It holds no business rules; the two
// conditional writes only apply when the stored row still matches the expected state
// and report ErrConditionFailed otherwise.
type ServiceRequestStore interface {
	Insert(ctx context.Context, request *ServiceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error)
	Find(ctx context.Context, filter RequestFilter) ([]*ServiceRequest, error)
	CompareAndSetStatus(
		ctx context.Context,
		id uuid.UUID,
		from RequestStatus,
		to RequestStatus,
	) (*ServiceRequest, error)
	SetFeedbackIfAbsent(ctx context.Context, id uuid.UUID, feedback Feedback) (*ServiceRequest, error)
}

type serviceRequestStore struct {
	db         database.DB
	transactor Transactor
	log        logger.Logger
}

func NewServiceRequestStore(db database.DB, transactor Transactor) ServiceRequestStore {
	return &serviceRequestStore{
		db:         db,
		transactor: transactor,
		log:        logger.New("serviceRequestStore"),
	}
}

// conn joins the caller's transaction when TransactionService opened one.
func (s *serviceRequestStore) conn(ctx context.Context) *gorm.DB {
	return contextutil.DB(ctx, s.db.SQL)
}

func (s *serviceRequestStore) Insert(ctx context.Context, request *ServiceRequest) error {
	log := s.log.Function("Insert")

	if err := s.conn(ctx).Omit(clause.Associations).Create(request).Error; err != nil {
		return log.Err(
			"failed to insert service request",
			err,
			"requesterID", request.RequesterID,
			"category", request.Category,
		)
	}

	return nil
}

func (s *serviceRequestStore) FindByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error) {
	log := s.log.Function("FindByID")

	var request ServiceRequest
	err := s.conn(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, log.Err("failed to get service request", err, "id", id)
	}

	return &request, nil
}

func (s *serviceRequestStore) Find(
	ctx context.Context,
	filter RequestFilter,
) ([]*ServiceRequest, error) {
	log := s.log.Function("Find")

	query := s.conn(ctx).Model(&ServiceRequest{})
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.ProviderID != nil {
		query = query.Where("provider_id = ?", *filter.ProviderID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CreatedSince != nil {
		query = query.Where("created_at >= ?", *filter.CreatedSince)
	}
	for _, order := range filter.OrderBy {
		query = query.Order(order)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Preload {
		query = query.
			Preload("Requester").
			Preload("Provider").
			Preload("Hostel").
			Preload("Facility")
	}

	var requests []*ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, log.Err("failed to find service requests", err, "category", filter.Category)
	}

	return requests, nil
}

func (s *serviceRequestStore) CompareAndSetStatus(
	ctx context.Context,
	id uuid.UUID,
	from RequestStatus,
	to RequestStatus,
) (*ServiceRequest, error) {
	log := s.log.Function("CompareAndSetStatus")

	var updated ServiceRequest
	err := s.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		result := tx.WithContext(ctx).
			Model(&ServiceRequest{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConditionFailed
		}

		return tx.WithContext(ctx).First(&updated, "id = ?", id).Error
	})

	if errors.Is(err, ErrConditionFailed) {
		log.Info("status no longer matched", "id", id, "from", from, "to", to)
		return nil, err
	}
	if err != nil {
		return nil, log.Err("failed to update service request status", err, "id", id, "to", to)
	}

	return &updated, nil
}

func (s *serviceRequestStore) SetFeedbackIfAbsent(
	ctx context.Context,
	id uuid.UUID,
	feedback Feedback,
) (*ServiceRequest, error) {
	log := s.log.Function("SetFeedbackIfAbsent")

	var updated ServiceRequest
	err := s.transactor.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		result := tx.WithContext(ctx).
			Model(&ServiceRequest{}).
			Where("id = ? AND status = ? AND feedback_rating IS NULL", id, StatusCompleted).
			Updates(map[string]any{
				"feedback_rating":  feedback.Rating,
				"feedback_comment": feedback.Comment,
				"feedback_at":      feedback.SubmittedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConditionFailed
		}

		return tx.WithContext(ctx).First(&updated, "id = ?", id).Error
	})

	if errors.Is(err, ErrConditionFailed) {
		log.Info("feedback precondition no longer matched", "id", id)
		return nil, err
	}
	if err != nil {
		return nil, log.Err("failed to attach feedback", err, "id", id)
	}

	return &updated, nil
}
