package facilityRequestController

import (
	"context"

	. "hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"
	"hostelhub/internal/types"
	"hostelhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
)

// CreateFields are the create request fields every category shares. Category create
// requests embed it.
type CreateFields struct {
	ProviderID          uuid.UUID `json:"providerId"                    validate:"required"`
	HostelID            uuid.UUID `json:"hostelId"                      validate:"required"`
	FacilityID          uuid.UUID `json:"facilityId"                    validate:"required"`
	RequestedDate       string    `json:"requestedDate"                 validate:"required,datetime=2006-01-02"`
	PreferredTimeSlot   string    `json:"preferredTimeSlot"             validate:"required,oneof=morning afternoon evening night"`
	SpecialInstructions *string   `json:"specialInstructions,omitempty" validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// FeedbackRequest leaves the rating range to the lifecycle so that state errors
// take precedence over rating errors.
type FeedbackRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type ListQuery struct {
	Since string `query:"since"`
	Limit int    `query:"limit"`
}

// CategoryAdapter supplies everything category specific about a facade: the tag,
// how a create DTO maps to attributes and how a request maps to a response DTO.
type CategoryAdapter[C any, R any] interface {
	Category() RequestCategory
	Fields(request *C) CreateFields
	Attributes(request *C) CategoryAttributes
	Response(request *ServiceRequest) (R, error)
}

type Lifecycle interface {
	Create(
		ctx context.Context,
		requesterID uuid.UUID,
		input services.CreateRequestInput,
	) (*ServiceRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*ServiceRequest, error)
	TransitionStatus(
		ctx context.Context,
		requestID uuid.UUID,
		actorID uuid.UUID,
		actorRole ActorRole,
		next RequestStatus,
	) (*ServiceRequest, error)
	Cancel(ctx context.Context, requestID uuid.UUID, requesterID uuid.UUID) (*ServiceRequest, error)
	AttachFeedback(
		ctx context.Context,
		requestID uuid.UUID,
		requesterID uuid.UUID,
		rating int,
		comment *string,
	) (*ServiceRequest, error)
	ListForRequester(
		ctx context.Context,
		requesterID uuid.UUID,
		category RequestCategory,
		opts repositories.ListOptions,
	) ([]*ServiceRequest, error)
	ListForProvider(
		ctx context.Context,
		providerID uuid.UUID,
		category RequestCategory,
		opts repositories.ListOptions,
	) ([]*ServiceRequest, error)
}

// Facade exposes the request lifecycle for one category with typed DTOs.
type Facade[C any, R any] struct {
	adapter   CategoryAdapter[C, R]
	lifecycle Lifecycle
	log       logger.Logger
}

func New[C any, R any](adapter CategoryAdapter[C, R], lifecycle Lifecycle) *Facade[C, R] {
	return &Facade[C, R]{
		adapter:   adapter,
		lifecycle: lifecycle,
		log:       logger.New(string(adapter.Category()) + "RequestController"),
	}
}

func (f *Facade[C, R]) Category() RequestCategory {
	return f.adapter.Category()
}

func (f *Facade[C, R]) Create(ctx context.Context, user *User, request *C) (R, error) {
	var empty R

	if err := Validate(request); err != nil {
		return empty, err
	}

	fields := f.adapter.Fields(request)
	requestedDate, err := utils.ParseDate(fields.RequestedDate)
	if err != nil {
		return empty, types.Validation("requestedDate must be a date in YYYY-MM-DD format")
	}

	created, err := f.lifecycle.Create(ctx, user.ID, services.CreateRequestInput{
		ProviderID:          fields.ProviderID,
		HostelID:            fields.HostelID,
		FacilityID:          fields.FacilityID,
		RequestedDate:       requestedDate,
		PreferredTimeSlot:   TimeSlot(fields.PreferredTimeSlot),
		Attributes:          f.adapter.Attributes(request),
		SpecialInstructions: fields.SpecialInstructions,
	})
	if err != nil {
		return empty, err
	}

	return f.respond(created)
}

// Get returns a request of this category to its requester or provider.
func (f *Facade[C, R]) Get(ctx context.Context, user *User, requestID uuid.UUID) (R, error) {
	var empty R

	request, err := f.load(ctx, requestID)
	if err != nil {
		return empty, err
	}
	if !request.IsParty(user.ID) {
		return empty, types.Forbidden("request belongs to another user")
	}

	return f.respond(request)
}

func (f *Facade[C, R]) ListMine(ctx context.Context, user *User, query ListQuery) ([]R, error) {
	opts, err := listOptions(query)
	if err != nil {
		return nil, err
	}

	requests, err := f.lifecycle.ListForRequester(ctx, user.ID, f.adapter.Category(), opts)
	if err != nil {
		return nil, err
	}

	return f.respondAll(requests)
}

func (f *Facade[C, R]) ListAssigned(ctx context.Context, user *User, query ListQuery) ([]R, error) {
	if !user.IsProvider() {
		return nil, types.Forbidden("only providers have assigned requests")
	}

	opts, err := listOptions(query)
	if err != nil {
		return nil, err
	}

	requests, err := f.lifecycle.ListForProvider(ctx, user.ID, f.adapter.Category(), opts)
	if err != nil {
		return nil, err
	}

	return f.respondAll(requests)
}

func (f *Facade[C, R]) UpdateStatus(
	ctx context.Context,
	user *User,
	requestID uuid.UUID,
	request *UpdateStatusRequest,
) (R, error) {
	var empty R

	if err := Validate(request); err != nil {
		return empty, err
	}
	if _, err := f.load(ctx, requestID); err != nil {
		return empty, err
	}

	updated, err := f.lifecycle.TransitionStatus(
		ctx,
		requestID,
		user.ID,
		user.Role,
		RequestStatus(request.Status),
	)
	if err != nil {
		return empty, err
	}

	return f.respond(updated)
}

func (f *Facade[C, R]) Cancel(ctx context.Context, user *User, requestID uuid.UUID) (R, error) {
	var empty R

	if _, err := f.load(ctx, requestID); err != nil {
		return empty, err
	}

	updated, err := f.lifecycle.Cancel(ctx, requestID, user.ID)
	if err != nil {
		return empty, err
	}

	return f.respond(updated)
}

func (f *Facade[C, R]) AttachFeedback(
	ctx context.Context,
	user *User,
	requestID uuid.UUID,
	request *FeedbackRequest,
) (R, error) {
	var empty R

	if err := Validate(request); err != nil {
		return empty, err
	}
	if _, err := f.load(ctx, requestID); err != nil {
		return empty, err
	}

	updated, err := f.lifecycle.AttachFeedback(
		ctx,
		requestID,
		user.ID,
		request.Rating,
		request.Comment,
	)
	if err != nil {
		return empty, err
	}

	return f.respond(updated)
}

// load hides requests of other categories behind a not found error.
func (f *Facade[C, R]) load(ctx context.Context, requestID uuid.UUID) (*ServiceRequest, error) {
	request, err := f.lifecycle.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Category != f.adapter.Category() {
		return nil, types.NotFound("%s request %s not found", f.adapter.Category(), requestID)
	}
	return request, nil
}

func (f *Facade[C, R]) respond(request *ServiceRequest) (R, error) {
	response, err := f.adapter.Response(request)
	if err != nil {
		var empty R
		return empty, f.log.Function("respond").
			Err("failed to build response", err, "requestID", request.ID)
	}
	return response, nil
}

func (f *Facade[C, R]) respondAll(requests []*ServiceRequest) ([]R, error) {
	responses := make([]R, 0, len(requests))
	for _, request := range requests {
		response, err := f.respond(request)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func listOptions(query ListQuery) (repositories.ListOptions, error) {
	since, err := parseSince(query.Since)
	if err != nil {
		return repositories.ListOptions{}, err
	}
	if query.Limit < 0 {
		return repositories.ListOptions{}, types.Validation("limit must not be negative")
	}

	return repositories.ListOptions{Since: since, Limit: query.Limit}, nil
}
