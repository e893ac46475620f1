package services

import (
	"context"
	"errors"
	"time"

	"hostelhub/internal/events"
	. "hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/types"
	"hostelhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
)

// EventPublisher receives lifecycle events once a write has been committed.
type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type CreateRequestInput struct {
	ProviderID          uuid.UUID
	HostelID            uuid.UUID
	FacilityID          uuid.UUID
	RequestedDate       time.Time
	PreferredTimeSlot   TimeSlot
	Attributes          CategoryAttributes
	SpecialInstructions *string
}

// RequestLifecycleService is the only writer of request status and feedback.
type RequestLifecycleService struct {
	repo      repositories.ServiceRequestRepository
	publisher EventPublisher
	now       func() time.Time
	log       logger.Logger
}

func NewRequestLifecycleService(
	repo repositories.ServiceRequestRepository,
	publisher EventPublisher,
) *RequestLifecycleService {
	return &RequestLifecycleService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		log:       logger.New("RequestLifecycleService"),
	}
}

// WithClock replaces the clock used to decide whether a requested date is in the future.
func (s *RequestLifecycleService) WithClock(now func() time.Time) *RequestLifecycleService {
	s.now = now
	return s
}

func (s *RequestLifecycleService) Create(
	ctx context.Context,
	requesterID uuid.UUID,
	input CreateRequestInput,
) (*ServiceRequest, error) {
	log := s.log.Function("Create")

	if err := s.validateCreate(requesterID, input); err != nil {
		return nil, err
	}

	request := &ServiceRequest{
		RequesterID:         requesterID,
		ProviderID:          input.ProviderID,
		HostelID:            input.HostelID,
		FacilityID:          input.FacilityID,
		RequestedDate:       utils.DateOf(input.RequestedDate),
		PreferredTimeSlot:   input.PreferredTimeSlot,
		SpecialInstructions: utils.OptionalText(input.SpecialInstructions),
		Status:              StatusPending,
	}
	if err := request.SetAttributes(input.Attributes); err != nil {
		return nil, log.Err("failed to encode category attributes", err)
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Info(
		"service request created",
		"requestID", request.ID,
		"category", request.Category,
		"requesterID", requesterID,
		"providerID", request.ProviderID,
	)
	s.publish(events.SERVICE_REQUEST_CREATED, request, nil)

	return request, nil
}

func (s *RequestLifecycleService) validateCreate(
	requesterID uuid.UUID,
	input CreateRequestInput,
) error {
	switch {
	case requesterID == uuid.Nil:
		return types.Validation("requesterId is required")
	case input.ProviderID == uuid.Nil:
		return types.Validation("providerId is required")
	case input.HostelID == uuid.Nil:
		return types.Validation("hostelId is required")
	case input.FacilityID == uuid.Nil:
		return types.Validation("facilityId is required")
	case input.RequestedDate.IsZero():
		return types.Validation("requestedDate is required")
	case !utils.IsAfterDay(input.RequestedDate, s.now()):
		return types.Validation("requestedDate must be after today")
	case !input.PreferredTimeSlot.IsValid():
		return types.Validation("preferredTimeSlot %q is not supported", input.PreferredTimeSlot)
	case input.Attributes == nil:
		return types.Validation("category attributes are required")
	}

	return input.Attributes.Validate()
}

// TransitionStatus moves a request along one edge of the state machine on behalf of
// actorID. Edge legality is checked before the actor's rights.
func (s *RequestLifecycleService) TransitionStatus(
	ctx context.Context,
	requestID uuid.UUID,
	actorID uuid.UUID,
	actorRole ActorRole,
	next RequestStatus,
) (*ServiceRequest, error) {
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.Status.CanTransitionTo(next) {
		return nil, types.InvalidTransition(
			"cannot move request from %s to %s",
			request.Status,
			next,
		)
	}

	if !canActorMove(request, actorID, actorRole, next) {
		return nil, types.Forbidden("actor may not move this request to %s", next)
	}

	return s.applyStatus(ctx, request, actorID, next)
}

// Cancel is the requester path of TransitionStatus.
func (s *RequestLifecycleService) Cancel(
	ctx context.Context,
	requestID uuid.UUID,
	requesterID uuid.UUID,
) (*ServiceRequest, error) {
	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.RequesterID != requesterID {
		return nil, types.Forbidden("only the requester may cancel this request")
	}

	if !request.Status.CanTransitionTo(StatusCancelled) {
		return nil, types.InvalidTransition("request is already %s", request.Status)
	}

	return s.applyStatus(ctx, request, requesterID, StatusCancelled)
}

func (s *RequestLifecycleService) AttachFeedback(
	ctx context.Context,
	requestID uuid.UUID,
	requesterID uuid.UUID,
	rating int,
	comment *string,
) (*ServiceRequest, error) {
	log := s.log.Function("AttachFeedback")

	request, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.RequesterID != requesterID {
		return nil, types.Forbidden("only the requester may leave feedback")
	}
	if request.Status != StatusCompleted {
		return nil, types.InvalidState("feedback requires a completed request, status is %s", request.Status)
	}
	if request.HasFeedback() {
		return nil, types.Conflict("feedback has already been attached")
	}
	if rating < MinFeedbackRating || rating > MaxFeedbackRating {
		return nil, types.Validation(
			"rating must be between %d and %d",
			MinFeedbackRating,
			MaxFeedbackRating,
		)
	}

	feedback := Feedback{
		Rating:      rating,
		Comment:     utils.OptionalText(comment),
		SubmittedAt: s.now().UTC(),
	}

	updated, err := s.repo.AttachFeedback(ctx, requestID, feedback)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, s.conflict(ctx, requestID, "feedback was attached concurrently")
	}
	if err != nil {
		return nil, err
	}

	log.Info("feedback attached", "requestID", requestID, "rating", rating)
	s.publish(events.SERVICE_REQUEST_FEEDBACK, updated, map[string]any{"rating": rating})

	return updated, nil
}

func (s *RequestLifecycleService) GetByID(
	ctx context.Context,
	requestID uuid.UUID,
) (*ServiceRequest, error) {
	return s.load(ctx, requestID)
}

// ListForRequester returns the requester's requests, newest first.
func (s *RequestLifecycleService) ListForRequester(
	ctx context.Context,
	requesterID uuid.UUID,
	category RequestCategory,
	opts repositories.ListOptions,
) ([]*ServiceRequest, error) {
	return s.repo.ListByRequester(ctx, requesterID, category, opts)
}

// ListForProvider returns the provider's requests by requested date with actionable
// statuses first on the same day.
func (s *RequestLifecycleService) ListForProvider(
	ctx context.Context,
	providerID uuid.UUID,
	category RequestCategory,
	opts repositories.ListOptions,
) ([]*ServiceRequest, error) {
	return s.repo.ListByProvider(ctx, providerID, category, opts)
}

func (s *RequestLifecycleService) load(
	ctx context.Context,
	requestID uuid.UUID,
) (*ServiceRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, types.NotFound("service request %s not found", requestID)
	}
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (s *RequestLifecycleService) applyStatus(
	ctx context.Context,
	request *ServiceRequest,
	actorID uuid.UUID,
	next RequestStatus,
) (*ServiceRequest, error) {
	log := s.log.Function("applyStatus")
	previous := request.Status

	updated, err := s.repo.UpdateStatus(ctx, request.ID, previous, next)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, s.conflict(ctx, request.ID, "request status changed concurrently")
	}
	if err != nil {
		return nil, err
	}

	log.Info(
		"service request status changed",
		"requestID", request.ID,
		"from", previous,
		"to", next,
		"actorID", actorID,
	)
	s.publish(events.SERVICE_REQUEST_STATUS_CHANGE, updated, map[string]any{
		"previousStatus": previous,
		"actorId":        actorID,
	})

	return updated, nil
}

// conflict re-reads a request whose conditional write matched nothing so that a
// request removed in the meantime is reported as missing rather than contended.
func (s *RequestLifecycleService) conflict(
	ctx context.Context,
	requestID uuid.UUID,
	message string,
) error {
	current, err := s.load(ctx, requestID)
	if err != nil {
		return err
	}

	return types.Conflict("%s, status is now %s", message, current.Status)
}

func (s *RequestLifecycleService) publish(
	eventType events.MessageType,
	request *ServiceRequest,
	extra map[string]any,
) {
	if s.publisher == nil {
		return
	}

	data := map[string]any{
		"requestId": request.ID,
		"category":  request.Category,
		"status":    request.Status,
	}
	for key, value := range extra {
		data[key] = value
	}

	err := s.publisher.Publish(events.SERVICE_REQUEST_CHANNEL, events.Event{
		Type:    eventType,
		UserIDs: request.Recipients(),
		Data:    data,
	})
	if err != nil {
		s.log.Function("publish").
			Warn("failed to publish service request event", "requestID", request.ID, "type", eventType, "error", err)
	}
}

func canActorMove(
	request *ServiceRequest,
	actorID uuid.UUID,
	actorRole ActorRole,
	next RequestStatus,
) bool {
	switch next {
	case StatusInProgress, StatusCompleted:
		return actorRole == RoleProvider && actorID == request.ProviderID
	case StatusCancelled:
		if actorRole == RoleRequester && actorID == request.RequesterID {
			return true
		}
		return actorRole == RoleProvider && actorID == request.ProviderID
	}
	return false
}
