package facilityRequestController

import (
	"context"
	"testing"
	"time"

	. "hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"
	"hostelhub/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCreate struct {
	CreateFields
	Count int `json:"count" validate:"required,gt=0"`
}

type testResponse struct {
	RequestView
	Count int
}

type testAdapter struct{}

func (testAdapter) Category() RequestCategory { return CategoryWashing }

func (testAdapter) Fields(request *testCreate) CreateFields { return request.CreateFields }

func (testAdapter) Attributes(request *testCreate) CategoryAttributes {
	return WashingAttributes{ItemsCount: request.Count}
}

func (testAdapter) Response(request *ServiceRequest) (testResponse, error) {
	attributes, err := request.DecodeAttributes()
	if err != nil {
		return testResponse{}, err
	}
	return testResponse{
		RequestView: NewRequestView(request),
		Count:       attributes.(WashingAttributes).ItemsCount,
	}, nil
}

type fakeLifecycle struct {
	requests    map[uuid.UUID]*ServiceRequest
	created     *services.CreateRequestInput
	transitions []RequestStatus
	listOpts    repositories.ListOptions
	listedFor   uuid.UUID
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{requests: make(map[uuid.UUID]*ServiceRequest)}
}

func (l *fakeLifecycle) add(request *ServiceRequest) *ServiceRequest {
	request.ID = uuid.New()
	l.requests[request.ID] = request
	return request
}

func (l *fakeLifecycle) Create(
	_ context.Context,
	requesterID uuid.UUID,
	input services.CreateRequestInput,
) (*ServiceRequest, error) {
	l.created = &input
	request := &ServiceRequest{
		RequesterID:       requesterID,
		ProviderID:        input.ProviderID,
		HostelID:          input.HostelID,
		FacilityID:        input.FacilityID,
		RequestedDate:     input.RequestedDate,
		PreferredTimeSlot: input.PreferredTimeSlot,
		Status:            StatusPending,
	}
	if err := request.SetAttributes(input.Attributes); err != nil {
		return nil, err
	}
	return l.add(request), nil
}

func (l *fakeLifecycle) GetByID(_ context.Context, requestID uuid.UUID) (*ServiceRequest, error) {
	request, ok := l.requests[requestID]
	if !ok {
		return nil, types.NotFound("missing")
	}
	return request, nil
}

func (l *fakeLifecycle) TransitionStatus(
	_ context.Context,
	requestID uuid.UUID,
	_ uuid.UUID,
	_ ActorRole,
	next RequestStatus,
) (*ServiceRequest, error) {
	l.transitions = append(l.transitions, next)
	request := l.requests[requestID]
	request.Status = next
	return request, nil
}

func (l *fakeLifecycle) Cancel(
	ctx context.Context,
	requestID uuid.UUID,
	requesterID uuid.UUID,
) (*ServiceRequest, error) {
	return l.TransitionStatus(ctx, requestID, requesterID, RoleRequester, StatusCancelled)
}

func (l *fakeLifecycle) AttachFeedback(
	_ context.Context,
	requestID uuid.UUID,
	_ uuid.UUID,
	rating int,
	comment *string,
) (*ServiceRequest, error) {
	request := l.requests[requestID]
	request.FeedbackRating = &rating
	request.FeedbackComment = comment
	return request, nil
}

func (l *fakeLifecycle) ListForRequester(
	_ context.Context,
	requesterID uuid.UUID,
	_ RequestCategory,
	opts repositories.ListOptions,
) ([]*ServiceRequest, error) {
	l.listedFor = requesterID
	l.listOpts = opts
	return nil, nil
}

func (l *fakeLifecycle) ListForProvider(
	_ context.Context,
	providerID uuid.UUID,
	_ RequestCategory,
	opts repositories.ListOptions,
) ([]*ServiceRequest, error) {
	l.listedFor = providerID
	l.listOpts = opts
	return nil, nil
}

func validCreate() *testCreate {
	return &testCreate{
		CreateFields: CreateFields{
			ProviderID:        uuid.New(),
			HostelID:          uuid.New(),
			FacilityID:        uuid.New(),
			RequestedDate:     "2030-01-02",
			PreferredTimeSlot: "evening",
		},
		Count: 4,
	}
}

func requester() *User {
	user := &User{Role: RoleRequester}
	user.ID = uuid.New()
	return user
}

func provider() *User {
	user := &User{Role: RoleProvider}
	user.ID = uuid.New()
	return user
}

func TestFacade_Create(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	user := requester()

	response, err := facade.Create(context.Background(), user, validCreate())

	require.NoError(t, err)
	assert.Equal(t, 4, response.Count)
	assert.Equal(t, "2030-01-02", response.RequestedDate)
	assert.Equal(t, StatusPending, response.Status)
	assert.Equal(t, user.ID, response.Requester.ID)
	require.NotNil(t, lifecycle.created)
	assert.Equal(t, TimeSlotEvening, lifecycle.created.PreferredTimeSlot)
	assert.Equal(t, time.Date(2030, time.January, 2, 0, 0, 0, 0, time.UTC), lifecycle.created.RequestedDate)
}

func TestFacade_CreateValidation(t *testing.T) {
	long := string(make([]byte, 1001))
	tests := []struct {
		name    string
		mutate  func(request *testCreate)
		message string
	}{
		{"missing provider", func(r *testCreate) { r.ProviderID = uuid.Nil }, "providerId is required"},
		{"missing hostel", func(r *testCreate) { r.HostelID = uuid.Nil }, "hostelId is required"},
		{"missing facility", func(r *testCreate) { r.FacilityID = uuid.Nil }, "facilityId is required"},
		{"bad date", func(r *testCreate) { r.RequestedDate = "02/01/2030" }, "requestedDate must be a date in YYYY-MM-DD format"},
		{
			"bad slot",
			func(r *testCreate) { r.PreferredTimeSlot = "noon" },
			"preferredTimeSlot must be one of [morning, afternoon, evening, night]",
		},
		{
			"long instructions",
			func(r *testCreate) { r.SpecialInstructions = &long },
			"specialInstructions must be at most 1000 characters",
		},
		{"missing count", func(r *testCreate) { r.Count = 0 }, "count is required"},
		{"negative count", func(r *testCreate) { r.Count = -2 }, "count must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifecycle := newFakeLifecycle()
			facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
			request := validCreate()
			tt.mutate(request)

			_, err := facade.Create(context.Background(), requester(), request)

			assert.ErrorIs(t, err, types.ErrValidation)
			requestErr, ok := types.AsRequestError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, requestErr.Message)
			assert.Nil(t, lifecycle.created)
		})
	}

	t.Run("nil body", func(t *testing.T) {
		facade := New[testCreate, testResponse](testAdapter{}, newFakeLifecycle())
		_, err := facade.Create(context.Background(), requester(), nil)
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}

func TestFacade_Get(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	owner := requester()
	assignee := provider()

	washing := &ServiceRequest{
		Category:    CategoryWashing,
		RequesterID: owner.ID,
		ProviderID:  assignee.ID,
		Status:      StatusPending,
	}
	washing.Attributes = []byte(`{"itemsCount":2}`)
	lifecycle.add(washing)
	cleaning := lifecycle.add(&ServiceRequest{
		Category:    CategoryCleaning,
		RequesterID: owner.ID,
		ProviderID:  assignee.ID,
	})

	for _, user := range []*User{owner, assignee} {
		response, err := facade.Get(context.Background(), user, washing.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, response.Count)
	}

	_, err := facade.Get(context.Background(), requester(), washing.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = facade.Get(context.Background(), owner, cleaning.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = facade.Get(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFacade_OtherCategoryIsNotMutated(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	owner := requester()
	cleaning := lifecycle.add(&ServiceRequest{Category: CategoryCleaning, RequesterID: owner.ID})

	_, err := facade.Cancel(context.Background(), owner, cleaning.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = facade.UpdateStatus(context.Background(), owner, cleaning.ID, &UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = facade.AttachFeedback(context.Background(), owner, cleaning.ID, &FeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.Empty(t, lifecycle.transitions)
}

func TestFacade_UpdateStatus(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	assignee := provider()
	request := lifecycle.add(&ServiceRequest{Category: CategoryWashing, ProviderID: assignee.ID})

	_, err := facade.UpdateStatus(context.Background(), assignee, request.ID, &UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, types.ErrValidation)

	response, err := facade.UpdateStatus(
		context.Background(),
		assignee,
		request.ID,
		&UpdateStatusRequest{Status: "in_progress"},
	)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, response.Status)
	assert.Equal(t, []RequestStatus{StatusInProgress}, lifecycle.transitions)
}

func TestFacade_AttachFeedback(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	owner := requester()
	request := lifecycle.add(&ServiceRequest{
		Category:    CategoryWashing,
		RequesterID: owner.ID,
		Status:      StatusCompleted,
	})
	comment := "fresh"

	response, err := facade.AttachFeedback(
		context.Background(),
		owner,
		request.ID,
		&FeedbackRequest{Rating: 3, Comment: &comment},
	)

	require.NoError(t, err)
	require.NotNil(t, response.Feedback)
	assert.Equal(t, 3, response.Feedback.Rating)
	assert.Equal(t, "fresh", *response.Feedback.Comment)
}

func TestFacade_Lists(t *testing.T) {
	lifecycle := newFakeLifecycle()
	facade := New[testCreate, testResponse](testAdapter{}, lifecycle)
	user := requester()

	responses, err := facade.ListMine(context.Background(), user, ListQuery{
		Since: "2026-03-01T00:00:00Z",
		Limit: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, responses)
	assert.NotNil(t, responses)
	assert.Equal(t, user.ID, lifecycle.listedFor)
	assert.Equal(t, 20, lifecycle.listOpts.Limit)
	require.NotNil(t, lifecycle.listOpts.Since)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), lifecycle.listOpts.Since.UTC())

	_, err = facade.ListMine(context.Background(), user, ListQuery{Since: "yesterday"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = facade.ListMine(context.Background(), user, ListQuery{Limit: -1})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = facade.ListAssigned(context.Background(), user, ListQuery{})
	assert.ErrorIs(t, err, types.ErrForbidden)

	assignee := provider()
	_, err = facade.ListAssigned(context.Background(), assignee, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, assignee.ID, lifecycle.listedFor)
}
