package cleaningController

import (
	facilityRequestController "hostelhub/internal/controllers/facilityRequest"
	. "hostelhub/internal/models"
)

// CreateCleaningRequest carries no category attributes. ItemsCount only exists so
// that a client sending one is rejected.
type CreateCleaningRequest struct {
	facilityRequestController.CreateFields
	ItemsCount *int `json:"itemsCount,omitempty" validate:"isdefault"`
}

type CleaningRequestResponse struct {
	facilityRequestController.RequestView
	Category RequestCategory `json:"category"`
}

type Controller = *facilityRequestController.Facade[CreateCleaningRequest, CleaningRequestResponse]

type adapter struct{}

func (adapter) Category() RequestCategory {
	return CategoryCleaning
}

func (adapter) Fields(request *CreateCleaningRequest) facilityRequestController.CreateFields {
	return request.CreateFields
}

func (adapter) Attributes(*CreateCleaningRequest) CategoryAttributes {
	return CleaningAttributes{}
}

func (adapter) Response(request *ServiceRequest) (CleaningRequestResponse, error) {
	return CleaningRequestResponse{
		RequestView: facilityRequestController.NewRequestView(request),
		Category:    CategoryCleaning,
	}, nil
}

func New(lifecycle facilityRequestController.Lifecycle) Controller {
	return facilityRequestController.New[CreateCleaningRequest, CleaningRequestResponse](
		adapter{},
		lifecycle,
	)
}
