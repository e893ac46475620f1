package washingController

import (
	facilityRequestController "hostelhub/internal/controllers/facilityRequest"
	. "hostelhub/internal/models"
)

type CreateWashingRequest struct {
	facilityRequestController.CreateFields
	ItemsCount int `json:"itemsCount" validate:"required,gt=0"`
}

type WashingRequestResponse struct {
	facilityRequestController.RequestView
	Category   RequestCategory `json:"category"`
	ItemsCount int             `json:"itemsCount"`
}

type Controller = *facilityRequestController.Facade[CreateWashingRequest, WashingRequestResponse]

type adapter struct{}

func (adapter) Category() RequestCategory {
	return CategoryWashing
}

func (adapter) Fields(request *CreateWashingRequest) facilityRequestController.CreateFields {
	return request.CreateFields
}

func (adapter) Attributes(request *CreateWashingRequest) CategoryAttributes {
	return WashingAttributes{ItemsCount: request.ItemsCount}
}

func (adapter) Response(request *ServiceRequest) (WashingRequestResponse, error) {
	attributes, err := request.DecodeAttributes()
	if err != nil {
		return WashingRequestResponse{}, err
	}

	washing, _ := attributes.(WashingAttributes)
	return WashingRequestResponse{
		RequestView: facilityRequestController.NewRequestView(request),
		Category:    CategoryWashing,
		ItemsCount:  washing.ItemsCount,
	}, nil
}

func New(lifecycle facilityRequestController.Lifecycle) Controller {
	return facilityRequestController.New[CreateWashingRequest, WashingRequestResponse](
		adapter{},
		lifecycle,
	)
}
