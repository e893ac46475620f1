package facilityRequestController

import (
	"time"

	. "hostelhub/internal/models"
	"hostelhub/internal/utils"

	"github.com/google/uuid"
)

// RequestView holds the response fields shared by every category. Category
// responses embed it and add their own attributes.
type RequestView struct {
	ID                  uuid.UUID     `json:"id"`
	Status              RequestStatus `json:"status"`
	Requester           *UserSummary  `json:"requester"`
	Provider            *UserSummary  `json:"provider"`
	HostelID            uuid.UUID     `json:"hostelId"`
	HostelName          string        `json:"hostelName,omitempty"`
	FacilityID          uuid.UUID     `json:"facilityId"`
	FacilityName        string        `json:"facilityName,omitempty"`
	RequestedDate       string        `json:"requestedDate"`
	PreferredTimeSlot   TimeSlot      `json:"preferredTimeSlot"`
	SpecialInstructions *string       `json:"specialInstructions,omitempty"`
	Feedback            *Feedback     `json:"feedback,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

func NewRequestView(request *ServiceRequest) RequestView {
	view := RequestView{
		ID:                  request.ID,
		Status:              request.Status,
		Requester:           request.Requester.Summary(),
		Provider:            request.Provider.Summary(),
		HostelID:            request.HostelID,
		FacilityID:          request.FacilityID,
		RequestedDate:       utils.FormatDate(request.RequestedDate),
		PreferredTimeSlot:   request.PreferredTimeSlot,
		SpecialInstructions: request.SpecialInstructions,
		Feedback:            request.Feedback(),
		CreatedAt:           request.CreatedAt,
		UpdatedAt:           request.UpdatedAt,
	}

	if view.Requester == nil {
		view.Requester = &UserSummary{ID: request.RequesterID}
	}
	if view.Provider == nil {
		view.Provider = &UserSummary{ID: request.ProviderID}
	}
	if request.Hostel != nil {
		view.HostelName = request.Hostel.Name
	}
	if request.Facility != nil {
		view.FacilityName = request.Facility.Name
	}

	return view
}
