package models

import (
	"encoding/json"
	"fmt"
	"time"

	"hostelhub/internal/types"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinFeedbackRating = 1
	MaxFeedbackRating = 5
)

type RequestCategory string

const (
	CategoryCleaning RequestCategory = "cleaning"
	CategoryWashing  RequestCategory = "washing"
)

func (c RequestCategory) IsValid() bool {
	return c == CategoryCleaning || c == CategoryWashing
}

type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
	TimeSlotNight     TimeSlot = "night"
)

func (t TimeSlot) IsValid() bool {
	switch t {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening, TimeSlotNight:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

var AllStatuses = []RequestStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Edges of the request state machine. Completed and Cancelled have none.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func ParseRequestStatus(value string) (RequestStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

func (s RequestStatus) IsValid() bool {
	_, ok := ParseRequestStatus(string(s))
	return ok
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority orders provider work lists so actionable requests come first.
func (s RequestStatus) Priority() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	case StatusCancelled:
		return 3
	}
	return len(AllStatuses)
}

// CategoryAttributes is the category specific payload of a request.
type CategoryAttributes interface {
	Category() RequestCategory
	Validate() error
}

type CleaningAttributes struct{}

func (CleaningAttributes) Category() RequestCategory { return CategoryCleaning }

func (CleaningAttributes) Validate() error { return nil }

type WashingAttributes struct {
	ItemsCount int `json:"itemsCount"`
}

func (WashingAttributes) Category() RequestCategory { return CategoryWashing }

func (a WashingAttributes) Validate() error {
	if a.ItemsCount <= 0 {
		return types.Validation("itemsCount must be a positive integer")
	}
	return nil
}

func EncodeAttributes(attributes CategoryAttributes) (datatypes.JSON, error) {
	bytes, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal category attributes: %w", err)
	}
	return datatypes.JSON(bytes), nil
}

type Feedback struct {
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type ServiceRequest struct {
	BaseUUIDModel
	Category            RequestCategory `gorm:"type:text;not null;index:idx_service_requests_category"                 json:"category"`
	RequesterID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_service_requests_requester"                json:"requesterId"`
	ProviderID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_service_requests_provider"                 json:"providerId"`
	HostelID            uuid.UUID       `gorm:"type:uuid;not null"                                                     json:"hostelId"`
	FacilityID          uuid.UUID       `gorm:"type:uuid;not null"                                                     json:"facilityId"`
	RequestedDate       time.Time       `gorm:"type:date;not null"                                                     json:"requestedDate"`
	PreferredTimeSlot   TimeSlot        `gorm:"type:text;not null"                                                     json:"preferredTimeSlot"`
	Attributes          datatypes.JSON  `gorm:"column:category_attributes;type:jsonb"                                  json:"categoryAttributes"`
	SpecialInstructions *string         `gorm:"type:text"                                                              json:"specialInstructions,omitempty"`
	Status              RequestStatus   `gorm:"type:text;not null;default:'pending';index:idx_service_requests_status" json:"status"`
	FeedbackRating      *int            `gorm:"type:int;check:feedback_rating >= 1 AND feedback_rating <= 5"           json:"feedbackRating,omitempty"`
	FeedbackComment     *string         `gorm:"type:text"                                                              json:"feedbackComment,omitempty"`
	FeedbackAt          *time.Time      `gorm:"type:timestamp"                                                         json:"feedbackAt,omitempty"`

	Requester *User     `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Provider  *User     `gorm:"foreignKey:ProviderID"  json:"provider,omitempty"`
	Hostel    *Hostel   `gorm:"foreignKey:HostelID"    json:"hostel,omitempty"`
	Facility  *Facility `gorm:"foreignKey:FacilityID"  json:"facility,omitempty"`
}

func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequesterID == uuid.Nil || r.ProviderID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if r.HostelID == uuid.Nil || r.FacilityID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !r.Category.IsValid() {
		return gorm.ErrInvalidValue
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

func (r *ServiceRequest) HasFeedback() bool {
	return r.FeedbackRating != nil
}

func (r *ServiceRequest) Feedback() *Feedback {
	if r.FeedbackRating == nil {
		return nil
	}
	feedback := &Feedback{
		Rating:  *r.FeedbackRating,
		Comment: r.FeedbackComment,
	}
	if r.FeedbackAt != nil {
		feedback.SubmittedAt = *r.FeedbackAt
	}
	return feedback
}

func (r *ServiceRequest) SetAttributes(attributes CategoryAttributes) error {
	encoded, err := EncodeAttributes(attributes)
	if err != nil {
		return err
	}
	r.Category = attributes.Category()
	r.Attributes = encoded
	return nil
}

// DecodeAttributes returns the typed payload matching the request category.
func (r *ServiceRequest) DecodeAttributes() (CategoryAttributes, error) {
	switch r.Category {
	case CategoryCleaning:
		return CleaningAttributes{}, nil
	case CategoryWashing:
		var attributes WashingAttributes
		if len(r.Attributes) == 0 {
			return attributes, nil
		}
		if err := json.Unmarshal(r.Attributes, &attributes); err != nil {
			return nil, fmt.Errorf("failed to decode washing attributes: %w", err)
		}
		return attributes, nil
	}
	return nil, fmt.Errorf("unknown request category %q", r.Category)
}

func (r *ServiceRequest) IsParty(userID uuid.UUID) bool {
	return userID == r.RequesterID || userID == r.ProviderID
}

// Recipients are the users notified about changes to the request.
func (r *ServiceRequest) Recipients() []uuid.UUID {
	if r.RequesterID == r.ProviderID {
		return []uuid.UUID{r.RequesterID}
	}
	return []uuid.UUID{r.RequesterID, r.ProviderID}
}
