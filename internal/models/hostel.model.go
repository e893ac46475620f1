package models

import "github.com/google/uuid"

type Hostel struct {
	BaseUUIDModel
	Name    string `gorm:"type:text;not null" json:"name"`
	Address string `gorm:"type:text"          json:"address"`
}

// Facility is a bookable service point of a hostel, e.g. a laundry room.
type Facility struct {
	BaseUUIDModel
	HostelID uuid.UUID       `gorm:"type:uuid;not null;index:idx_facilities_hostel" json:"hostelId"`
	Name     string          `gorm:"type:text;not null"                             json:"name"`
	Category RequestCategory `gorm:"type:text;not null"                             json:"category"`

	Hostel *Hostel `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`
}
