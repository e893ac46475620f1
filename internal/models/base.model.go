package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel is embedded by every table. Rows are retained for history, so there is
// no soft delete column.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updatedAt"`
}

func (m BaseUUIDModel) IsPersisted() bool {
	return m.ID != uuid.Nil
}
