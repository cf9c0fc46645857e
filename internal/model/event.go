package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectEvent — звонок, встреча или другое событие в календаре проекта.
type ProjectEvent struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string         `gorm:"size:36;not null;index" json:"projectId"`
	Date      datatypes.Date `gorm:"not null;index" json:"date"`
	Time      *string        `gorm:"column:event_time;size:5" json:"time"` // HH:MM
	Type      EventType      `gorm:"size:16;not null" json:"type"`
	Name      string         `gorm:"size:300;not null" json:"name"`
	Notes     *string        `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (e *ProjectEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
