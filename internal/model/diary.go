package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiaryEntry — запись дневника проекта. На одну дату может быть несколько записей.
type DiaryEntry struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string         `gorm:"size:36;not null;index" json:"projectId"`
	Date      datatypes.Date `gorm:"not null;index" json:"date"`
	Content   *string        `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`

	Project  *Project       `json:"project,omitempty"`
	Images   []DiaryImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Comments []DiaryComment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (e *DiaryEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

type DiaryImage struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	DiaryEntryID string    `gorm:"size:36;not null;index" json:"diaryEntryId"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	Path         string    `gorm:"size:255;not null" json:"path"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (i *DiaryImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type DiaryComment struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	DiaryEntryID string    `gorm:"size:36;not null;index" json:"diaryEntryId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *DiaryComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
