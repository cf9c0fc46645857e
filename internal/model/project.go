package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project — корень владения: всё остальное удаляется вместе с проектом.
type Project struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	Name      string          `gorm:"size:200;not null" json:"name"`
	T0Date    *datatypes.Date `json:"t0Date"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Columns        []BoardColumn          `gorm:"constraint:OnDelete:CASCADE" json:"columns,omitempty"`
	Tasks          []Task                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DiaryEntries   []DiaryEntry           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Events         []ProjectEvent         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ConfigSections []ProjectConfigSection `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Links          []ProjectLink          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Phases         []ProjectPhase         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	WorkPackages   []WorkPackage          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Deliverables   []ProjectDeliverable   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Count *Count `gorm:"-" json:"_count,omitempty"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
