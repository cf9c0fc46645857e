package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectPhase — фаза плана проекта. Даты могут быть заданы относительно T0:
// тогда рядом хранится исходное выражение (*Relative).
type ProjectPhase struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	ProjectID         string          `gorm:"size:36;not null;index" json:"projectId"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	SortOrder         int             `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	StartDate         *datatypes.Date `json:"startDate"`
	EndDate           *datatypes.Date `json:"endDate"`
	StartDateRelative *string         `gorm:"size:50" json:"startDateRelative"`
	EndDateRelative   *string         `gorm:"size:50" json:"endDateRelative"`

	WorkPackages []WorkPackage        `gorm:"foreignKey:PhaseID;constraint:OnDelete:SET NULL" json:"workPackages,omitempty"`
	Deliverables []ProjectDeliverable `gorm:"foreignKey:PhaseID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`
	Tasks        []Task               `gorm:"foreignKey:PhaseID;constraint:OnDelete:SET NULL" json:"-"`

	Count *Count `gorm:"-" json:"_count,omitempty"`
}

func (p *ProjectPhase) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// WorkPackage — пакет работ; может быть привязан к фазе.
type WorkPackage struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	ProjectID         string          `gorm:"size:36;not null;index" json:"projectId"`
	PhaseID           *string         `gorm:"size:36;index" json:"phaseId"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	SortOrder         int             `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	StartDate         *datatypes.Date `json:"startDate"`
	EndDate           *datatypes.Date `json:"endDate"`
	StartDateRelative *string         `gorm:"size:50" json:"startDateRelative"`
	EndDateRelative   *string         `gorm:"size:50" json:"endDateRelative"`

	Phase        *ProjectPhase        `json:"phase,omitempty"`
	Deliverables []ProjectDeliverable `gorm:"foreignKey:WorkPackageID;constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`
	Tasks        []Task               `gorm:"foreignKey:WorkPackageID;constraint:OnDelete:SET NULL" json:"-"`

	Count *Count `gorm:"-" json:"_count,omitempty"`
}

func (w *WorkPackage) BeforeCreate(*gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// ProjectDeliverable принадлежит ровно одному родителю: фазе или пакету работ.
// SortOrder непрерывен внутри родителя. TaskID заполняется при конвертации в задачу.
type ProjectDeliverable struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	ProjectID       string          `gorm:"size:36;not null;index" json:"projectId"`
	PhaseID         *string         `gorm:"size:36;index" json:"phaseId"`
	WorkPackageID   *string         `gorm:"size:36;index" json:"workPackageId"`
	Type            DeliverableType `gorm:"size:32;not null" json:"type"`
	Title           string          `gorm:"size:500;not null" json:"title"`
	Description     *string         `gorm:"type:text" json:"description"`
	DueDate         *datatypes.Date `json:"dueDate"`
	DueDateRelative *string         `gorm:"size:50" json:"dueDateRelative"`
	SortOrder       int             `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	TaskID          *string         `gorm:"size:36;index" json:"taskId"`
}

func (d *ProjectDeliverable) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
