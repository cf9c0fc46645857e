package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BoardColumn — колонка канбан-доски. Order непрерывен внутри проекта.
type BoardColumn struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string `gorm:"size:36;not null;index" json:"projectId"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Order     int    `gorm:"column:position;not null;default:0" json:"order"`

	Tasks []Task `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`

	Count *Count `gorm:"-" json:"_count,omitempty"`
}

func (c *BoardColumn) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Task — карточка на доске. Order непрерывен внутри колонки.
type Task struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	ProjectID     string          `gorm:"size:36;not null;index" json:"projectId"`
	ColumnID      string          `gorm:"size:36;not null;index" json:"columnId"`
	Title         string          `gorm:"size:300;not null" json:"title"`
	Description   *string         `gorm:"type:text" json:"description"`
	Order         int             `gorm:"column:position;not null;default:0" json:"order"`
	StartDate     *datatypes.Date `json:"startDate"`
	DueDate       *datatypes.Date `gorm:"index" json:"dueDate"`
	PhaseID       *string         `gorm:"size:36;index" json:"phaseId"`
	WorkPackageID *string         `gorm:"size:36;index" json:"workPackageId"`
	Category      *string         `gorm:"size:32" json:"category"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Project     *Project            `json:"project,omitempty"`
	Column      *BoardColumn        `json:"column,omitempty"`
	Phase       *ProjectPhase       `json:"phase,omitempty"`
	WorkPackage *WorkPackage        `json:"workPackage,omitempty"`
	Comments    []TaskComment       `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Attachments []TaskAttachment    `gorm:"constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Deliverable *ProjectDeliverable `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL" json:"deliverable,omitempty"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TaskComment — неизменяемый комментарий к задаче.
type TaskComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"taskId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *TaskComment) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// TaskAttachment — файл задачи; байты лежат в blob-хранилище по Path.
type TaskAttachment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID     string    `gorm:"size:36;not null;index" json:"taskId"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	Path       string    `gorm:"size:255;not null" json:"path"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (a *TaskAttachment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
