package model

import "gorm.io/gorm"

// ProjectConfigSection — группа ссылок на странице конфигурации проекта.
type ProjectConfigSection struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string  `gorm:"size:36;not null;index" json:"projectId"`
	Name      string  `gorm:"size:120;not null" json:"name"`
	TypeSlug  *string `gorm:"size:16" json:"typeSlug"`
	Order     int     `gorm:"column:position;not null;default:0" json:"order"`

	Links []ProjectLink `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"links,omitempty"`
}

func (s *ProjectConfigSection) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type ProjectLink struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string  `gorm:"size:36;not null;index" json:"projectId"`
	SectionID string  `gorm:"size:36;not null;index" json:"sectionId"`
	Label     string  `gorm:"size:200;not null" json:"label"`
	URL       *string `gorm:"column:url;type:text" json:"url"`
	Order     int     `gorm:"column:position;not null;default:0" json:"order"`
}

func (l *ProjectLink) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
