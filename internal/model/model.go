// Package model содержит gorm-модели ProjectDesk.
//
// Идентификаторы — строки UUID, назначаются в BeforeCreate.
// Календарные дни хранятся как datatypes.Date в полночь UTC.
package model

import "github.com/google/uuid"

// Имена колонок доски, создаваемых вместе с проектом.
var DefaultColumns = []string{"Da fare", "In corso", "Completato"}

// CompletedColumn — имя колонки завершённых задач (сравнение без учёта регистра).
const CompletedColumn = "completato"

// Count — счётчики связанных записей, отдаются в JSON как "_count".
type Count struct {
	Tasks        *int64 `json:"tasks,omitempty"`
	DiaryEntries *int64 `json:"diaryEntries,omitempty"`
}

// AllModels перечисляет модели для AutoMigrate.
func AllModels() []any {
	return []any{
		&Project{},
		&BoardColumn{},
		&ProjectPhase{},
		&WorkPackage{},
		&Task{},
		&TaskComment{},
		&TaskAttachment{},
		&ProjectDeliverable{},
		&DiaryEntry{},
		&DiaryImage{},
		&DiaryComment{},
		&ProjectEvent{},
		&ProjectConfigSection{},
		&ProjectLink{},
		&Blob{},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
