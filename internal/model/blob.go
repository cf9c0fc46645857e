package model

import "time"

// Blob — содержимое загруженного файла для бэкенда BLOB_BACKEND=db.
// ID совпадает с именем файла в пути uploads/<name>.
type Blob struct {
	ID          string    `gorm:"primaryKey;size:255"`
	Data        []byte    `gorm:"not null"`
	ContentType string    `gorm:"size:127"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
