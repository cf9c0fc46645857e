package repo

import (
	"ProjectDesk/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository минимальный контракт доступа к Blob.
type BlobRepository interface {
	// CreateIfAbsent пытается создать запись. Если существует — ничего не делает.
	// Возвращает created=true если запись была создана в этой операции.
	CreateIfAbsent(ctx context.Context, id string, data []byte, contentType string) (created bool, err error)
	// Get возвращает gorm.ErrRecordNotFound, если записи нет.
	Get(ctx context.Context, id string) (*model.Blob, error)
	// Delete возвращает deleted=false, если записи не было.
	Delete(ctx context.Context, id string) (deleted bool, err error)
}

type blobRepo struct {
	db *gorm.DB
}

// NewBlobRepository создаёт реализацию репозитория для Blob.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

// CreateIfAbsent создает Blob в БД, если его ещё нет.
func (r *blobRepo) CreateIfAbsent(ctx context.Context, id string, data []byte, contentType string) (bool, error) {
	b := &model.Blob{ID: id, Data: data, ContentType: contentType}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(b)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *blobRepo) Get(ctx context.Context, id string) (*model.Blob, error) {
	var b model.Blob
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blobRepo) Delete(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&model.Blob{}, "id = ?", id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
