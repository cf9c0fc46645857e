package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/blob"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Upload — файл из multipart-запроса. ContentType заявлен клиентом
// и для изображений не используется: тип определяется по содержимому.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageTypes — допустимые типы вложений задач и изображений дневника.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// storeImage проверяет, что файл является изображением, и кладёт его в хранилище.
// Тип определяется по содержимому, расширение сохранённого имени берётся из него же.
func storeImage(ctx context.Context, store blob.Store, u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", apperr.Validation("Nessun file caricato")
	}
	mt := mimetype.Detect(u.Data)
	ct := mt.String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !slices.Contains(ImageTypes, ct) {
		return "", apperr.Validation("Sono ammesse solo immagini (jpeg, png, gif, webp)")
	}
	name := blob.NewName(mt.Extension())
	if err := store.Put(ctx, name, ct, u.Data); err != nil {
		return "", fmt.Errorf("service: store upload: %w", err)
	}
	return blob.PathFor(name), nil
}

// dropStored убирает файл, строка для которого так и не появилась.
func dropStored(ctx context.Context, store blob.Store, logger *zap.SugaredLogger, path string) {
	removeFiles(ctx, store, logger, []string{path})
}

// displayName — имя файла для показа; пустое заменяется на "file".
func displayName(filename string) string {
	name := strings.TrimSpace(filename)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "file"
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
