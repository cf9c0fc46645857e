// Package blob хранит байты загруженных файлов (вложения задач, изображения дневника)
// отдельно от строк БД. Строка хранит только относительный путь "uploads/<name>".
package blob

import (
	"context"
	"errors"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix — префикс пути, под которым файлы отдаются клиенту.
const PublicPrefix = "uploads"

// ErrNotFound возвращается, когда файла с таким именем нет.
var ErrNotFound = errors.New("blob: not found")

// Store — узкий контракт хранилища файлов.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Get(ctx context.Context, name string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, name string) error
}

// NewName генерирует уникальное имя файла, сохраняя расширение оригинала.
func NewName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// PathFor возвращает путь, сохраняемый в строке БД.
func PathFor(name string) string {
	return path.Join(PublicPrefix, name)
}

// NameOf извлекает имя файла из сохранённого пути.
// Пути вне uploads/ и попытки выйти из каталога отбрасываются.
func NameOf(p string) (string, bool) {
	p = strings.TrimPrefix(p, "/")
	dir, name := path.Split(p)
	if strings.TrimSuffix(dir, "/") != PublicPrefix {
		return "", false
	}
	return name, ValidName(name)
}

// ValidName проверяет, что имя не содержит разделителей и не ссылается наверх.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// ContentTypeOf определяет MIME-тип по расширению.
func ContentTypeOf(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
