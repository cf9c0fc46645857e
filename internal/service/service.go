// Package service содержит бизнес-правила ProjectDesk поверх репозиториев:
// проверку ссылок между сущностями, разбор дат, импорт плана и сводку.
//
// Репозитории возвращают gorm.ErrRecordNotFound; сервисы переводят его
// в apperr.NotFound с сообщением для клиента.
package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/reldate"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Сообщения об ошибках, которые видит клиент.
const (
	msgProjectNotFound     = "Progetto non trovato"
	msgColumnNotFound      = "Colonna non trovata"
	msgTaskNotFound        = "Task non trovato"
	msgAttachmentNotFound  = "Allegato non trovato"
	msgEntryNotFound       = "Resoconto non trovato"
	msgImageNotFound       = "Immagine non trovata"
	msgEventNotFound       = "Evento non trovato"
	msgSectionNotFound     = "Sezione non trovata"
	msgLinkNotFound        = "Link non trovato"
	msgPhaseNotFound       = "Fase non trovata"
	msgWorkPackageNotFound = "Work package non trovato"
	msgDeliverableNotFound = "Deliverable non trovato"
)

// notFound переводит gorm.ErrRecordNotFound в ошибку 404, остальное пропускает.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return err
}

// invalidRef — ссылка из тела запроса на сущность, которой нет в проекте (400).
func invalidRef(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validation("%s", message)
	}
	return err
}

// required обрезает пробелы и отклоняет пустую строку.
func required(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperr.Validation("%s: campo obbligatorio", field)
	}
	return v, nil
}

// optionalText — "" и строка из пробелов превращаются в nil.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// parseDay разбирает YYYY-MM-DD; nil и "" дают nil.
func parseDay(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	d, err := reldate.ParseDay(strings.TrimSpace(*v))
	if err != nil {
		return nil, apperr.Validation("%s: data non valida (YYYY-MM-DD)", field)
	}
	return &d, nil
}

// dateOrRelative разбирает абсолютную дату или выражение T0.
// Возвращает разрешённую дату и выражение (nil для абсолютной даты).
func dateOrRelative(field string, v *string, t0 *time.Time) (*time.Time, *string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil, nil
	}
	res := reldate.ParseDateOrRelative(*v, t0)
	if res.Relative == nil && res.Date == nil {
		return nil, nil, apperr.Validation("%s: usa YYYY-MM-DD oppure T0, T0+N giorni/settimane/mesi/anni", field)
	}
	return res.Date, res.Relative, nil
}

// removeFiles удаляет файлы из хранилища. Ошибки только логируются:
// удаление строки уже выполнено и не откатывается.
func removeFiles(ctx context.Context, store blob.Store, logger *zap.SugaredLogger, paths []string) {
	for _, p := range paths {
		name, ok := blob.NameOf(p)
		if !ok {
			logger.Warnw("skip file removal: unexpected path", "path", p)
			continue
		}
		if err := store.Delete(ctx, name); err != nil && !errors.Is(err, blob.ErrNotFound) {
			logger.Warnw("file removal failed", "path", p, "error", err)
		}
	}
}

// dayValue — значение даты для частичного обновления (nil -> NULL).
func dayValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return datatypes.Date(*t)
}

// dayPtr — *datatypes.Date для новой строки.
func dayPtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

// clampLimit приводит limit к (0, max], 0 и отрицательные дают def.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
