// Package ordering поддерживает непрерывный (0..n-1) порядок элементов
// внутри одного родителя: колонок проекта, задач колонки, фаз, пакетов работ,
// секций, ссылок и результатов (deliverables).
//
// Все изменения порядка проходят через этот пакет. Функции, принимающие *gorm.DB,
// рассчитаны на вызов внутри транзакции: вызывающий передаёт tx.
package ordering

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Scope описывает одно пространство порядка: таблицу, колонку порядка
// и условия, выделяющие братьев (например, column_id = X).
// nil в Conds означает IS NULL.
type Scope struct {
	Table  string
	Column string
	Conds  map[string]any
}

// Key — ключ для Locker: таблица и условия в стабильном порядке.
func (s Scope) Key() string {
	keys := make([]string, 0, len(s.Conds))
	for k := range s.Conds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	b.WriteString(s.Table)
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%v", k, s.Conds[k])
	}
	return b.String()
}

func (s Scope) query(tx *gorm.DB) *gorm.DB {
	q := tx.Table(s.Table)
	if len(s.Conds) > 0 {
		q = q.Where(s.Conds)
	}
	return q
}

// Next возвращает порядок для добавления в конец: max+1, либо 0 для пустого родителя.
func Next(tx *gorm.DB, s Scope) (int, error) {
	var next int
	err := s.query(tx).
		Select("COALESCE(MAX(" + s.Column + "), -1) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("ordering: next %s.%s: %w", s.Table, s.Column, err)
	}
	return next, nil
}

// Count возвращает число элементов в пространстве порядка.
func Count(tx *gorm.DB, s Scope) (int, error) {
	var n int64
	if err := s.query(tx).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("ordering: count %s: %w", s.Table, err)
	}
	return int(n), nil
}

// IDs возвращает идентификаторы элементов в текущем порядке.
func IDs(tx *gorm.DB, s Scope) ([]string, error) {
	var ids []string
	err := s.query(tx).
		Order(s.Column+" ASC").
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("ordering: list %s: %w", s.Table, err)
	}
	return ids, nil
}

// Apply записывает order = индекс для каждого id одним UPDATE.
// Идентификаторы вне пространства порядка не затрагиваются.
func Apply(tx *gorm.DB, s Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var b strings.Builder
	args := make([]any, 0, len(ids))
	b.WriteString("CASE id")
	for i, id := range ids {
		b.WriteString(" WHEN ? THEN ")
		b.WriteString(strconv.Itoa(i))
		args = append(args, id)
	}
	b.WriteString(" ELSE ")
	b.WriteString(s.Column)
	b.WriteString(" END")

	err := s.query(tx).
		Where("id IN ?", ids).
		Update(s.Column, gorm.Expr(b.String(), args...)).Error
	if err != nil {
		return fmt.Errorf("ordering: apply %s: %w", s.Table, err)
	}
	return nil
}

// Reorder применяет порядок, присланный клиентом. Повторы id отбрасываются
// (учитывается первое вхождение). Клиент обязан прислать всех братьев:
// пропущенные элементы сохраняют прежние значения.
func Reorder(tx *gorm.DB, s Scope, ids []string) error {
	return Apply(tx, s, dedup(ids))
}

// Compact перенумеровывает пространство после удаления элемента.
func Compact(tx *gorm.DB, s Scope) error {
	ids, err := IDs(tx, s)
	if err != nil {
		return err
	}
	return Apply(tx, s, ids)
}

// Clamp прижимает целевой индекс к [0, length].
func Clamp(target, length int) int {
	if target < 0 {
		return 0
	}
	if target > length {
		return length
	}
	return target
}

// Insert строит новый порядок родителя-получателя: movedID вставляется
// в позицию target (после прижатия), остальные сохраняют относительный порядок.
func Insert(ids []string, movedID string, target int) []string {
	rest := without(ids, movedID)
	at := Clamp(target, len(rest))
	plan := make([]string, 0, len(rest)+1)
	plan = append(plan, rest[:at]...)
	plan = append(plan, movedID)
	plan = append(plan, rest[at:]...)
	return plan
}

// Reposition строит порядок для перемещения внутри одного родителя.
// Второе значение false, если элемент уже стоит в целевой позиции.
func Reposition(ids []string, movedID string, target int) ([]string, bool) {
	cur := indexOf(ids, movedID)
	if cur < 0 {
		return Insert(ids, movedID, target), true
	}
	if Clamp(target, len(ids)-1) == cur {
		return ids, false
	}
	return Insert(ids, movedID, target), true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
