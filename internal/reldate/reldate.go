// Package reldate разбирает относительные даты вида "T0", "T0+3mesi",
// "T0+2 settimane" и переводит их в абсолютные календарные дни
// относительно опорной даты проекта (T0).
//
// Все дни представлены как time.Time в полночь UTC.
package reldate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayLayout — формат календарного дня в API.
const DayLayout = "2006-01-02"

// Unit — единица смещения относительно T0.
type Unit int

const (
	UnitNone Unit = iota
	UnitDays
	UnitWeeks
	UnitMonths
	UnitYears
)

func (u Unit) String() string {
	switch u {
	case UnitDays:
		return "giorni"
	case UnitWeeks:
		return "settimane"
	case UnitMonths:
		return "mesi"
	case UnitYears:
		return "anni"
	default:
		return ""
	}
}

// Expr — разобранное выражение T0[+N unit].
type Expr struct {
	Raw    string
	Offset int
	Unit   Unit
}

var (
	exprRe = regexp.MustCompile(`(?i)^T0(?:\s*\+\s*(\d+)\s*(giorn[oi]|settiman[ae]|mes[ei]|ann[oi]))?$`)
	dayRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Parse разбирает выражение. Пробелы по краям игнорируются, регистр не важен.
func Parse(expr string) (Expr, bool) {
	s := strings.TrimSpace(expr)
	m := exprRe.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, false
	}
	e := Expr{Raw: s}
	if m[1] == "" {
		return e, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Expr{}, false
	}
	e.Offset = n
	switch unit := strings.ToLower(m[2]); {
	case strings.HasPrefix(unit, "giorn"):
		e.Unit = UnitDays
	case strings.HasPrefix(unit, "settiman"):
		e.Unit = UnitWeeks
	case strings.HasPrefix(unit, "mes"):
		e.Unit = UnitMonths
	case strings.HasPrefix(unit, "ann"):
		e.Unit = UnitYears
	}
	return e, true
}

// IsRelative сообщает, является ли строка корректным относительным выражением.
func IsRelative(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Apply вычисляет дату выражения от опорной даты t0.
func (e Expr) Apply(t0 time.Time) time.Time {
	base := Midnight(t0)
	switch e.Unit {
	case UnitDays:
		return base.AddDate(0, 0, e.Offset)
	case UnitWeeks:
		return base.AddDate(0, 0, 7*e.Offset)
	case UnitMonths:
		return AddMonths(base, e.Offset)
	case UnitYears:
		return AddMonths(base, 12*e.Offset)
	default:
		return base
	}
}

// Resolve вычисляет выражение; nil, если выражение не распознано или t0 неизвестна.
func Resolve(expr string, t0 *time.Time) *time.Time {
	e, ok := Parse(expr)
	if !ok || t0 == nil {
		return nil
	}
	d := e.Apply(*t0)
	return &d
}

// Result — абсолютная дата и (если была) исходная относительная запись.
type Result struct {
	Date     *time.Time
	Relative *string
}

// ParseDateOrRelative принимает "YYYY-MM-DD" или выражение от T0.
// Для выражения без известной t0 дата остаётся nil, а запись сохраняется,
// чтобы пересчитать её, когда T0 появится. Нераспознанное значение даёт пустой Result.
func ParseDateOrRelative(value string, t0 *time.Time) Result {
	v := strings.TrimSpace(value)
	if v == "" {
		return Result{}
	}
	if e, ok := Parse(v); ok {
		rel := e.Raw
		if t0 == nil {
			return Result{Relative: &rel}
		}
		d := e.Apply(*t0)
		return Result{Date: &d, Relative: &rel}
	}
	if d, err := ParseDay(v); err == nil {
		return Result{Date: &d}
	}
	return Result{}
}

// ParseDay строго разбирает "YYYY-MM-DD" (с проверкой календаря).
func ParseDay(s string) (time.Time, error) {
	if !dayRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("reldate: %q is not YYYY-MM-DD", s)
	}
	d, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("reldate: parse %q: %w", s, err)
	}
	return d, nil
}

// IsDay — строка является корректным календарным днём.
func IsDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// Midnight возвращает календарный день t (в зоне t) как полночь UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today — текущий локальный день.
func Today(now time.Time) time.Time {
	return Midnight(now.Local())
}

// FormatDay форматирует день как "YYYY-MM-DD".
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// AddMonths сдвигает день на n месяцев, прижимая число к последнему дню
// целевого месяца (31 января + 1 месяц = 28/29 февраля).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ny := y + floorDiv(total, 12)
	nm := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := daysIn(ny, nm); d > last {
		d = last
	}
	return time.Date(ny, nm, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange возвращает первый и последний день месяца.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("reldate: month %d out of range", month)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("reldate: year %d out of range", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month), daysIn(year, time.Month(month)), 0, 0, 0, 0, time.UTC)
	return start, end, nil
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
