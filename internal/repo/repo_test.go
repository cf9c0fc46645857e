package repo

import (
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) на тест
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// repos — набор репозиториев поверх одной БД и общего Locker.
type repos struct {
	db       *gorm.DB
	projects ProjectRepository
	board    BoardRepository
	tasks    TaskRepository
	diary    DiaryRepository
	events   EventRepository
	sections SectionRepository
	plan     PlanRepository
	summary  SummaryRepository
	search   SearchRepository
}

func newRepos(t *testing.T) *repos {
	t.Helper()
	db := newTestDB(t)
	locks := ordering.NewLocker()
	return &repos{
		db:       db,
		projects: NewProjectRepository(db),
		board:    NewBoardRepository(db, locks),
		tasks:    NewTaskRepository(db, locks),
		diary:    NewDiaryRepository(db),
		events:   NewEventRepository(db),
		sections: NewSectionRepository(db, locks),
		plan:     NewPlanRepository(db, locks),
		summary:  NewSummaryRepository(db),
		search:   NewSearchRepository(db),
	}
}

func (r *repos) project(t *testing.T, name string) *model.Project {
	t.Helper()
	p, err := r.projects.Create(context.Background(), name)
	require.NoError(t, err)
	require.Len(t, p.Columns, 3)
	return p
}

func (r *repos) task(t *testing.T, projectID, columnID, title string) *model.Task {
	t.Helper()
	task, err := r.tasks.Create(context.Background(), &model.Task{ProjectID: projectID, ColumnID: columnID, Title: title})
	require.NoError(t, err)
	return task
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func dateOf(s string) datatypes.Date { return datatypes.Date(day(s)) }

func strPtr(s string) *string { return &s }

// fmtDay — дата в виде YYYY-MM-DD ("" для nil).
func fmtDay(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(time.DateOnly)
}

// taskOrder возвращает задачи колонки в порядке position.
func taskOrder(t *testing.T, db *gorm.DB, columnID string) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&model.Task{}).Where("column_id = ?", columnID).Order("position ASC").Pluck("id", &ids).Error)
	return ids
}

func positionsOf(t *testing.T, db *gorm.DB, table, column, fk, parent string) []int {
	t.Helper()
	var out []int
	require.NoError(t, db.Table(table).Where(fk+" = ?", parent).Order(column+" ASC").Pluck(column, &out).Error)
	return out
}

func countRows(t *testing.T, db *gorm.DB, m any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(where, args...).Count(&n).Error)
	return n
}
