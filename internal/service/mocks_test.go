package service

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/model"
	"ProjectDesk/internal/ordering"
	"ProjectDesk/internal/repo"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Моки репозиториев и хранилища файлов
type mockProjectRepo struct{ mock.Mock }

func (m *mockProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectRepo) Exists(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockProjectRepo) Create(ctx context.Context, name string) (*model.Project, error) {
	args := m.Called(ctx, name)
	if v, ok := args.Get(0).(*model.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectRepo) Rename(ctx context.Context, id, name string) (*model.Project, error) {
	args := m.Called(ctx, id, name)
	if v, ok := args.Get(0).(*model.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectRepo) SetT0(ctx context.Context, id string, t0 *time.Time) (*model.Project, error) {
	args := m.Called(ctx, id, t0)
	if v, ok := args.Get(0).(*model.Project); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectRepo) Delete(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).([]string); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.ProjectRepository = (*mockProjectRepo)(nil)

type mockBlobStore struct{ mock.Mock }

func (m *mockBlobStore) Put(ctx context.Context, name, contentType string, data []byte) error {
	return m.Called(ctx, name, contentType, data).Error(0)
}
func (m *mockBlobStore) Get(ctx context.Context, name string) ([]byte, string, error) {
	args := m.Called(ctx, name)
	if v, ok := args.Get(0).([]byte); ok {
		return v, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}
func (m *mockBlobStore) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

var _ blob.Store = (*mockBlobStore)(nil)

type mockSummaryRepo struct{ mock.Mock }

func (m *mockSummaryRepo) Load(ctx context.Context, projectID string, from time.Time, eventLimit int) (*repo.SummaryData, error) {
	args := m.Called(ctx, projectID, from, eventLimit)
	if v, ok := args.Get(0).(*repo.SummaryData); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.SummaryRepository = (*mockSummaryRepo)(nil)

type mockSearchRepo struct{ mock.Mock }

func (m *mockSearchRepo) Search(ctx context.Context, query, projectID string, limit int) (*repo.SearchResult, error) {
	args := m.Called(ctx, query, projectID, limit)
	if v, ok := args.Get(0).(*repo.SearchResult); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.SearchRepository = (*mockSearchRepo)(nil)

// env — сервисы поверх отдельной in-memory SQLite (modernc.org/sqlite) и мока хранилища.
type env struct {
	db       *gorm.DB
	blobs    *mockBlobStore
	projects repo.ProjectRepository
	board    repo.BoardRepository
	tasks    repo.TaskRepository
	diary    repo.DiaryRepository
	plan     repo.PlanRepository

	projectSvc *ProjectService
	taskSvc    *TaskService
	diarySvc   *DiaryService
	planSvc    *PlanService
	importSvc  *ImportService
	summarySvc *SummaryService
	eventSvc   *EventService
	configSvc  *ConfigService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := repo.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.AutoMigrate(db))

	logger := zap.NewNop().Sugar()
	locks := ordering.NewLocker()
	e := &env{
		db:       db,
		blobs:    new(mockBlobStore),
		projects: repo.NewProjectRepository(db),
		board:    repo.NewBoardRepository(db, locks),
		tasks:    repo.NewTaskRepository(db, locks),
		diary:    repo.NewDiaryRepository(db),
		plan:     repo.NewPlanRepository(db, locks),
	}
	e.projectSvc = NewProjectService(e.projects, e.blobs, logger)
	e.taskSvc = NewTaskService(e.projects, e.board, e.tasks, e.plan, e.blobs, logger)
	e.diarySvc = NewDiaryService(e.projects, e.diary, e.blobs, logger)
	e.planSvc = NewPlanService(e.projects, e.plan, logger)
	e.importSvc = NewImportService(e.projects, e.plan, logger)
	e.summarySvc = NewSummaryService(e.projects, repo.NewSummaryRepository(db), e.plan, logger)
	e.eventSvc = NewEventService(e.projects, repo.NewEventRepository(db))
	e.configSvc = NewConfigService(e.projects, repo.NewSectionRepository(db, locks))
	return e
}

func (e *env) project(t *testing.T, name string) *model.Project {
	t.Helper()
	p, err := e.projectSvc.Create(context.Background(), ProjectInput{Name: name})
	require.NoError(t, err)
	require.Len(t, p.Columns, 3)
	return p
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// fmtDay — дата в виде YYYY-MM-DD ("" для nil).
func fmtDay(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(time.DateOnly)
}

// pngBytes — минимальная сигнатура PNG, которой достаточно для определения типа.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
