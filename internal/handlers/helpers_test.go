package handlers_test

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/config"
	"ProjectDesk/internal/handlers"
	"ProjectDesk/internal/ordering"
	"ProjectDesk/internal/repo"
	"ProjectDesk/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// pngBytes — минимальная сигнатура PNG.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

// newTestRouter собирает настоящий роутер поверх отдельной in-memory SQLite
// и файлового хранилища во временном каталоге.
func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	dsn := repo.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.AutoMigrate(db))

	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	if cfg == nil {
		cfg = &config.Config{AppEnv: config.EnvDevelopment, UploadMaxMB: 1, ImportMaxMB: 1}
	}
	logger := zap.NewNop().Sugar()
	locks := ordering.NewLocker()

	projects := repo.NewProjectRepository(db)
	board := repo.NewBoardRepository(db, locks)
	plan := repo.NewPlanRepository(db, locks)
	svc := handlers.Services{
		Projects: service.NewProjectService(projects, store, logger),
		Board:    service.NewBoardService(projects, board, store, logger),
		Tasks:    service.NewTaskService(projects, board, repo.NewTaskRepository(db, locks), plan, store, logger),
		Diary:    service.NewDiaryService(projects, repo.NewDiaryRepository(db), store, logger),
		Events:   service.NewEventService(projects, repo.NewEventRepository(db)),
		Config:   service.NewConfigService(projects, repo.NewSectionRepository(db, locks)),
		Plan:     service.NewPlanService(projects, plan, logger),
		Import:   service.NewImportService(projects, plan, logger),
		Summary:  service.NewSummaryService(projects, repo.NewSummaryRepository(db), plan, logger),
		Search:   service.NewSearchService(repo.NewSearchRepository(db)),
	}
	return handlers.NewHandler(svc, store, logger, cfg).Router
}

// do выполняет JSON-запрос и возвращает ответ.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// doFile отправляет файл в multipart-поле "file".
func doFile(t *testing.T, h http.Handler, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type projectJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	T0Date  any    `json:"t0Date"`
	Columns []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"columns"`
}

func createProject(t *testing.T, h http.Handler, name string) projectJSON {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/projects", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	p := decode[projectJSON](t, rr)
	require.Len(t, p.Columns, 3)
	return p
}
