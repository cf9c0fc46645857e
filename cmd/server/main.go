package main

import (
	"ProjectDesk/internal/blob"
	"ProjectDesk/internal/config"
	"ProjectDesk/internal/handlers"
	"ProjectDesk/internal/middleware"
	"ProjectDesk/internal/ordering"
	"ProjectDesk/internal/repo"
	"ProjectDesk/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	newLogger := zap.NewDevelopment
	if cfg.Production() {
		newLogger = zap.NewProduction
	}
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbLevel := gormlogger.Warn
	if cfg.Production() {
		dbLevel = gormlogger.Silent
	}
	gormDB, err := repo.InitDB(cfg.DatabaseDSN, sugar, dbLevel)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	store, err := newBlobStore(cfg, gormDB)
	if err != nil {
		sugar.Fatalw("failed to initialize file storage", "error", err)
	}

	h := handlers.NewHandler(newServices(gormDB, store, sugar), store, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	driver, _ := repo.Dialect(cfg.DatabaseDSN)
	sugar.Infow("Starting server", "addr", srv.Addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"AppEnv", cfg.AppEnv,
		"Driver", driver,
		"BlobBackend", cfg.BlobBackend,
		"UploadsDir", cfg.UploadsDir,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newBlobStore — файлы на диске (по умолчанию) или в таблице БД.
func newBlobStore(cfg *config.Config, db *gorm.DB) (blob.Store, error) {
	if cfg.BlobBackend == config.BlobBackendDB {
		return blob.NewDBStore(repo.NewBlobRepository(db)), nil
	}
	return blob.NewFSStore(cfg.UploadsDir)
}

func newServices(db *gorm.DB, store blob.Store, logger *zap.SugaredLogger) handlers.Services {
	locks := ordering.NewLocker()

	projects := repo.NewProjectRepository(db)
	board := repo.NewBoardRepository(db, locks)
	plan := repo.NewPlanRepository(db, locks)

	return handlers.Services{
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
}
