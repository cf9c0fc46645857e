package repo

import (
	"ProjectDesk/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Driver — поддерживаемые СУБД.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Dialect выбирает драйвер по строке подключения:
// postgres://, postgresql:// и "host=..." — PostgreSQL, mysql:// — MySQL, остальное — SQLite.
func Dialect(dsn string) (Driver, gorm.Dialector) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.HasPrefix(dsn, "host="):
		return DriverPostgres, postgres.Open(dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return DriverMySQL, mysql.Open(MySQLDSN(dsn))
	default:
		return DriverSQLite, gormsqlite.Dialector{DriverName: "sqlite", DSN: SQLiteDSN(dsn)}
	}
}

// MySQLDSN убирает схему mysql:// и включает parseTime.
func MySQLDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "mysql://")
	if !strings.Contains(dsn, "parseTime=") {
		dsn = addParam(dsn, "parseTime=true")
	}
	return dsn
}

// SQLiteDSN включает внешние ключи (без них не работают каскады)
// и единый формат записи времени.
func SQLiteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file:projectdesk.db"
	}
	if !strings.Contains(dsn, "foreign_keys") {
		dsn = addParam(dsn, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		dsn = addParam(dsn, "_time_format=sqlite")
	}
	return dsn
}

func addParam(dsn, p string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + p
	}
	return dsn + "?" + p
}

// InitDB открывает БД, настраивает пул и выполняет миграции.
func InitDB(dsn string, log *zap.SugaredLogger, level gormlogger.LogLevel) (*gorm.DB, error) {
	driver, dialector := Dialect(dsn)

	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if log != nil {
		cfg.Logger = NewGormLogger(log, level)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: sql handle: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite не любит конкурентных писателей
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db: ping %s: %w", driver, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate создаёт или обновляет все таблицы.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// gormLogger направляет логи gorm в zap.
type gormLogger struct {
	log           *zap.SugaredLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(log *zap.SugaredLogger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormLogger{log: log, level: level, slowThreshold: 200 * time.Millisecond}
}

func (l gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	l.level = level
	return l
}

func (l gormLogger) Info(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Infof(s, args...)
	}
}

func (l gormLogger) Warn(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warnf(s, args...)
	}
}

func (l gormLogger) Error(_ context.Context, s string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Errorf(s, args...)
	}
}

func (l gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log.Errorw("gorm query error", "duration", elapsed, "rows", rows, "sql", sql, "error", err)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warnw("gorm slow query", "duration", elapsed, "rows", rows, "sql", sql)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debugw("gorm query", "duration", elapsed, "rows", rows, "sql", sql)
	}
}
