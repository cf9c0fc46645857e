package config

import (
	"flag"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BlobBackendFS = "fs"
	BlobBackendDB = "db"

	defaultBaseURL = "localhost:3001"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AppEnv      string `env:"APP_ENV"`
	UploadsDir  string `env:"UPLOADS_DIR"`
	BlobBackend string `env:"BLOB_BACKEND"` // fs | db
	UploadMaxMB int    `env:"UPLOAD_MAX_MB"`
	ImportMaxMB int    `env:"IMPORT_MAX_MB"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
}

// NewConfig — настройки сервера: .env, переменные окружения, затем флаги.
func NewConfig() *Config {
	cfg := LoadEnv()

	// флаги по умолчанию принимают значения из env
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AppEnv, "env", cfg.AppEnv, "окружение: development или production")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "клиент использует https")
	flag.StringVar(&cfg.UploadsDir, "uploads", cfg.UploadsDir, "каталог загруженных файлов")
	flag.StringVar(&cfg.BlobBackend, "blob-backend", cfg.BlobBackend, "хранилище файлов: fs или db")
	flag.IntVar(&cfg.UploadMaxMB, "upload-max-mb", cfg.UploadMaxMB, "лимит загрузки изображения, МБ")
	flag.IntVar(&cfg.ImportMaxMB, "import-max-mb", cfg.ImportMaxMB, "лимит файла импорта, МБ")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// LoadEnv читает только .env и окружение; флаги клиента разбирает cobra.
func LoadEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)
	cfg.applyDefaults()
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (c *Config) applyDefaults() {
	if c.DatabaseDSN == "" {
		c.DatabaseDSN = "file:projectdesk.db"
	}
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if c.AppEnv != EnvProduction {
		c.AppEnv = EnvDevelopment
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
	if c.BlobBackend != BlobBackendDB {
		c.BlobBackend = BlobBackendFS
	}
	if c.UploadMaxMB <= 0 {
		c.UploadMaxMB = 10
	}
	if c.ImportMaxMB <= 0 {
		c.ImportMaxMB = 2
	}
	// BaseURL только в виде "address:port", иначе значение по умолчанию
	if !hostPortRe.MatchString(c.BaseURL) {
		c.BaseURL = defaultBaseURL
	}
	if c.EnableHTTPS {
		c.ServerURL = "https://" + c.BaseURL
	} else {
		c.ServerURL = "http://" + c.BaseURL
	}
}

// Production — включена ли маскировка внутренних ошибок.
func (c *Config) Production() bool {
	return c.AppEnv == EnvProduction
}
