// Package config содержит логику чтения конфигурации панели и прокси-сервера.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	DefaultRunAddress    = "localhost:3001"
	DefaultAPIURL        = "http://212.220.105.29:8079/api"
	DefaultAllowedOrigin = "http://localhost:3000"
	DefaultTimeout       = 30 * time.Second
)

// Config содержит параметры конфигурации прокси-сервера.
type Config struct {
	RunAddress    string        `env:"RUN_ADDRESS"`
	APIURL        string        `env:"COINS_API_URL"`
	AllowedOrigin string        `env:"COINS_ALLOWED_ORIGIN"`
	SessionFile   string        `env:"COINS_SESSION_FILE"`
	Timeout       time.Duration `env:"COINS_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envAPIURL := cfg.APIURL
	envAllowedOrigin := cfg.AllowedOrigin
	envSessionFile := cfg.SessionFile
	envTimeout := cfg.Timeout

	flag.StringVar(&cfg.RunAddress, "a", DefaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIURL, "t", DefaultAPIURL, "backend API base URL")
	flag.StringVar(&cfg.AllowedOrigin, "o", DefaultAllowedOrigin, "origin allowed by CORS")
	flag.StringVar(&cfg.SessionFile, "s", "", "session file with credentials injected into unauthenticated requests")
	flag.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "backend request timeout")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envAPIURL != "" {
		cfg.APIURL = envAPIURL
	}
	if envAllowedOrigin != "" {
		cfg.AllowedOrigin = envAllowedOrigin
	}
	if envSessionFile != "" {
		cfg.SessionFile = envSessionFile
	}
	if envTimeout != 0 {
		cfg.Timeout = envTimeout
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = DefaultRunAddress
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// LoadDotEnv загружает переменные из файлов .env, если они есть.
// Уже заданные переменные окружения не перезаписываются.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// DefaultSessionFile возвращает путь к файлу сессии в домашнем каталоге пользователя.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".coinsadmin", "session.db")
	}
	return filepath.Join(home, ".coinsadmin", "session.db")
}
