// config — источник загрузки конфигурации CLI.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig     `yaml:"api"`
	Tokens   TokensConfig  `yaml:"tokens"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// APIConfig — удалённый API платформы.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"API_URL" env-default:"http://localhost:8000"`
}

// TokensConfig — файл и сроки жизни пары токенов.
// Path == "" — дефолтное расположение в пользовательском конфиг-каталоге.
type TokensConfig struct {
	Path       string        `yaml:"path"        env:"TOKENS_PATH"`
	AccessTTL  time.Duration `yaml:"access_ttl"  env:"TOKENS_ACCESS_TTL"  env-default:"24h"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"TOKENS_REFRESH_TTL" env-default:"168h"`
}

// ResolvePath возвращает путь к файлу токенов, подставляя дефолт при пустом Path.
func (t TokensConfig) ResolvePath() (string, error) {
	if t.Path != "" {
		return t.Path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve tokens path: %w", err)
	}

	return filepath.Join(dir, "capstone-cli", "tokens.json"), nil
}

// TimeoutConfig — дедлайн одного логического запроса к API.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
