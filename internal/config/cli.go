package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultCLIConfigName - файл конфигурации studioctl в домашнем каталоге.
const DefaultCLIConfigName = ".studioctl.yml"

// CLIConfig - настройки консольного клиента studioctl.
type CLIConfig struct {
	APIURL   string        `yaml:"api_url" env:"STUDIO_API_URL" env-default:"http://localhost:8000"`
	APIToken string        `yaml:"api_token" env:"STUDIO_API_TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"STUDIO_API_TIMEOUT" env-default:"120s"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	OutDir   string        `yaml:"out_dir" env:"STUDIO_OUT_DIR" env-default:"."`
}

// DefaultCLIConfigPath возвращает ~/.studioctl.yml или пустую строку, если домашний каталог неизвестен.
func DefaultCLIConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultCLIConfigName)
}

// LoadCLIConfig читает YAML файл; если файла нет, конфигурация берётся только из окружения.
// usedFile сообщает, был ли прочитан файл.
func LoadCLIConfig(path string) (cfg *CLIConfig, usedFile bool, err error) {
	cfg = &CLIConfig{}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, false, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
			}
			usedFile = true
		}
	}
	if !usedFile {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, false, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
		}
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout <= 0 {
		return nil, usedFile, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, usedFile, nil
}
