// Файл: pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SourcesConfig - откуда забирать выгрузки: путь к файлу или http(s) URL.
type SourcesConfig struct {
	Activity   string        `yaml:"activity"`
	Attendance string        `yaml:"attendance"`
	Timeout    time.Duration `yaml:"timeout"`
}

type AnalyticsConfig struct {
	IncludeActivityOnlyGuards bool   `yaml:"include_activity_only_guards"`
	DefaultDate               string `yaml:"default_date"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Sources   SourcesConfig   `yaml:"sources"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Watch     WatchConfig     `yaml:"watch"`
	Log       LogConfig       `yaml:"log"`
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Sources: SourcesConfig{
			Activity:   getEnv("ACTIVITY_SOURCE", "./exports/activity.csv"),
			Attendance: getEnv("ATTENDANCE_SOURCE", "./exports/attendance.csv"),
			Timeout:    getEnvDuration("SOURCE_TIMEOUT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			IncludeActivityOnlyGuards: getEnvBool("INCLUDE_ACTIVITY_ONLY_GUARDS", false),
			DefaultDate:               getEnv("DEFAULT_DATE", ""),
		},
		Watch: WatchConfig{
			Enabled:  getEnvBool("WATCH_EXPORTS", true),
			Debounce: getEnvDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if path := getEnv("CONFIG_PATH", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			log.Printf("Предупреждение: файл конфигурации %s не применен: %v", path, err)
		}
	}

	return cfg
}

// applyFile накладывает YAML-файл поверх значений из окружения.
// Пустые значения в файле ничего не перетирают.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("чтение %s: %w", path, err)
	}

	var fileCfg struct {
		Server    ServerConfig  `yaml:"server"`
		Sources   SourcesConfig `yaml:"sources"`
		Analytics struct {
			IncludeActivityOnlyGuards *bool  `yaml:"include_activity_only_guards"`
			DefaultDate               string `yaml:"default_date"`
		} `yaml:"analytics"`
		Watch struct {
			Enabled  *bool         `yaml:"enabled"`
			Debounce time.Duration `yaml:"debounce"`
		} `yaml:"watch"`
		Log LogConfig `yaml:"log"`
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("разбор %s: %w", path, err)
	}

	if fileCfg.Server.Port != "" {
		c.Server.Port = fileCfg.Server.Port
	}
	if len(fileCfg.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = fileCfg.Server.AllowedOrigins
	}
	if fileCfg.Sources.Activity != "" {
		c.Sources.Activity = fileCfg.Sources.Activity
	}
	if fileCfg.Sources.Attendance != "" {
		c.Sources.Attendance = fileCfg.Sources.Attendance
	}
	if fileCfg.Sources.Timeout > 0 {
		c.Sources.Timeout = fileCfg.Sources.Timeout
	}
	if fileCfg.Analytics.IncludeActivityOnlyGuards != nil {
		c.Analytics.IncludeActivityOnlyGuards = *fileCfg.Analytics.IncludeActivityOnlyGuards
	}
	if fileCfg.Analytics.DefaultDate != "" {
		c.Analytics.DefaultDate = fileCfg.Analytics.DefaultDate
	}
	if fileCfg.Watch.Enabled != nil {
		c.Watch.Enabled = *fileCfg.Watch.Enabled
	}
	if fileCfg.Watch.Debounce > 0 {
		c.Watch.Debounce = fileCfg.Watch.Debounce
	}
	if fileCfg.Log.Level != "" {
		c.Log.Level = fileCfg.Log.Level
	}
	if fileCfg.Log.File != "" {
		c.Log.File = fileCfg.Log.File
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
