package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/notexe/reminders/internal/reminder"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Notification permission modes.
const (
	PermissionAsk     = "ask"
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

const envPrefix = "REMINDERS_"

type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Notify  NotifyConfig  `koanf:"notify"`
	UI      UIConfig      `koanf:"ui"`
	Form    FormConfig    `koanf:"form"`
	Log     LogConfig     `koanf:"log"`
}

type StorageConfig struct {
	Driver string      `koanf:"driver"` // sqlite or redis
	Path   string      `koanf:"path"`   // SQLite database file
	Key    string      `koanf:"key"`    // Record holding the reminder list
	Redis  RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type NotifyConfig struct {
	Permission string         `koanf:"permission"` // ask, granted or denied
	Console    bool           `koanf:"console"`
	Telegram   TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
	BaseURL  string `koanf:"base_url"`
	Timeout  int    `koanf:"timeout"` // seconds
}

// Enabled reports whether Telegram delivery is configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// TimeoutDuration returns the HTTP timeout.
func (t TelegramConfig) TimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
	WordWrap      int  `koanf:"word_wrap"`
}

type FormConfig struct {
	DefaultFrequency string `koanf:"default_frequency"`
}

type LogConfig struct {
	File string `koanf:"file"` // empty logs to stderr
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// REMINDERS_STORAGE_PATH -> storage.path, REMINDERS_UI_COLORED_OUTPUT -> ui.colored_output
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Same variable the standalone MCP server has always honoured
	if dbPath := os.Getenv("REMINDERS_DB_PATH"); dbPath != "" {
		k.Set("storage.path", dbPath)
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		k.Set("notify.telegram.bot_token", token)
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		k.Set("notify.telegram.chat_id", chatID)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

// envKey maps REMINDERS_SECTION_NAME to section.name.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, rest, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + rest
}

func (c *Config) Validate() error {
	switch c.Notify.Permission {
	case PermissionAsk, PermissionGranted, PermissionDenied:
	default:
		return fmt.Errorf("unknown notify.permission: %s (supported: %s, %s, %s)",
			c.Notify.Permission, PermissionAsk, PermissionGranted, PermissionDenied)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s (supported: %s, %s)", c.Storage.Driver, DriverSQLite, DriverRedis)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage key is required")
	}

	if _, err := reminder.ParseFrequency(c.Form.DefaultFrequency); err != nil {
		return fmt.Errorf("form.default_frequency: %w", err)
	}

	tg := c.Notify.Telegram
	if (tg.BotToken == "") != (tg.ChatID == "") {
		return fmt.Errorf("telegram needs both bot_token and chat_id (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)")
	}

	if tg.Enabled() && tg.Timeout <= 0 {
		return fmt.Errorf("telegram timeout must be positive")
	}

	if c.UI.WordWrap < 0 {
		return fmt.Errorf("word_wrap must not be negative")
	}

	return nil
}

// EnsureDirs creates the parent directories of the database and log files.
func (c *Config) EnsureDirs() error {
	paths := []string{c.Log.File}
	if c.Storage.Driver == DriverSQLite {
		paths = append(paths, c.Storage.Path)
	}
	for _, p := range paths {
		if p == "" || p == ":memory:" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}
	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
