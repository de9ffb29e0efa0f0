package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"driver": DriverSQLite,
			"path":   "~/.reminders/reminders.db",
			"key":    "reminders",
			"redis": map[string]interface{}{
				"addr":     "localhost:6379",
				"password": "",
				"db":       0,
			},
		},
		"notify": map[string]interface{}{
			"permission": PermissionAsk,
			"console":    true,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
				"base_url":  "https://api.telegram.org",
				"timeout":   30,
			},
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"word_wrap":      80,
		},
		"form": map[string]interface{}{
			"default_frequency": "Once",
		},
		"log": map[string]interface{}{
			"file": "~/.reminders/reminders.log",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.reminders/config.yaml"
}
