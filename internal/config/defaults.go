package config

import (
	"path/filepath"

	"github.com/knadh/koanf/providers/confmap"

	"github.com/flexreminder/flexd/pkg/flexlib"
)

// Defaults returns the built-in configuration. Every key a config file
// or environment variable may override exists here first.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"api": map[string]interface{}{
			"base_url":              "",
			"credential":            "",
			"max_retries":           flexlib.DEF_MAX_RETRIES,
			"retry_base_delay_secs": 1,
			"request_timeout_secs":  30,
		},
		"sync": map[string]interface{}{
			"auto":             true,
			"interval_minutes": 30,
		},
		"notifications": map[string]interface{}{
			"enabled": true,
			"sound":   false,
		},
		"storage": map[string]interface{}{
			"backend": "file",
			"path":    "",
		},
		"rpc": map[string]interface{}{
			"port":       4422,
			"secret":     "",
			"listen_all": false,
		},
		// Empty means the system local timezone.
		"timezone": "",
	}
}

// NewDefaultProvider wraps Defaults as a koanf provider.
func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(Defaults(), ".")
}

// DefaultConfigPath returns the path of the yaml config file inside the
// flexd config directory.
func DefaultConfigPath() (string, error) {
	dir, err := flexlib.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
