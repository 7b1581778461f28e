package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings is the small user-editable preferences file.
type Settings struct {
	Autostart bool   `toml:"autostart"`
	Language  string `toml:"language"`
}

// LoadSettings reads settings from path. A missing or unreadable file yields
// defaults; it never fails.
func LoadSettings(path string) Settings {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}
	}
	s.Language = strings.TrimSpace(s.Language)
	return s
}

// SaveSettings writes settings to path, creating the directory if needed.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
