// Package config holds the fixed parameters of the wallpaper service and the
// location of its on-disk state.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	AppName   = "DailyCommonsWallpaper"
	UserAgent = "DailyCommonsWallpaper/1.0 (commonswall)"

	APIURL      = "https://commons.wikimedia.org/w/api.php"
	CommonsHome = "https://commons.wikimedia.org/"
	Category    = "Commons featured widescreen desktop backgrounds"
	CategoryURL = "https://commons.wikimedia.org/wiki/Category:Commons_featured_widescreen_desktop_backgrounds"

	MinWidth  = 1920
	MinHeight = 1080

	// DailyBatch is fixed so every install sees the same candidate set.
	DailyBatch  = 500
	RandomBatch = 200

	CheckInterval = time.Minute
	// RetryInterval spaces out daily attempts after a failed cycle.
	RetryInterval = 15 * time.Minute
)

// DirEnv overrides the data directory.
const DirEnv = "COMMONSWALL_DIR"

const (
	dirName      = ".daily_commons_wallpaper"
	cacheFile    = "cache.json"
	settingsFile = "settings.toml"
)

// Dir returns the data directory. COMMONSWALL_DIR overrides the default
// ~/.daily_commons_wallpaper.
func Dir() (string, error) {
	if d := os.Getenv(DirEnv); d != "" {
		return filepath.Abs(d)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func CachePath(dir string) string {
	return filepath.Join(dir, cacheFile)
}

func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFile)
}
