// Package cache persists the record of the currently applied wallpaper.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"commonswall/commons"
)

const dateLayout = "2006-01-02"

// Record describes the wallpaper that is currently applied.
type Record struct {
	Path           string           `json:"path"`
	Title          string           `json:"title"`
	URL            string           `json:"url"`
	DescriptionURL string           `json:"descriptionurl"`
	Date           string           `json:"date"`
	Seed           int64            `json:"date_id"`
	Metadata       commons.Metadata `json:"metadata"`
}

// Stamp formats t as the record's selection timestamp.
func Stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Day returns the YYYY-MM-DD part of the selection timestamp.
func (r Record) Day() string {
	if len(r.Date) < len(dateLayout) {
		return ""
	}
	return r.Date[:len(dateLayout)]
}

// FileExists reports whether the referenced wallpaper is still on disk.
func (r Record) FileExists() bool {
	if r.Path == "" {
		return false
	}
	info, err := os.Stat(r.Path)
	return err == nil && !info.IsDir()
}

// ValidFor reports whether the record was selected on now's local date and
// its file still exists.
func (r Record) ValidFor(now time.Time) bool {
	return r.Day() == now.Format(dateLayout) && r.FileExists()
}

// Store reads and writes the record file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load returns the stored record. A missing, unreadable or corrupt file is
// reported as ok=false.
func (s *Store) Load() (Record, bool) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Record{}, false
	}
	var r Record
	if json.Unmarshal(data, &r) != nil {
		return Record{}, false
	}
	return r, true
}

// Save replaces the stored record. The file is swapped in with a rename so
// readers never see a partial write.
func (s *Store) Save(r Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("install cache: %w", err)
	}
	return nil
}
