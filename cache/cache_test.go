package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"commonswall/commons"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestValidFor(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "wallpaper_20250101.jpg")
	touch(t, existing)
	missing := filepath.Join(dir, "gone.jpg")

	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.Local)
	today := Stamp(now.Add(-3 * time.Hour))
	yesterday := Stamp(now.AddDate(0, 0, -1))

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"today with file", Record{Path: existing, Date: today}, true},
		{"today without file", Record{Path: missing, Date: today}, false},
		{"yesterday with file", Record{Path: existing, Date: yesterday}, false},
		{"yesterday without file", Record{Path: missing, Date: yesterday}, false},
		{"python isoformat", Record{Path: existing, Date: "2025-01-01T09:15:42.123456"}, true},
		{"empty date", Record{Path: existing}, false},
		{"empty path", Record{Date: today}, false},
		{"directory path", Record{Path: dir, Date: today}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.ValidFor(now); got != tt.want {
				t.Errorf("ValidFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state", "cache.json"))
	want := Record{
		Path:           "/tmp/wallpaper_20250101.jpg",
		Title:          "Alpine lake.jpg",
		URL:            "https://upload.example/alpine.jpg",
		DescriptionURL: "https://commons.example/wiki/File:Alpine_lake.jpg",
		Date:           Stamp(time.Date(2025, time.January, 1, 7, 30, 0, 0, time.Local)),
		Seed:           20250101,
		Metadata: commons.Metadata{
			Title:       "Alpine lake",
			Description: "A lake & mountains",
			Artist:      "Ann",
			License:     "CC BY-SA 4.0",
			Credit:      "Own work",
		},
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := s.Load()
	if !ok {
		t.Fatal("Load returned ok=false")
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	if err := s.Save(Record{Title: "first", Metadata: commons.Metadata{Artist: "A"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(Record{Title: "second"}); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Load()
	if !ok || got.Title != "second" || got.Metadata.Artist != "" {
		t.Errorf("Load = %+v, %v", got, ok)
	}
	entries, _ := os.ReadDir(filepath.Dir(s.Path))
	if len(entries) != 1 {
		t.Errorf("expected only the cache file, got %d entries", len(entries))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	if _, ok := s.Load(); ok {
		t.Error("Load on missing file returned ok=true")
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := NewStore(path)
	if err := s.Save(Record{Title: "ok"}); err != nil {
		t.Fatal(err)
	}
	for _, junk := range []string{"not json", "{\"path\": ", "[1,2,3]", ""} {
		if err := os.WriteFile(path, []byte(junk), 0644); err != nil {
			t.Fatal(err)
		}
		if r, ok := s.Load(); ok {
			t.Errorf("Load(%q) = %+v, want no cache", junk, r)
		}
	}
}

func TestLoadReadsOriginalLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	data := `{
  "path": "C:\\Users\\me\\.daily_commons_wallpaper\\wallpaper_20250101.jpg",
  "title": "Dunes.jpg",
  "url": "https://upload.example/dunes.jpg",
  "descriptionurl": "",
  "date": "2025-01-01T08:00:00.000001",
  "date_id": 20250101,
  "metadata": {"title": "Dunes", "artist": "Bo"}
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	r, ok := NewStore(path).Load()
	if !ok {
		t.Fatal("Load returned ok=false")
	}
	if r.Seed != 20250101 || r.Day() != "2025-01-01" || r.Metadata.Artist != "Bo" {
		t.Errorf("Load = %+v", r)
	}
}
