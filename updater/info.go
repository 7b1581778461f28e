package updater

import (
	"context"
	"net/url"
	"strings"

	"commonswall/cache"
	"commonswall/config"
	"commonswall/log"
)

// Info describes the currently applied wallpaper for display.
type Info struct {
	Title       string
	Description string
	Artist      string
	License     string
	Credit      string
	// PageURL is the Commons page for the file.
	PageURL  string
	ImageURL string
	Path     string
}

// Info reads the current record, backfilling metadata over the network when
// the record predates it. ok is false when nothing has been applied yet.
func (u *Updater) Info(ctx context.Context) (Info, bool) {
	rec, ok := u.Store.Load()
	if !ok || rec.Title == "" {
		return Info{}, false
	}

	if rec.Metadata.IsZero() || rec.DescriptionURL == "" {
		meta, descURL, found := u.Fetcher.FetchOne(ctx, rec.Title)
		if found {
			changed := false
			if rec.Metadata.IsZero() && !meta.IsZero() {
				rec.Metadata = meta
				changed = true
			}
			if rec.DescriptionURL == "" && descURL != "" {
				rec.DescriptionURL = descURL
				changed = true
			}
			if changed {
				u.saveBackfill(rec)
			}
		}
	}

	m := rec.Metadata
	title := m.Title
	if title == "" {
		title = rec.Title
	}
	return Info{
		Title:       title,
		Description: m.Description,
		Artist:      m.Artist,
		License:     m.License,
		Credit:      m.Credit,
		PageURL:     PageURL(rec.DescriptionURL, rec.Title),
		ImageURL:    rec.URL,
		Path:        rec.Path,
	}, true
}

// saveBackfill persists rec only if the stored record still describes the
// same wallpaper. An update may have replaced it while FetchOne was running.
func (u *Updater) saveBackfill(rec cache.Record) {
	cur, ok := u.Store.Load()
	if !ok || cur.Path != rec.Path || cur.Date != rec.Date {
		log.Infof("cache changed during metadata backfill, not saving %q", rec.Title)
		return
	}
	if err := u.Store.Save(rec); err != nil {
		log.Warnf("save backfilled cache: %v", err)
	}
}

// PageURL picks the best Commons page for a file: the API-provided
// description page, else one built from the title, else the Commons home.
func PageURL(descriptionURL, title string) string {
	if descriptionURL != "" {
		return descriptionURL
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return config.CommonsHome
	}
	if !strings.HasPrefix(title, "File:") {
		title = "File:" + title
	}
	return "https://commons.wikimedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}
