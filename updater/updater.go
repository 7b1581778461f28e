// Package updater runs one wallpaper update cycle: fetch, select, download,
// apply, persist.
package updater

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"commonswall/cache"
	"commonswall/commons"
	"commonswall/config"
	"commonswall/log"
	"commonswall/selector"
)

type Step string

const (
	StepFetching    Step = "fetching"
	StepSelecting   Step = "selecting"
	StepDownloading Step = "downloading"
	StepSetting     Step = "setting"
	StepDone        Step = "done"
	StepError       Step = "error"
)

// ProgressFunc receives every state transition. pct is 0..100.
type ProgressFunc func(step Step, pct int)

var (
	ErrNoImages = errors.New("no qualifying images and no cached wallpaper")
	ErrDownload = errors.New("download failed")
	ErrApply    = errors.New("could not apply wallpaper")
)

type Fetcher interface {
	Fetch(ctx context.Context, category string, limit int) []commons.Image
	FetchOne(ctx context.Context, title string) (commons.Metadata, string, bool)
}

type Downloader interface {
	Download(ctx context.Context, url, dest string, onProgress func(pct int)) error
}

type Setter interface {
	SetWallpaper(path string) error
}

type Store interface {
	Load() (cache.Record, bool)
	Save(cache.Record) error
}

// Updater is not safe for concurrent use; callers run one cycle at a time.
type Updater struct {
	Fetcher    Fetcher
	Downloader Downloader
	Setter     Setter
	Store      Store

	// Dir receives downloaded wallpapers.
	Dir      string
	Category string
	Batch    int

	now  func() time.Time
	rand *rand.Rand
}

func New(dir string, f Fetcher, d Downloader, s Setter, st Store) *Updater {
	return &Updater{
		Fetcher:    f,
		Downloader: d,
		Setter:     s,
		Store:      st,
		Dir:        dir,
		Category:   config.Category,
		Batch:      config.DailyBatch,
		now:        time.Now,
		rand:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

type run struct {
	progress ProgressFunc
	result   log.UpdateResultData
	start    time.Time
}

func (r *run) report(step Step, pct int) {
	log.UpdateStep(string(step), pct)
	if r.progress != nil {
		r.progress(step, pct)
	}
}

func (r *run) finish(err error) error {
	r.result.OK = err == nil
	r.result.Err = err
	r.result.Elapsed = time.Since(r.start)
	log.UpdateResult(r.result)
	if err != nil {
		r.report(StepError, 0)
		return err
	}
	r.report(StepDone, 100)
	return nil
}

// Outcome says what a successful Update put on the desktop.
type Outcome int

const (
	// Applied means a newly selected image was downloaded and applied.
	Applied Outcome = iota
	// Reapplied means today's cached image was applied again.
	Reapplied
	// Fallback means no candidates qualified and the last cached file was
	// applied again.
	Fallback
)

func (r *run) done(err error) (Outcome, error) {
	if err := r.finish(err); err != nil {
		return Applied, err
	}
	switch {
	case r.result.Fallback:
		return Fallback, nil
	case r.result.Cached:
		return Reapplied, nil
	}
	return Applied, nil
}

// Update brings the desktop to today's image. Unless force is set, a cache
// record valid for today is re-applied without touching the network.
func (u *Updater) Update(ctx context.Context, force bool, progress ProgressFunc) (Outcome, error) {
	r := &run{progress: progress, start: time.Now()}
	log.UpdateStart(force)
	now := u.now()

	prev, hasPrev := u.Store.Load()
	if !force && hasPrev && prev.ValidFor(now) {
		r.result.Cached = true
		r.result.Seed = prev.Seed
		r.result.Title = prev.Title
		r.result.Path = prev.Path
		r.report(StepSetting, 90)
		if err := u.Setter.SetWallpaper(prev.Path); err != nil {
			return r.done(fmt.Errorf("%w: %w", ErrApply, err))
		}
		return r.done(nil)
	}

	r.report(StepFetching, 0)
	images := u.Fetcher.Fetch(ctx, u.Category, u.Batch)
	if len(images) == 0 {
		if !hasPrev || !prev.FileExists() {
			return r.done(ErrNoImages)
		}
		r.result.Fallback = true
		r.result.Seed = prev.Seed
		r.result.Title = prev.Title
		r.result.Path = prev.Path
		r.report(StepSetting, 90)
		if err := u.Setter.SetWallpaper(prev.Path); err != nil {
			return r.done(fmt.Errorf("%w: %w", ErrApply, err))
		}
		return r.done(nil)
	}

	r.report(StepSelecting, 15)
	seed := selector.DateSeed(now)
	if force {
		seed = selector.ForcedSeed(now)
	}
	img, ok := selector.Select(images, seed)
	if !ok {
		return r.done(ErrNoImages)
	}
	r.result.Seed = seed
	r.result.Title = img.Title

	dest := filepath.Join(u.Dir, fmt.Sprintf("wallpaper_%d%s", seed, Ext(img.URL)))
	r.result.Path = dest
	if err := u.fetchFile(ctx, r, img.URL, dest); err != nil {
		return r.done(err)
	}

	r.report(StepSetting, 90)
	if err := u.Setter.SetWallpaper(dest); err != nil {
		return r.done(fmt.Errorf("%w: %w", ErrApply, err))
	}

	rec := cache.Record{
		Path:           dest,
		Title:          img.Title,
		URL:            img.URL,
		DescriptionURL: img.DescriptionURL,
		Date:           cache.Stamp(now),
		Seed:           seed,
		Metadata:       metadataFor(img),
	}
	if err := u.Store.Save(rec); err != nil {
		// the wallpaper is applied; a lost record only costs a refetch
		log.Warnf("save cache: %v", err)
	}
	log.WallpaperApplied(img.Title, img.URL)
	return r.done(nil)
}

// ApplyRandom applies a uniformly random image from a batch of limit
// candidates. The cache is left alone so the next daily check restores the
// image of the day.
func (u *Updater) ApplyRandom(ctx context.Context, limit int, progress ProgressFunc) error {
	r := &run{progress: progress, start: time.Now()}
	log.UpdateStart(true)
	if limit <= 0 {
		limit = config.RandomBatch
	}

	r.report(StepFetching, 0)
	images := u.Fetcher.Fetch(ctx, u.Category, limit)

	r.report(StepSelecting, 15)
	img, ok := selector.Random(images, u.rand)
	if !ok {
		return r.finish(ErrNoImages)
	}
	r.result.Title = img.Title

	dest := filepath.Join(u.Dir, "wallpaper"+Ext(img.URL))
	r.result.Path = dest
	if err := u.fetchFile(ctx, r, img.URL, dest); err != nil {
		return r.finish(err)
	}

	r.report(StepSetting, 90)
	if err := u.Setter.SetWallpaper(dest); err != nil {
		return r.finish(fmt.Errorf("%w: %w", ErrApply, err))
	}
	log.WallpaperApplied(img.Title, img.URL)
	return r.finish(nil)
}

func (u *Updater) fetchFile(ctx context.Context, r *run, src, dest string) error {
	r.report(StepDownloading, 15)
	last := 15
	err := u.Downloader.Download(ctx, src, dest, func(pct int) {
		scaled := 15 + pct*70/100
		if scaled > last {
			last = scaled
			r.report(StepDownloading, scaled)
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	return nil
}

func metadataFor(img commons.Image) commons.Metadata {
	m := img.Metadata
	if m.Title == "" {
		m.Title = img.Title
	}
	return m
}

// Ext returns the file extension of a URL's path, or ".jpg" when it has none.
func Ext(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := path.Ext(p)
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return ".jpg"
	}
	return strings.ToLower(ext)
}
