// Package host runs wallpaper updates in the background: once at startup,
// whenever the local date rolls over, and on demand from the tray.
package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commonswall/config"
	"commonswall/log"
	"commonswall/tray"
	"commonswall/updater"
)

type Updater interface {
	Update(ctx context.Context, force bool, progress updater.ProgressFunc) (updater.Outcome, error)
}

type Translator interface {
	T(id string) string
}

type job struct {
	force bool
}

// Host serializes every update through one worker. It is constructed once
// and owns the state the poller needs between cycles.
type Host struct {
	up   Updater
	tray tray.Tray
	tr   Translator

	// Describe returns the hover text for the current wallpaper.
	Describe func(ctx context.Context) string

	jobs     chan job
	now      func() time.Time
	interval time.Duration
	retry    time.Duration

	mu       sync.Mutex
	lastDate string
	failedAt time.Time
	busy     bool
}

func New(up Updater, t tray.Tray, tr Translator) *Host {
	return &Host{
		up:       up,
		tray:     t,
		tr:       tr,
		jobs:     make(chan job, 1),
		now:      time.Now,
		interval: config.CheckInterval,
		retry:    config.RetryInterval,
	}
}

// Trigger queues a cycle. It never blocks; a request arriving while one is
// already queued is dropped and false is returned.
func (h *Host) Trigger(force bool) bool {
	select {
	case h.jobs <- job{force: force}:
		return true
	default:
		log.Infof("host: update already queued, dropping (force=%v)", force)
		return false
	}
}

// Run is the worker loop. It returns when ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	h.Trigger(false)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-h.jobs:
			h.run(ctx, j)
		case <-ticker.C:
			if h.due(h.now()) {
				h.run(ctx, job{})
			}
		}
	}
}

// due reports whether the date has moved past the last successful cycle.
// Failed attempts are retried no more often than the retry interval.
func (h *Host) due(now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastDate == day(now) {
		return false
	}
	return h.failedAt.IsZero() || now.Sub(h.failedAt) >= h.retry
}

func (h *Host) run(ctx context.Context, j job) {
	h.mu.Lock()
	h.busy = true
	h.mu.Unlock()

	var progress updater.ProgressFunc
	if j.force {
		h.tray.SetBusy(true)
		progress = h.showProgress
	}

	// the cycle picks its image for the date it started on
	start := h.now()
	out, err := h.up.Update(ctx, j.force, progress)

	h.mu.Lock()
	h.busy = false
	if err == nil {
		h.lastDate = day(start)
		h.failedAt = time.Time{}
	} else {
		h.failedAt = h.now()
	}
	h.mu.Unlock()

	if err != nil {
		log.Errorf("update (force=%v): %v", j.force, err)
	}
	if j.force {
		h.tray.SetBusy(false)
		switch {
		case err != nil:
			h.tray.Notify(h.tr.T("progress_error"), err.Error())
		case out == updater.Fallback:
			h.tray.Notify(h.tr.T("progress_fallback"), h.tr.T("app_name"))
		default:
			h.tray.Notify(h.tr.T("progress_done"), h.tr.T("app_name"))
		}
	}
	h.RefreshTooltip(ctx)
}

func (h *Host) showProgress(step updater.Step, pct int) {
	text := h.tr.T("progress_" + string(step))
	if step != updater.StepDone && step != updater.StepError {
		text = fmt.Sprintf("%s %d%%", text, pct)
	}
	h.tray.SetTooltip(text)
}

// RefreshTooltip resets the hover text to the current wallpaper.
func (h *Host) RefreshTooltip(ctx context.Context) {
	text := ""
	if h.Describe != nil {
		text = h.Describe(ctx)
	}
	if text == "" {
		text = h.tr.T("app_title")
	}
	h.tray.SetTooltip(text)
}

// LastDate is the local date of the last successful cycle, or "".
func (h *Host) LastDate() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastDate
}

func (h *Host) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
