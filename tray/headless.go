package tray

import (
	"context"
	"sync"

	"commonswall/log"
)

// Headless satisfies Tray without a desktop. Notifications go to the log.
type Headless struct {
	mu        sync.Mutex
	tooltip   string
	busy      bool
	autostart bool
}

func NewHeadless() *Headless { return &Headless{} }

func (h *Headless) Run(ctx context.Context, m Menu) error {
	h.mu.Lock()
	h.autostart = m.Autostart
	h.mu.Unlock()
	log.Info("tray: headless, waiting for shutdown")
	<-ctx.Done()
	return nil
}

func (h *Headless) SetTooltip(text string) {
	h.mu.Lock()
	h.tooltip = text
	h.mu.Unlock()
}

func (h *Headless) Notify(title, msg string) {
	log.Infof("notify: %s: %s", title, msg)
}

func (h *Headless) SetBusy(busy bool) {
	h.mu.Lock()
	h.busy = busy
	h.mu.Unlock()
}

func (h *Headless) SetAutostart(on bool) {
	h.mu.Lock()
	h.autostart = on
	h.mu.Unlock()
}

// Tooltip returns the last hover text.
func (h *Headless) Tooltip() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tooltip
}

func (h *Headless) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}
