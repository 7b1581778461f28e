package tray

import (
	"context"
	"sync"

	"fyne.io/systray"

	"commonswall/desktop"
	"commonswall/log"
)

// Systray drives the OS notification area. Run must be called from the
// main goroutine.
type Systray struct {
	mu        sync.Mutex
	ready     bool
	busy      bool
	autostart bool
	tooltip   string
	labels    Labels

	mChange *systray.MenuItem
	mAuto   *systray.MenuItem
}

func NewSystray() *Systray { return &Systray{} }

func (s *Systray) Run(ctx context.Context, m Menu) error {
	s.mu.Lock()
	s.labels = m.Labels
	s.autostart = m.Autostart
	s.mu.Unlock()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			systray.Quit()
		case <-stop:
		}
	}()
	systray.Run(func() { s.onReady(m, stop) }, nil)
	close(stop)
	return nil
}

func (s *Systray) onReady(m Menu, stop <-chan struct{}) {
	systray.SetIcon(iconData())

	s.mu.Lock()
	tooltip := s.tooltip
	if tooltip == "" {
		tooltip = m.Labels.Title
	}
	systray.SetTooltip(tooltip)

	mChange := systray.AddMenuItem(m.Labels.Change, m.Labels.Change)
	mAuto := systray.AddMenuItemCheckbox(m.Labels.Autostart, m.Labels.Autostart, s.autostart)
	systray.AddSeparator()
	mInfo := systray.AddMenuItem(m.Labels.Info, m.Labels.Info)
	mView := systray.AddMenuItem(m.Labels.ViewCommons, m.Labels.ViewCommons)
	mCopy := systray.AddMenuItem(m.Labels.CopyLink, m.Labels.CopyLink)
	mFolder := systray.AddMenuItem(m.Labels.OpenFolder, m.Labels.OpenFolder)
	systray.AddSeparator()
	mQuit := systray.AddMenuItem(m.Labels.Quit, m.Labels.Quit)

	s.mChange = mChange
	s.mAuto = mAuto
	s.ready = true
	s.applyBusy()
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-mChange.ClickedCh:
				go call(m.OnChange)
			case <-mAuto.ClickedCh:
				go s.toggleAutostart(m.OnAutostart)
			case <-mInfo.ClickedCh:
				go call(m.OnInfo)
			case <-mView.ClickedCh:
				go call(m.OnViewCommons)
			case <-mCopy.ClickedCh:
				go call(m.OnCopyLink)
			case <-mFolder.ClickedCh:
				go call(m.OnOpenFolder)
			case <-mQuit.ClickedCh:
				call(m.OnQuit)
				systray.Quit()
				return
			case <-stop:
				return
			}
		}
	}()
}

func (s *Systray) toggleAutostart(fn func(bool) error) {
	s.mu.Lock()
	want := !s.autostart
	s.mu.Unlock()
	if fn != nil {
		if err := fn(want); err != nil {
			log.Warnf("tray: autostart toggle: %v", err)
			return
		}
	}
	s.SetAutostart(want)
}

func (s *Systray) SetTooltip(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tooltip = text
	if s.ready {
		systray.SetTooltip(text)
	}
}

func (s *Systray) Notify(title, msg string) {
	go func() {
		if err := desktop.Notify(title, msg); err != nil {
			log.Warnf("tray: notify: %v", err)
		}
	}()
}

func (s *Systray) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
	if s.ready {
		s.applyBusy()
	}
}

// applyBusy expects s.mu held.
func (s *Systray) applyBusy() {
	if s.busy {
		s.mChange.SetTitle(s.labels.Downloading)
		s.mChange.Disable()
		return
	}
	s.mChange.SetTitle(s.labels.Change)
	s.mChange.Enable()
}

func (s *Systray) SetAutostart(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autostart = on
	if !s.ready {
		return
	}
	if on {
		s.mAuto.Check()
	} else {
		s.mAuto.Uncheck()
	}
}
