package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"commonswall/cache"
	"commonswall/clipboard"
	"commonswall/commons"
	"commonswall/config"
	"commonswall/desktop"
	"commonswall/download"
	"commonswall/host"
	"commonswall/i18n"
	"commonswall/log"
	"commonswall/login"
	"commonswall/tray"
	"commonswall/updater"
)

type app struct {
	dir     string
	strings *i18n.Strings
	store   *cache.Store
	up      *updater.Updater

	mu       sync.Mutex
	settings config.Settings
}

func newApp(lang string) (*app, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := config.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	settings := config.LoadSettings(config.SettingsPath(dir))
	if lang == "" {
		lang = settings.Language
	}
	s, err := i18n.Load(lang)
	if err != nil {
		return nil, fmt.Errorf("load strings: %w", err)
	}
	store := cache.NewStore(config.CachePath(dir))
	up := updater.New(dir, commons.NewClient(""), download.NewClient(), desktop.System{}, store)
	log.Infof("data dir %s, language %s", dir, s.Language())
	return &app{
		dir:      dir,
		strings:  s,
		store:    store,
		up:       up,
		settings: settings,
	}, nil
}

func (a *app) labels() tray.Labels {
	t := a.strings.T
	return tray.Labels{
		Title:       t("app_title"),
		Change:      t("menu_change_wallpaper"),
		Downloading: t("menu_downloading"),
		Autostart:   t("menu_autostart"),
		Info:        t("menu_wallpaper_info"),
		ViewCommons: t("menu_view_commons"),
		CopyLink:    t("menu_copy_link"),
		OpenFolder:  t("menu_open_folder"),
		Quit:        t("menu_quit"),
	}
}

// runTray blocks until the user quits or ctx is cancelled.
func (a *app) runTray(ctx context.Context, headless bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := tray.New(headless)
	h := host.New(a.up, t, a.strings)
	h.Describe = a.describe
	h.RefreshTooltip(ctx)

	// the OS registration wins over a stale settings file
	autostart := login.Enabled()
	a.mu.Lock()
	if a.settings.Autostart != autostart {
		a.settings.Autostart = autostart
		a.saveSettingsLocked()
	}
	a.mu.Unlock()

	menu := tray.Menu{
		Labels:        a.labels(),
		Autostart:     autostart,
		OnChange:      func() { h.Trigger(true) },
		OnAutostart:   func(on bool) error { return a.setAutostart(t, on) },
		OnInfo:        func() { a.showInfo(ctx, t) },
		OnViewCommons: func() { a.openCommons(ctx) },
		OnCopyLink:    func() { a.copyLink(ctx, t) },
		OnOpenFolder:  a.openFolder,
		OnQuit:        cancel,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx)
	}()
	err := t.Run(ctx, menu)
	cancel()
	<-done
	return err
}

// describe is the hover text: the current title, read from the cache only.
func (a *app) describe(context.Context) string {
	rec, ok := a.store.Load()
	if !ok {
		return ""
	}
	title := rec.Metadata.Title
	if title == "" {
		title = rec.Title
	}
	return tray.Truncate(title, 60)
}

func (a *app) setAutostart(t tray.Tray, on bool) error {
	if err := login.Set(on); err != nil {
		log.Errorf("autostart %v: %v", on, err)
		return err
	}
	a.mu.Lock()
	a.settings.Autostart = on
	a.saveSettingsLocked()
	a.mu.Unlock()

	msg := a.strings.T("notify_autostart_off")
	if on {
		msg = a.strings.T("notify_autostart_on")
	}
	t.Notify(a.strings.T("app_name"), msg)
	return nil
}

func (a *app) saveSettingsLocked() {
	if err := config.SaveSettings(config.SettingsPath(a.dir), a.settings); err != nil {
		log.Warnf("save settings: %v", err)
	}
}

func (a *app) showInfo(ctx context.Context, t tray.Tray) {
	title := a.strings.T("info_wallpaper_info")
	info, ok := a.up.Info(ctx)
	if !ok {
		t.Notify(title, a.strings.T("info_no_wallpaper"))
		return
	}
	t.Notify(title, formatInfo(a.strings, info, 50))
}

func (a *app) openCommons(ctx context.Context) {
	target := config.CategoryURL
	if info, ok := a.up.Info(ctx); ok {
		target = info.PageURL
	}
	if err := desktop.Open(target); err != nil {
		log.Warnf("open %s: %v", target, err)
	}
}

func (a *app) copyLink(ctx context.Context, t tray.Tray) {
	info, ok := a.up.Info(ctx)
	if !ok {
		t.Notify(a.strings.T("app_name"), a.strings.T("info_no_wallpaper"))
		return
	}
	link := info.ImageURL
	if link == "" {
		link = info.PageURL
	}
	if err := clipboard.Copy(link); err != nil {
		log.Warnf("copy link: %v", err)
		return
	}
	t.Notify(a.strings.T("app_name"), a.strings.T("notify_link_copied"))
}

func (a *app) openFolder() {
	if err := desktop.OpenFolder(a.dir); err != nil {
		log.Warnf("open folder %s: %v", a.dir, err)
	}
}

type translator interface {
	T(id string) string
}

// formatInfo renders the info dialog text. titleMax > 0 truncates the title
// and the description gets a proportionally longer limit.
func formatInfo(tr translator, info updater.Info, titleMax int) string {
	unknown := tr.T("info_unknown")
	title := info.Title
	desc := info.Description
	if titleMax > 0 {
		title = tray.Truncate(title, titleMax)
		desc = tray.Truncate(desc, titleMax*8/5)
	}
	if title == "" {
		title = unknown
	}
	artist := strings.TrimSpace(info.Artist)
	if artist == "" {
		artist = unknown
	}
	license := info.License
	if license == "" {
		license = unknown
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", tr.T("info_title"), title)
	fmt.Fprintf(&b, "%s: %s\n", tr.T("info_description"), desc)
	fmt.Fprintf(&b, "%s: %s\n", tr.T("info_artist"), artist)
	fmt.Fprintf(&b, "%s: %s", tr.T("info_license"), license)
	return b.String()
}
