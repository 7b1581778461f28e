// Package doctor runs environment diagnostics for the wallpaper service.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"commonswall/cache"
	"commonswall/clipboard"
	"commonswall/commons"
	"commonswall/config"
	"commonswall/desktop"
	"commonswall/tray"
)

type Options struct {
	Dir      string
	Endpoint string
	Out      io.Writer
}

type check struct {
	name string
	run  func(ctx context.Context, o Options) (string, error)
	// soft checks print WARN instead of FAIL and do not affect the exit code.
	soft bool
}

var checks = []check{
	{name: "Data directory", run: checkDir},
	{name: "Commons API", run: checkAPI},
	{name: "Wallpaper setter", run: checkSetter},
	{name: "Tray session", run: checkTray, soft: true},
	{name: "Clipboard", run: checkClipboard, soft: true},
}

// Run executes every check and returns an exit code (0=all pass, 1=any fail).
func Run(ctx context.Context, o Options) int {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	fmt.Fprintln(o.Out, "commonswall doctor - system diagnostics")
	fmt.Fprintln(o.Out, "=======================================")

	allPass := true
	for i, c := range checks {
		fmt.Fprintf(o.Out, "\n[%d/%d] %s\n", i+1, len(checks), c.name)
		msg, err := c.run(ctx, o)
		switch {
		case err == nil:
			fmt.Fprintf(o.Out, "  PASS: %s\n", msg)
		case c.soft:
			fmt.Fprintf(o.Out, "  WARN: %v\n", err)
		default:
			fmt.Fprintf(o.Out, "  FAIL: %v\n", err)
			allPass = false
		}
	}

	printCache(o)

	fmt.Fprintln(o.Out)
	if allPass {
		fmt.Fprintln(o.Out, "All checks passed!")
		return 0
	}
	fmt.Fprintln(o.Out, "Some checks failed. See details above.")
	return 1
}

func checkDir(_ context.Context, o Options) (string, error) {
	if err := config.EnsureDir(o.Dir); err != nil {
		return "", fmt.Errorf("create %s: %w", o.Dir, err)
	}
	f, err := os.CreateTemp(o.Dir, ".doctor-*")
	if err != nil {
		return "", fmt.Errorf("%s not writable: %w", o.Dir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return o.Dir + " is writable", nil
}

func checkAPI(ctx context.Context, o Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()
	images := commons.NewClient(o.Endpoint).Fetch(ctx, config.Category, 20)
	if len(images) == 0 {
		return "", fmt.Errorf("no qualifying images returned (offline or API unreachable?)")
	}
	return fmt.Sprintf("%d qualifying images in the first 20 category members", len(images)), nil
}

func checkSetter(context.Context, Options) (string, error) {
	if err := desktop.Available(); err != nil {
		return "", err
	}
	return "wallpaper backend available", nil
}

func checkTray(context.Context, Options) (string, error) {
	if !tray.HasDisplay() {
		return "", fmt.Errorf("no graphical session; the tray will run headless")
	}
	return "graphical session detected", nil
}

// checkClipboard round-trips a marker through the clipboard. Clipboard
// helpers can hang without a compositor, so the check is bounded.
func checkClipboard(context.Context, Options) (string, error) {
	marker := fmt.Sprintf("commonswall-doctor-%d", time.Now().UnixNano())
	type result struct {
		got   string
		err   error
		phase string
	}
	ch := make(chan result, 1)
	go func() {
		prev, _ := clipboard.Read()
		defer clipboard.Copy(prev)
		if err := clipboard.Copy(marker); err != nil {
			ch <- result{err: err, phase: "write"}
			return
		}
		got, err := clipboard.Read()
		ch <- result{got: got, err: err, phase: "read"}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("clipboard %s failed: %w", r.phase, r.err)
		}
		if r.got != marker {
			return "", fmt.Errorf("clipboard mismatch: wrote %q, got %q", marker, r.got)
		}
		return "clipboard write/read verified", nil
	case <-time.After(3 * time.Second):
		return "", fmt.Errorf("clipboard timed out")
	}
}

func printCache(o Options) {
	fmt.Fprintln(o.Out)
	rec, ok := cache.NewStore(config.CachePath(o.Dir)).Load()
	if !ok {
		fmt.Fprintln(o.Out, "Current wallpaper: none recorded")
		return
	}
	fmt.Fprintf(o.Out, "Current wallpaper: %s\n", rec.Title)
	fmt.Fprintf(o.Out, "  selected: %s (seed %d)\n", rec.Date, rec.Seed)
	state := "present"
	if !rec.FileExists() {
		state = "missing"
	}
	fmt.Fprintf(o.Out, "  file: %s (%s)\n", filepath.Clean(rec.Path), state)
	if rec.ValidFor(time.Now()) {
		fmt.Fprintln(o.Out, "  valid for today: yes")
	} else {
		fmt.Fprintln(o.Out, "  valid for today: no")
	}
}
