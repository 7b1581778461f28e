package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	diagFileName    = "diagnostics_log.txt"
	historyFileName = "wallpaper_history.txt"
)

var (
	diagLog     zerolog.Logger
	diagFile    *os.File
	historyFile *os.File
	logMu       sync.Mutex
	logReady    bool
	pid         int
	dir         string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: --logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: COMMONSWALL_LOG_PATH environment variable
	envPath := os.Getenv("COMMONSWALL_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagFile, err = os.OpenFile(filepath.Join(dir, diagFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	historyFile, err = os.OpenFile(filepath.Join(dir, historyFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if historyFile != nil {
		historyFile.Close()
		historyFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(mode, version string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", mode).
		Str("version", version).
		Msg("session_start")
}

func UpdateStart(force bool) {
	if !logReady {
		return
	}
	diagLog.Info().Bool("force", force).Msg("update_start")
}

func UpdateStep(step string, pct int) {
	if !logReady {
		return
	}
	diagLog.Debug().Str("step", step).Int("pct", pct).Msg("update_step")
}

type UpdateResultData struct {
	OK       bool
	Cached   bool
	Fallback bool
	Seed     int64
	Title    string
	Path     string
	Err      error
	Elapsed  time.Duration
}

func UpdateResult(r UpdateResultData) {
	if !logReady {
		return
	}
	ev := diagLog.Info()
	if !r.OK {
		ev = diagLog.Warn()
	}
	if r.Err != nil {
		ev = ev.Err(r.Err)
	}
	ev.Bool("ok", r.OK).
		Bool("cached", r.Cached).
		Bool("fallback", r.Fallback).
		Int64("seed", r.Seed).
		Str("title", r.Title).
		Str("path", r.Path).
		Float64("elapsed_ms", float64(r.Elapsed.Microseconds())/1000).
		Msg("update_result")
}

func FetchResult(category string, returned, kept, attempts int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("category", category).
		Int("returned", returned).
		Int("kept", kept).
		Int("attempts", attempts).
		Msg("fetch_result")
}

func DownloadResult(url string, bytes int64, attempts int, elapsed time.Duration, err error) {
	if !logReady {
		return
	}
	ev := diagLog.Info()
	if err != nil {
		ev = diagLog.Warn().Err(err)
	}
	ev.Str("url", url).
		Float64("size_kb", float64(bytes)/1024).
		Int("attempts", attempts).
		Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Msg("download_result")
}

// WallpaperApplied appends one line per applied wallpaper to the history file.
func WallpaperApplied(title, url string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, title, url)
	historyFile.WriteString(line)
}
