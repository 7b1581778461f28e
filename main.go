package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"commonswall/config"
	"commonswall/doctor"
	"commonswall/log"
	"commonswall/shutdown"
	"commonswall/updater"
)

var version = "dev"

var (
	onceFlag     bool
	randomFlag   bool
	countFlag    int
	forceFlag    bool
	headlessFlag bool
	logPathFlag  string
	langFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "commonswall",
	Short: "Daily Wikimedia Commons desktop wallpaper",
	Long: `Sets the desktop background to a featured widescreen image from Wikimedia
Commons. Every install picks the same image on the same day. Without flags it
stays in the system tray and changes the wallpaper when the date rolls over.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		dir, err := config.Dir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		code := doctor.Run(cmd.Context(), doctor.Options{Dir: dir, Out: cmd.OutOrStdout()})
		if code != 0 {
			log.Close()
			os.Exit(code)
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current wallpaper",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(langFlag)
		if err != nil {
			return err
		}
		info, ok := a.up.Info(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), a.strings.T("info_no_wallpaper"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatInfo(a.strings, info, 0))
		fmt.Fprintln(cmd.OutOrStdout(), info.PageURL)
		if info.Path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), info.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&onceFlag, "once", false, "Update the wallpaper once and exit")
	rootCmd.Flags().BoolVarP(&randomFlag, "random", "r", false, "Apply a random image instead of the image of the day (implies --once)")
	rootCmd.Flags().IntVarP(&countFlag, "count", "n", config.RandomBatch, "Number of candidates to fetch for --random")
	rootCmd.Flags().BoolVar(&forceFlag, "force", false, "Pick a new image even if today's is already applied (with --once)")
	rootCmd.Flags().BoolVar(&headlessFlag, "headless", false, "Run without a tray icon")
	rootCmd.PersistentFlags().StringVar(&logPathFlag, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "UI language: en, ja, zh-Hans, zh-Hant (default: system language)")

	rootCmd.AddCommand(doctorCmd, infoCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	logPath, err := log.ResolveDir(logPathFlag)
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return nil
	}
	initCrashLog()
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if countFlag <= 0 {
		return fmt.Errorf("--count must be positive, got %d", countFlag)
	}
	a, err := newApp(langFlag)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch {
	case randomFlag:
		log.SessionStart("random", version)
		return runWithProgress(ctx, a.strings, func(ctx context.Context, p updater.ProgressFunc) error {
			return a.up.ApplyRandom(ctx, countFlag, p)
		})
	case onceFlag:
		log.SessionStart("once", version)
		return runWithProgress(ctx, a.strings, func(ctx context.Context, p updater.ProgressFunc) error {
			out, err := a.up.Update(ctx, forceFlag, p)
			if err == nil && out == updater.Fallback {
				fmt.Fprintln(os.Stderr, a.strings.T("progress_fallback"))
			}
			return err
		})
	default:
		log.SessionStart("tray", version)
		return a.runTray(ctx, headlessFlag)
	}
}

func main() {
	ctx, stop := shutdown.Context(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	log.Close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
