package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/user/audio-trim-cli/config"
	"github.com/user/audio-trim-cli/deps"
	"github.com/user/audio-trim-cli/logger"
	"github.com/user/audio-trim-cli/mpv"
	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/trim"
	"github.com/user/audio-trim-cli/tui/styles"
	"go.uber.org/zap"
)

var Version = "0.1.0"

// Swapped out in tests.
var (
	loadConfig = config.Load

	newTrimmer = func(cfg *config.Config, log *zap.Logger) *trim.Trimmer {
		return &trim.Trimmer{
			Prober: audio.ChainProber{
				audio.NativeProber{},
				audio.NewFFprobeProber(cfg.FFprobePath, log),
			},
			Exporter: audio.NewFFmpegExporter(cfg.FFmpegPath, log),
			Log:      log,
		}
	}

	previewRange = mpv.Preview

	stdinIsTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

// app is the state shared by every command once flags are parsed.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	trimmer *trim.Trimmer

	logLevel string
	logFile  string
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = loadConfig()
	if cmd.Flags().Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		a.cfg.LogFile = a.logFile
	}

	log, err := logger.New(logger.Config{
		Level:      logger.LogLevel(a.cfg.LogLevel),
		OutputPath: a.cfg.LogFile,
		Console:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.log = log
	a.trimmer = newTrimmer(a.cfg, log)
	return nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "audio-trim [audio-file]",
		Short: "Trim an audio file to a time range",
		Long: `audio-trim extracts a clip from an audio file between two timestamps
and saves it next to the original, keeping the original format.
Decoding and encoding are done by ffmpeg.

Timestamp formats:
  MM:SS         1:30       (1 minute 30 seconds)
  HH:MM:SS      0:01:30
  seconds       90, 90.5s
  milliseconds  5000ms

A bare number is read as seconds. When that would run past the end of the
file but the number fits as milliseconds, it is read as milliseconds
(on a 2:05 file, "90" is 1:30 and "45000" is 0:45).

Anything not given as a flag is prompted for when run in a terminal.
An empty start means the beginning; an empty end means the end of the file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrim(cmd, a, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON diagnostics to this rotating log file")
	addTrimFlags(rootCmd)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDoctorCmd(a))
	rootCmd.AddCommand(newProbeCmd(a))
	rootCmd.AddCommand(newPreviewCmd(a))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "audio-trim version %s\n", Version)
		},
	}
}

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system dependencies",
		Long:  `Check that the external tools (ffmpeg, ffprobe, and optionally mpv for previews) are installed and available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking dependencies...")
			fmt.Fprintln(out)

			required := []deps.Tool{deps.Ffmpeg(a.cfg.FFmpegPath), deps.Ffprobe(a.cfg.FFprobePath)}
			missing := 0
			for _, tool := range required {
				if path, err := tool.Check(); err != nil {
					fmt.Fprintln(out, styles.Warning.Render("✗ "+tool.Name+": NOT FOUND"))
					fmt.Fprintf(out, "  Install from: %s\n", tool.InstallURL)
					missing++
				} else {
					fmt.Fprintln(out, styles.Success.Render("✓ "+tool.Name+": OK")+" "+styles.Label.Render(path))
				}
			}

			mpvTool := deps.Mpv(a.cfg.MpvPath)
			if _, err := mpvTool.Check(); err != nil {
				fmt.Fprintln(out, styles.Hint.Render("- mpv: not found (only needed for 'preview')"))
				fmt.Fprintf(out, "  Install from: %s\n", mpvTool.InstallURL)
			} else {
				fmt.Fprintln(out, styles.Success.Render("✓ mpv: OK"))
			}

			fmt.Fprintln(out)
			if missing > 0 {
				return fmt.Errorf("%d required dependencies missing", missing)
			}
			fmt.Fprintln(out, "All dependencies are installed!")
			return nil
		},
	}
}

// Execute runs the CLI and exits with a code identifying the failing stage.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Warning.Render("✗ "+trim.Stage(err)+":")+" "+err.Error())
		os.Exit(trim.ExitCode(err))
	}
}
