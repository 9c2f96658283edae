package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/audio-trim-cli/pkg/audio"
	"github.com/user/audio-trim-cli/pkg/timeutil"
	"github.com/user/audio-trim-cli/tui"
	"github.com/user/audio-trim-cli/tui/forms"
	"github.com/user/audio-trim-cli/tui/styles"
)

// errCanceled is returned when the user declines to overwrite the output.
var errCanceled = errors.New("canceled")

func addTrimFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("start", "s", "", "Start timestamp (empty for the beginning)")
	cmd.Flags().StringP("end", "e", "", "End timestamp (empty for the end of the file)")
	cmd.Flags().StringP("output", "o", "", "Output file (default <name>_trimmed.<ext> next to the input)")
	cmd.Flags().BoolP("yes", "y", false, "Do not prompt; use defaults for anything not given")
	cmd.Flags().BoolP("force", "f", false, "Overwrite the output file if it exists")
}

func runTrim(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	yes, _ := cmd.Flags().GetBool("yes")
	force, _ := cmd.Flags().GetBool("force")
	interactive := !yes && stdinIsTerminal()

	// Get input file
	var inputPath string
	if len(args) > 0 {
		inputPath = args[0]
	} else if interactive {
		if err := forms.NewInputPathForm(&inputPath).Run(); err != nil {
			return err
		}
	}

	src, err := a.trimmer.Open(ctx, inputPath)
	if err != nil {
		return err
	}

	if interactive {
		fmt.Fprintln(out, styles.Header.Render("Audio Trimmer"))
		fmt.Fprintln(out, styles.Field("File", filepath.Base(src.Path)))
		fmt.Fprintln(out, styles.Field("Total duration", src.Duration.String()))
		fmt.Fprintln(out)
	}

	// Flags win; anything missing is prompted for or defaulted.
	var inputs forms.TrimFormResult
	inputs.Start, _ = cmd.Flags().GetString("start")
	inputs.End, _ = cmd.Flags().GetString("end")
	inputs.Output, _ = cmd.Flags().GetString("output")

	if interactive {
		opts := forms.TrimFormOptions{
			Input:    src.Path,
			Duration: src.Duration,
			AskStart: !cmd.Flags().Changed("start"),
			AskEnd:   !cmd.Flags().Changed("end"),
			AskOut:   !cmd.Flags().Changed("output"),
		}
		if opts.AskStart || opts.AskEnd || opts.AskOut {
			if err := forms.NewTrimForm(opts, &inputs).Run(); err != nil {
				return err
			}
		}
	}

	job, err := a.trimmer.Plan(src, inputs.Start, inputs.End, inputs.Output)
	if err != nil {
		return err
	}

	if job.OutputExists() && !force {
		if !interactive {
			return &audio.ExportError{Op: "export", Path: job.Output, Kind: audio.DestinationUnwritable, Err: fmt.Errorf("%w (use --force to overwrite)", audio.ErrOutputExists)}
		}
		overwrite := false
		if err := forms.NewConfirmOverwriteForm(job.Output, &overwrite).Run(); err != nil {
			return err
		}
		if !overwrite {
			return errCanceled
		}
	}

	fmt.Fprintf(out, "Extracting %s from %s to %s\n",
		styles.Value.Render(job.Range.Length().String()),
		styles.Value.Render(job.Range.Start.String()),
		styles.Value.Render(job.Range.End.String()),
	)

	run := func(ctx context.Context) error { return a.trimmer.Run(ctx, job) }
	if interactive {
		err = tui.RunExport(ctx, cmd.ErrOrStderr(), "Exporting with ffmpeg...", run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, styles.Success.Render("✓ File saved as: ")+job.Output)
	fmt.Fprintln(out, styles.Field("Duration", job.Range.Length().String()))
	return nil
}

func newPreviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <audio-file>",
		Short: "Play a time range in mpv before trimming",
		Long:  `Play the selected range of an audio file in mpv. Timestamps use the same formats as the trim command.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.trimmer.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			r, err := timeutil.ResolveRange(start, end, src.Duration)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s (%s)\n", filepath.Base(src.Path), r)
			return previewRange(cmd.Context(), a.cfg.MpvPath, src.Path, r)
		},
	}
	cmd.Flags().StringP("start", "s", "", "Start timestamp (empty for the beginning)")
	cmd.Flags().StringP("end", "e", "", "End timestamp (empty for the end of the file)")
	return cmd
}

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <audio-file>",
		Short: "Print an audio file's format and duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.trimmer.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.Field("File", src.Path))
			fmt.Fprintln(out, styles.Field("Format", src.Format))
			fmt.Fprintln(out, styles.Field("Duration", fmt.Sprintf("%s (%s, %dms)", src.Duration, timeutil.FormatTime(src.Duration.Seconds()), int64(src.Duration))))
			return nil
		},
	}
}
