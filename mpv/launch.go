package mpv

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/user/audio-trim-cli/deps"
	"github.com/user/audio-trim-cli/pkg/timeutil"
)

// previewArgs plays only the range, audio only, and exits at its end.
func previewArgs(audioPath string, r timeutil.Range) []string {
	return []string{
		"--no-video",
		"--keep-open=no",
		"--term-osd-bar",
		fmt.Sprintf("--start=%.3f", r.Start.Seconds()),
		fmt.Sprintf("--end=%.3f", r.End.Seconds()),
		audioPath,
	}
}

// Preview plays the range of audioPath in mpv and waits for playback to end.
// It checks that mpv is installed first and returns an error with install link if not.
func Preview(ctx context.Context, mpvPath, audioPath string, r timeutil.Range) error {
	bin, err := deps.Mpv(mpvPath).Check()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, bin, previewArgs(audioPath, r)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mpv failed: %w", err)
	}
	return nil
}
