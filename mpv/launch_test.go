package mpv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/audio-trim-cli/deps"
	"github.com/user/audio-trim-cli/pkg/timeutil"
)

func TestPreviewArgs(t *testing.T) {
	args := previewArgs("song.mp3", timeutil.Range{Start: 10000, End: 62500})
	assert.Equal(t, []string{
		"--no-video",
		"--keep-open=no",
		"--term-osd-bar",
		"--start=10.000",
		"--end=62.500",
		"song.mp3",
	}, args)
}

func TestPreviewMissingMpv(t *testing.T) {
	err := Preview(context.Background(), "/nonexistent/mpv", "song.mp3", timeutil.Range{Start: 0, End: 1000})

	var depErr *deps.DependencyError
	assert.True(t, errors.As(err, &depErr))
	assert.Equal(t, deps.MpvInstallURL, depErr.InstallURL)
}
