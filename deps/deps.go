package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	Path       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	if e.Path != "" && e.Path != e.Name {
		return fmt.Sprintf("%s not found at %s. Install from: %s", e.Name, e.Path, e.InstallURL)
	}
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Tool is an external program the CLI shells out to.
type Tool struct {
	Name       string
	Path       string
	InstallURL string
}

// Check resolves the tool in PATH (or at its explicit path) and returns the
// executable location.
func (t Tool) Check() (string, error) {
	path := t.Path
	if path == "" {
		path = t.Name
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", &DependencyError{
			Name:       t.Name,
			Path:       path,
			InstallURL: t.InstallURL,
		}
	}
	return resolved, nil
}

// Ffmpeg describes the ffmpeg binary, optionally at a configured path.
func Ffmpeg(path string) Tool {
	return Tool{Name: "ffmpeg", Path: path, InstallURL: FfmpegInstallURL}
}

// Ffprobe describes the ffprobe binary. It ships with ffmpeg.
func Ffprobe(path string) Tool {
	return Tool{Name: "ffprobe", Path: path, InstallURL: FfmpegInstallURL}
}

// Mpv describes the mpv player used for previews.
func Mpv(path string) Tool {
	return Tool{Name: "mpv", Path: path, InstallURL: MpvInstallURL}
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll(tools ...Tool) []error {
	var errors []error

	for _, t := range tools {
		if _, err := t.Check(); err != nil {
			errors = append(errors, err)
		}
	}

	return errors
}
