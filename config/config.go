package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Command-line flags override
// these values.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	MpvPath     string
	LogLevel    string
	LogFile     string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// Load loads configuration from environment variables (via an optional .env
// file in the working directory) or defaults. godotenv does not override
// variables that are already set.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() *Config {
	return &Config{
		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),
		MpvPath:     getEnv("MPV_PATH", "mpv"),
		LogLevel:    getEnv("AUDIO_TRIM_LOG_LEVEL", "warn"),
		LogFile:     getEnv("AUDIO_TRIM_LOG_FILE", ""),
	}
}
