package config

import (
	"os"
	"time"
)

// Server captures process-level configuration so main stays lean. Pipeline
// thresholds live in internal/activity/config, not here.
type Server struct {
	Addr           string
	DatabaseURL    string
	RedisURL       string
	TranscriberURL string
	ExtractorURL   string
	AudioDir       string
}

// ShutdownTimeout bounds graceful shutdown.
var ShutdownTimeout = 10 * time.Second

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("AGRILOG_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	audioDir := os.Getenv("AGRILOG_AUDIO_DIR")
	if audioDir == "" {
		audioDir = os.TempDir()
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		TranscriberURL: os.Getenv("TRANSCRIBER_URL"),
		ExtractorURL:   os.Getenv("EXTRACTOR_URL"),
		AudioDir:       audioDir,
	}
}
