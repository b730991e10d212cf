package config

import (
	"github.com/joho/godotenv"
)

// LoadEnv loads .env style files into the process environment. Variables
// already set are never overwritten. With no arguments ".env" is used.
// The error is returned rather than logged so the caller can report it once
// the logger is configured.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}
