package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath   = "~/.config/doit/config.toml"
	defaultAddr         = ":8080"
	defaultReportTitle  = "DoIt. Daily Report"
	defaultReportBucket = "reports"
)

// SeedTask is a task the guest store starts with.
type SeedTask struct {
	Text      string `toml:"text"`
	Completed bool   `toml:"completed"`
	Category  string `toml:"category"`
}

// Settings holds everything the application reads from the config file and
// the environment. Environment values win over the file.
type Settings struct {
	Addr            string
	SupabaseURL     string
	SupabaseKey     string
	JWTSecret       string
	ReportTitle     string
	ReportBucket    string
	DefaultCategory string
	Seed            []SeedTask

	// RefreshToken resumes a saved session at startup. Environment only.
	RefreshToken string
}

// HasRemote reports whether a Supabase project is configured.
func (s Settings) HasRemote() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}

// LoadSettings reads the TOML config at path (or DOIT_CONFIG, or the default
// location) and applies environment overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv("DOIT_CONFIG")
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Addr:         defaultAddr,
		ReportTitle:  defaultReportTitle,
		ReportBucket: defaultReportBucket,
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		Logger.Debug("No config file at ", resolved, ", using defaults")
	case err != nil:
		return Settings{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := decodeSettings(file, &s); err != nil {
			return Settings{}, err
		}
	}

	applyEnv(&s)
	return s, nil
}

func decodeSettings(r io.Reader, s *Settings) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Addr            string `toml:"addr"`
		DefaultCategory string `toml:"default_category"`
		Supabase        struct {
			URL string `toml:"url"`
			Key string `toml:"key"`
		} `toml:"supabase"`
		Report struct {
			Title  string `toml:"title"`
			Bucket string `toml:"bucket"`
		} `toml:"report"`
		Seed []SeedTask `toml:"seed"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Addr); v != "" {
		s.Addr = v
	}
	if v := strings.TrimSpace(raw.Report.Title); v != "" {
		s.ReportTitle = v
	}
	if v := strings.TrimSpace(raw.Report.Bucket); v != "" {
		s.ReportBucket = v
	}
	s.SupabaseURL = strings.TrimSpace(raw.Supabase.URL)
	s.SupabaseKey = strings.TrimSpace(raw.Supabase.Key)
	s.DefaultCategory = raw.DefaultCategory
	s.Seed = raw.Seed
	return nil
}

func applyEnv(s *Settings) {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&s.Addr, "DOIT_ADDR")
	override(&s.SupabaseURL, "SUPABASE_URL")
	override(&s.SupabaseKey, "SUPABASE_KEY")
	override(&s.JWTSecret, "SUPABASE_JWT_SECRET")
	override(&s.ReportBucket, "DOIT_REPORT_BUCKET")
	override(&s.RefreshToken, "DOIT_REFRESH_TOKEN")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
