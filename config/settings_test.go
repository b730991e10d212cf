package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DOIT_ADDR", "DOIT_CONFIG", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_JWT_SECRET", "DOIT_REPORT_BUCKET", "DOIT_REFRESH_TOKEN"} {
		t.Setenv(key, "")
	}
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, defaultAddr, s.Addr)
	assert.Equal(t, defaultReportTitle, s.ReportTitle)
	assert.Equal(t, defaultReportBucket, s.ReportBucket)
	assert.False(t, s.HasRemote())
	assert.Empty(t, s.Seed)
}

func TestLoadSettings_ParsesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = " 127.0.0.1:9000 "
default_category = "Work"

[supabase]
url = "https://example.supabase.co"
key = "anon"

[report]
title = "Weekly"

[[seed]]
text = "Water plants"
category = "Personal"

[[seed]]
text = "Ship release"
completed = true
category = "Work"
`), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", s.Addr)
	assert.Equal(t, "Work", s.DefaultCategory)
	assert.Equal(t, "Weekly", s.ReportTitle)
	assert.Equal(t, defaultReportBucket, s.ReportBucket)
	assert.True(t, s.HasRemote())
	require.Len(t, s.Seed, 2)
	assert.Equal(t, SeedTask{Text: "Ship release", Completed: true, Category: "Work"}, s.Seed[1])
}

func TestLoadSettings_EnvironmentWins(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = \":7000\"\n"), 0o600))

	t.Setenv("DOIT_ADDR", ":7100")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_KEY", "env-key")
	t.Setenv("DOIT_REPORT_BUCKET", "exports")
	t.Setenv("DOIT_REFRESH_TOKEN", "refresh-me")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, ":7100", s.Addr)
	assert.Equal(t, "https://env.supabase.co", s.SupabaseURL)
	assert.Equal(t, "env-key", s.SupabaseKey)
	assert.Equal(t, "exports", s.ReportBucket)
	assert.Equal(t, "refresh-me", s.RefreshToken)
}

func TestLoadSettings_ConfigPathFromEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "alt.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = \":7200\"\n"), 0o600))
	t.Setenv("DOIT_CONFIG", path)

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":7200", s.Addr)
}

func TestLoadSettings_InvalidTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = \n"), 0o600))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
