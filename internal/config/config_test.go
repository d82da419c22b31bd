package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailerseerr/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "overseerr:\n  url: https://seerr.example.com/\n  api_key: abc\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://seerr.example.com", cfg.Overseerr.URL)
	assert.Equal(t, "1", cfg.Overseerr.DefaultProfile)
	assert.True(t, cfg.Notifications.Enabled)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*/15 * * * *", cfg.Tracker.Cron)
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	path := writeConfig(t, "overseerr:\n  url: ftp://seerr.example.com\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNewManagerServesSettings(t *testing.T) {
	path := writeConfig(t, "overseerr:\n  url: http://localhost:5055\n  api_key: key\ndebug: true\n")

	m, err := NewManager(path)
	require.NoError(t, err)

	all := m.GetAll()
	assert.Equal(t, "http://localhost:5055", all.OverseerrURL)
	assert.Equal(t, "key", all.APIKey)
	assert.True(t, all.DebugEnabled)
	assert.Equal(t, "key", m.Value(KeyAPIKey))
	assert.Equal(t, true, m.Value(KeyNotificationsEnabled))
}

func TestSettingsValue(t *testing.T) {
	s := Static{OverseerrURL: " https://seerr.example.com/ ", APIKey: "k", DefaultProfile: "1"}

	tests := []struct {
		key  string
		want any
	}{
		{KeyOverseerrURL, "https://seerr.example.com"},
		{KeyAPIKey, "k"},
		{KeyDefaultProfile, "1"},
		{KeyNotificationsEnabled, false},
		{KeyDebugEnabled, false},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Value(tt.key))
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	d := DefaultSettings()
	assert.Equal(t, "", d.OverseerrURL)
	assert.Equal(t, "", d.APIKey)
	assert.Equal(t, "1", d.DefaultProfile)
	assert.True(t, d.NotificationsEnabled)
	assert.False(t, d.DebugEnabled)
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", false},
		{"https://seerr.example.com", true},
		{"http://192.168.1.10:5055", true},
		{"ftp://seerr.example.com", false},
		{"not a url", false},
		{"https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.raw))
		})
	}
}
