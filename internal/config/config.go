package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/trailerseerr/pkg/logger"
)

const envPrefix = "TRAILERSEERR"

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Overseerr     OverseerrConfig     `mapstructure:"overseerr"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Apprise       AppriseConfig       `mapstructure:"apprise"`
	Tracker       TrackerConfig       `mapstructure:"tracker"`
	Search        SearchConfig        `mapstructure:"search"`
	Scrape        ScrapeConfig        `mapstructure:"scrape"`
	Debug         bool                `mapstructure:"debug"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type OverseerrConfig struct {
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key" secret:"true"`
	DefaultProfile string `mapstructure:"default_profile"`
}

type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AppriseConfig struct {
	BaseURL string `mapstructure:"base_url"` // Apprise API URL (e.g., http://apprise:8000)
	Key     string `mapstructure:"key"`      // Apprise config key (default: apprise)
	Tag     string `mapstructure:"tag"`      // Tag to filter services (default: all)
}

type TrackerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

type SearchConfig struct {
	Limit      int     `mapstructure:"limit"`       // Results surfaced per search
	DetailRate float64 `mapstructure:"detail_rate"` // Detail fetches per second during enrichment
}

type ScrapeConfig struct {
	Retries    int `mapstructure:"retries"`
	RetryDelay int `mapstructure:"retry_delay_ms"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("overseerr.url", "")
	v.SetDefault("overseerr.api_key", "")
	v.SetDefault("overseerr.default_profile", "1")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("debug", false)
	v.SetDefault("apprise.base_url", "")
	v.SetDefault("apprise.key", "apprise")
	v.SetDefault("apprise.tag", "all")
	v.SetDefault("tracker.enabled", true)
	v.SetDefault("tracker.cron", "*/15 * * * *")
	v.SetDefault("search.limit", 5)
	v.SetDefault("search.detail_rate", 10.0)
	v.SetDefault("scrape.retries", 3)
	v.SetDefault("scrape.retry_delay_ms", 1000)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment variable override support
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Overseerr.URL = NormalizeURL(cfg.Overseerr.URL)
	if cfg.Overseerr.URL != "" && !IsValidURL(cfg.Overseerr.URL) {
		return nil, fmt.Errorf("overseerr.url %q: must be an http or https URL", cfg.Overseerr.URL)
	}
	return &cfg, nil
}

// Settings returns the flat view of the config handed to the API client.
func (c *Config) Settings() Settings {
	return Settings{
		OverseerrURL:         NormalizeURL(c.Overseerr.URL),
		APIKey:               c.Overseerr.APIKey,
		DefaultProfile:       c.Overseerr.DefaultProfile,
		NotificationsEnabled: c.Notifications.Enabled,
		DebugEnabled:         c.Debug,
	}
}

// ChangeCallback is called when config changes. Receives old and new config.
type ChangeCallback func(old, new *Config)

// Manager handles config loading and hot-reload.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	cfg       *Config
	callbacks []ChangeCallback
}

// NewManager creates a config manager with hot-reload support.
func NewManager(path string) (*Manager, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	m := &Manager{v: v, cfg: cfg}

	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Infof("🔄 Config file changed: %s", e.Name)
		m.reload()
	})
	v.WatchConfig()

	return m, nil
}

// Get returns the current config (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// GetAll implements Provider.
func (m *Manager) GetAll() Settings {
	return m.Get().Settings()
}

// Value implements Provider.
func (m *Manager) Value(key string) any {
	return m.GetAll().Value(key)
}

// OnChange registers a callback for config changes.
func (m *Manager) OnChange(cb ChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// reload re-reads config and notifies subscribers. An invalid file keeps the previous config.
func (m *Manager) reload() {
	newCfg, err := decode(m.v)
	if err != nil {
		logger.Errorf("❌ Failed to reload config: %v", err)
		return
	}

	m.mu.Lock()
	oldCfg := m.cfg
	m.cfg = newCfg
	callbacks := m.callbacks
	m.mu.Unlock()

	logChanges(oldCfg, newCfg, "")

	// Notify subscribers outside lock
	for _, cb := range callbacks {
		cb(oldCfg, newCfg)
	}
}

// logChanges logs field-level differences between old and new config.
func logChanges(old, cur any, prefix string) {
	oldVal := reflect.ValueOf(old)
	newVal := reflect.ValueOf(cur)

	if oldVal.Kind() == reflect.Ptr {
		oldVal = oldVal.Elem()
	}
	if newVal.Kind() == reflect.Ptr {
		newVal = newVal.Elem()
	}

	if oldVal.Kind() != reflect.Struct {
		return
	}

	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		oldField := oldVal.Field(i)
		newField := newVal.Field(i)

		fieldName := field.Name
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if oldField.Kind() == reflect.Struct {
			logChanges(oldField.Interface(), newField.Interface(), fieldName)
			continue
		}

		if !reflect.DeepEqual(oldField.Interface(), newField.Interface()) {
			secret := field.Tag.Get("secret") == "true"
			logger.Infof("  📝 %s: %s → %s", fieldName, formatValue(oldField, secret), formatValue(newField, secret))
		}
	}
}

// formatValue formats a reflect.Value for logging, masking secret fields.
func formatValue(v reflect.Value, secret bool) string {
	if secret {
		if v.String() == "" {
			return "(empty)"
		}
		return "****"
	}
	return fmt.Sprintf("%v", v.Interface())
}

// Load is a convenience function for one-time loading.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

// Default returns the config built from defaults and environment only.
func Default() *Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		logger.Warnf("⚠️  Ignoring environment config: %v", err)
		cfg = &Config{}
		cfg.Overseerr.DefaultProfile = "1"
		cfg.Notifications.Enabled = true
	}
	return cfg
}

// NormalizeURL trims whitespace and a single trailing slash.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	return strings.TrimSuffix(u, "/")
}

// IsValidURL reports whether raw parses as an http or https URL.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
