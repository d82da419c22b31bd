package config

// Settings keys as exposed to the UI layer.
const (
	KeyOverseerrURL         = "overseerrUrl"
	KeyAPIKey               = "apiKey"
	KeyDefaultProfile       = "defaultProfile"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyDebugEnabled         = "debugEnabled"
)

// Settings is the flat settings record read by the API client on every call.
type Settings struct {
	OverseerrURL         string `json:"overseerrUrl"`
	APIKey               string `json:"apiKey"`
	DefaultProfile       string `json:"defaultProfile"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DebugEnabled         bool   `json:"debugEnabled"`
}

// DefaultSettings mirrors the defaults applied when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DefaultProfile:       "1",
		NotificationsEnabled: true,
	}
}

// Value returns the setting stored under key, or nil for an unknown key.
func (s Settings) Value(key string) any {
	switch key {
	case KeyOverseerrURL:
		return NormalizeURL(s.OverseerrURL)
	case KeyAPIKey:
		return s.APIKey
	case KeyDefaultProfile:
		return s.DefaultProfile
	case KeyNotificationsEnabled:
		return s.NotificationsEnabled
	case KeyDebugEnabled:
		return s.DebugEnabled
	}
	return nil
}

// Provider is read fresh on every remote call; implementations must be safe for concurrent use.
type Provider interface {
	Value(key string) any
	GetAll() Settings
}

// Static is a fixed Provider, used by the CLI and tests.
type Static Settings

func (s Static) GetAll() Settings {
	out := Settings(s)
	out.OverseerrURL = NormalizeURL(out.OverseerrURL)
	return out
}

func (s Static) Value(key string) any {
	return s.GetAll().Value(key)
}
