package apprise

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/pkg/logger"
)

// Kind is the notification flavour requested by the caller.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// appriseType maps a Kind to Apprise's notification type vocabulary.
func (k Kind) appriseType() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "failure"
	}
	return "info"
}

// Response represents an Apprise API response
type Response struct {
	Error string `json:"error,omitempty"`
}

// Client handles Apprise API communication. Without a base URL it only logs.
type Client struct {
	client   *resty.Client
	baseURL  string
	key      string
	tag      string
	settings config.Provider
}

// NewClient creates a new Apprise client. The notificationsEnabled setting is
// read from settings on every Notify call.
func NewClient(cfg config.AppriseConfig, settings config.Provider) *Client {
	key := cfg.Key
	if key == "" {
		key = "apprise"
	}
	tag := cfg.Tag
	if tag == "" {
		tag = "all"
	}

	client := resty.New().
		SetLogger(logger.Resty{}).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	return &Client{
		client:   client,
		baseURL:  cfg.BaseURL,
		key:      key,
		tag:      tag,
		settings: settings,
	}
}

// Notify delivers a notification unless the user disabled them.
func (c *Client) Notify(ctx context.Context, title, message string, kind Kind) error {
	if !c.IsEnabled() {
		logger.Debugf("🔕 Notification suppressed: %s", title)
		return nil
	}

	if c.baseURL == "" {
		logger.Infof("🔔 [%s] %s: %s", kind, title, message)
		return nil
	}

	formData := map[string]string{
		"body": message,
		"tags": c.tag,
		"type": kind.appriseType(),
	}
	if title != "" {
		formData["title"] = title
	}

	var apiResp Response
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(formData).
		SetResult(&apiResp).
		Post(fmt.Sprintf("/notify/%s", c.key))

	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("apprise returned status %d: %s", resp.StatusCode(), resp.String())
	}

	// Apprise may answer 200 with an error in the JSON body.
	if apiResp.Error != "" {
		return fmt.Errorf("apprise error: %s", apiResp.Error)
	}

	return nil
}

// IsEnabled returns the live notificationsEnabled setting.
func (c *Client) IsEnabled() bool {
	if c.settings == nil {
		return true
	}
	return c.settings.GetAll().NotificationsEnabled
}
