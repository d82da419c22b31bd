package overseerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/pkg/logger"
)

const (
	DefaultTimeout        = 10 * time.Second
	ConnectionTestTimeout = 5 * time.Second

	apiPrefix = "/api/v1"
)

// Client talks to a single Overseerr instance. URL and API key are read from
// the provider on every call, so settings changes apply to the next request.
type Client struct {
	client      *resty.Client
	settings    config.Provider
	timeout     time.Duration
	testTimeout time.Duration
}

type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithConnectionTestTimeout overrides the timeout used by TestConnection.
func WithConnectionTestTimeout(d time.Duration) Option {
	return func(c *Client) { c.testTimeout = d }
}

func NewClient(settings config.Provider, opts ...Option) *Client {
	// No retries: every call is a single round-trip bounded by its own context.
	client := resty.New().
		SetLogger(logger.Resty{}).
		SetRetryCount(0)

	c := &Client{
		client:      client,
		settings:    settings,
		timeout:     DefaultTimeout,
		testTimeout: ConnectionTestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type call struct {
	method  string
	path    string
	body    any
	headers map[string]string
	timeout time.Duration
}

// do executes one call and returns the raw body, or nil for 204 No Content.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	settings := c.settings.GetAll()
	baseURL := config.NormalizeURL(settings.OverseerrURL)
	if baseURL == "" {
		return nil, &Error{Kind: KindConfigurationMissing, Message: msgURLMissing}
	}
	if settings.APIKey == "" {
		return nil, &Error{Kind: KindConfigurationMissing, Message: msgAPIKeyMissing}
	}

	timeout := cl.timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.client.R().
		SetContext(ctx).
		SetHeaders(cl.headers).
		// Caller headers may add to these but never replace them.
		SetHeader("X-Api-Key", settings.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, baseURL+apiPrefix+cl.path)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warnf("[overseerr] %s %s timed out after %v", cl.method, cl.path, timeout)
			return nil, timeoutError(timeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
		}
		logger.Warnf("[overseerr] %s %s failed: %v", cl.method, cl.path, err)
		return nil, connectionError(err)
	}

	logger.Debugf("[overseerr] %s %s → %d (%v)", cl.method, cl.path, resp.StatusCode(), time.Since(start).Round(time.Millisecond))

	if !resp.IsSuccess() {
		return nil, apiError(resp)
	}

	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}

	return resp.Body(), nil
}

func apiError(resp *resty.Response) *Error {
	status := resp.StatusCode()
	var body apiErrorBody
	msg := ""
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		msg = body.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	logger.Debugf("[overseerr] error response body: %s", resp.String())
	return &Error{Kind: KindAPIError, Message: msg, Status: status}
}

// decodeInto unmarshals body into out. A nil body (204) leaves out untouched
// and reports false.
func decodeInto(body []byte, out any) (bool, error) {
	if body == nil {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return true, nil
}

// encodeQuery escapes like encodeURIComponent: spaces become %20, not "+".
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

// Search searches movies, TV shows and people by free text.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	body, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/search?query=%s&page=%d", encodeQuery(query), page),
	})
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if ok, err := decodeInto(body, &result); err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetails gets movie details by TMDB ID
func (c *Client) GetMovieDetails(ctx context.Context, tmdbID int) (*MediaDetails, error) {
	return c.getDetails(ctx, fmt.Sprintf("/movie/%d", tmdbID))
}

// GetTVDetails gets TV show details by TMDB ID
func (c *Client) GetTVDetails(ctx context.Context, tmdbID int) (*MediaDetails, error) {
	return c.getDetails(ctx, fmt.Sprintf("/tv/%d", tmdbID))
}

// GetDetails dispatches on mediaType. Any type other than movie or tv fails
// with KindUnsupportedMediaType before touching the network.
func (c *Client) GetDetails(ctx context.Context, mediaType MediaType, tmdbID int) (*MediaDetails, error) {
	switch mediaType {
	case MediaTypeMovie:
		return c.GetMovieDetails(ctx, tmdbID)
	case MediaTypeTV:
		return c.GetTVDetails(ctx, tmdbID)
	}
	return nil, unsupportedMediaType(mediaType)
}

func (c *Client) getDetails(ctx context.Context, path string) (*MediaDetails, error) {
	body, err := c.do(ctx, call{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}

	var details MediaDetails
	if ok, err := decodeInto(body, &details); err != nil || !ok {
		return nil, err
	}
	return &details, nil
}

// CreateRequest posts a media request. A nil request with a nil error means
// the server answered 204 No Content.
func (c *Client) CreateRequest(ctx context.Context, payload RequestPayload) (*Request, error) {
	body, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/request",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var result Request
	if ok, err := decodeInto(body, &result); err != nil || !ok {
		return nil, err
	}

	logger.Infof("📥 Requested %s TMDB=%d via Overseerr (request=%d)", payload.MediaType, payload.MediaID, result.ID)
	return &result, nil
}

// GetStatus returns the server status, bounded by the connection test timeout.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	body, err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    "/status",
		timeout: c.testTimeout,
	})
	if err != nil {
		return nil, err
	}

	var status Status
	if ok, err := decodeInto(body, &status); err != nil || !ok {
		return nil, err
	}
	return &status, nil
}

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

// TestConnection checks credentials against /status. It never returns an
// error: failures are reported in the result message.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	status, err := c.GetStatus(ctx)
	if err != nil {
		logger.Errorf("[overseerr] Connection test failed: %v", err)
		return ConnectionResult{Success: false, Message: err.Error()}
	}
	if status == nil {
		status = &Status{}
	}

	logger.Infof("[overseerr] Connection successful: v%s", status.Version)
	return ConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connected to Overseerr v%s", status.Version),
		Version: status.Version,
	}
}
