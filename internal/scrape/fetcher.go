package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/pkg/logger"
)

const (
	defaultRetryDelay = time.Second
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// Fetcher downloads watch pages. A page that answers 5xx or renders without a
// title is considered not ready and retried a bounded number of times.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(cfg config.ScrapeConfig) *Fetcher {
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	delay := time.Duration(cfg.RetryDelay) * time.Millisecond
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	client := resty.New().
		SetLogger(logger.Resty{}).
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html").
		SetRetryCount(retries).
		SetRetryWaitTime(delay).
		SetRetryMaxWaitTime(delay).
		AddRetryCondition(notReady)

	return &Fetcher{client: client}
}

func notReady(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}
	if resp.StatusCode() >= 500 {
		return true
	}
	if !resp.IsSuccess() {
		return false
	}
	info, perr := Parse(resp.Body(), resp.Request.URL)
	return perr == nil && info.Title == ""
}

// Fetch downloads pageURL and extracts its video info. When retries run out
// on a page that never rendered a title the returned info has an empty Title.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (VideoInfo, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	if !resp.IsSuccess() {
		return VideoInfo{}, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode())
	}

	info, err := Parse(resp.Body(), pageURL)
	if err != nil {
		return VideoInfo{}, err
	}

	if info.Title == "" {
		logger.Warnf("[scrape] No title found on %s after %d attempts", pageURL, resp.Request.Attempt)
	} else {
		logger.Debugf("[scrape] %s → %q", pageURL, info.Title)
	}
	return info, nil
}
