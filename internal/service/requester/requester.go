package requester

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/trailerseerr/internal/client/apprise"
	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/parser"
	"github.com/trailerseerr/pkg/logger"
)

const (
	defaultLimit = 5
	msgMissing   = "Missing required fields: mediaType and mediaId are required"
)

// API is the subset of the Overseerr client the service needs.
type API interface {
	Search(ctx context.Context, query string, page int) (*overseerr.SearchResult, error)
	GetDetails(ctx context.Context, mediaType overseerr.MediaType, tmdbID int) (*overseerr.MediaDetails, error)
	CreateRequest(ctx context.Context, payload overseerr.RequestPayload) (*overseerr.Request, error)
}

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, title, message string, kind apprise.Kind) error
}

// Observer is told about every request created through RequestMedia.
type Observer interface {
	Requested(mediaType overseerr.MediaType, tmdbID int, title string)
}

// Service composes title cleaning, search and the request protocol.
type Service struct {
	api      API
	notifier Notifier
	limit    int
	limiter  *rate.Limiter

	mu       sync.RWMutex
	observer Observer
}

func NewService(api API, notifier Notifier, cfg config.SearchConfig) *Service {
	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	limiter := rate.NewLimiter(rate.Inf, limit)
	if cfg.DetailRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DetailRate), limit)
	}

	return &Service{
		api:      api,
		notifier: notifier,
		limit:    limit,
		limiter:  limiter,
	}
}

// SetObserver registers the observer for created requests.
func (s *Service) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Search delegates straight to the API: no filtering, no capping.
func (s *Service) Search(ctx context.Context, query string) (*overseerr.SearchResult, error) {
	return s.api.Search(ctx, query, 1)
}

// GetDetails delegates straight to the API.
func (s *Service) GetDetails(ctx context.Context, mediaType overseerr.MediaType, tmdbID int) (*overseerr.MediaDetails, error) {
	return s.api.GetDetails(ctx, mediaType, tmdbID)
}

// CreateRequest validates payload, makes a best-effort detail fetch so the
// title is known to Overseerr, then creates the request. The request call's
// outcome is returned unchanged and never retried.
func (s *Service) CreateRequest(ctx context.Context, payload overseerr.RequestPayload) (*overseerr.Request, error) {
	if payload.MediaType == "" || payload.MediaID == 0 {
		logger.Warnf("[requester] Missing required fields: %+v", payload)
		return nil, overseerr.NewValidationError(msgMissing)
	}

	// Pre-fetch registers the title in Overseerr's database; it may already be there.
	if _, err := s.api.GetDetails(ctx, payload.MediaType, payload.MediaID); err != nil {
		logger.Debugf("[requester] Pre-fetch %s/%d failed, continuing: %v", payload.MediaType, payload.MediaID, err)
	}

	req, err := s.api.CreateRequest(ctx, payload)
	if err != nil {
		logger.Errorf("[requester] Request creation failed: %v", err)
		return nil, err
	}

	logger.Infof("[requester] Request created for %s/%d", payload.MediaType, payload.MediaID)
	return req, nil
}

// RequestMedia is CreateRequest plus a notification and observer callback,
// the full "request" button action.
func (s *Service) RequestMedia(ctx context.Context, payload overseerr.RequestPayload, title string) (*overseerr.Request, error) {
	if title == "" {
		title = fmt.Sprintf("%s #%d", payload.MediaType, payload.MediaID)
	}

	req, err := s.CreateRequest(ctx, payload)
	if err != nil {
		s.notify(ctx, "Request Failed", fmt.Sprintf("Could not request %s: %s", title, err.Error()), apprise.KindError)
		return nil, err
	}

	s.notify(ctx, "Request Sent", fmt.Sprintf("%s has been requested", title), apprise.KindSuccess)

	s.mu.RLock()
	observer := s.observer
	s.mu.RUnlock()
	if observer != nil {
		observer.Requested(payload.MediaType, payload.MediaID, title)
	}

	return req, nil
}

func (s *Service) notify(ctx context.Context, title, message string, kind apprise.Kind) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, title, message, kind); err != nil {
		logger.Warnf("[requester] Notification failed: %v", err)
	}
}

// SearchTitle runs the popup search policy: keep movie/tv entries, cap at the
// configured limit, sort newest first, then enrich each entry with its
// current mediaInfo.
func (s *Service) SearchTitle(ctx context.Context, query string) ([]overseerr.MediaResult, error) {
	start := time.Now()

	res, err := s.api.Search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return []overseerr.MediaResult{}, nil
	}

	results := FilterMedia(res.Results)
	if len(results) > s.limit {
		results = results[:s.limit]
	}
	SortNewestFirst(results)

	if len(results) == 0 {
		logger.Infof("[requester] No results for %q", query)
		return results, nil
	}

	logger.Debugf("[requester] Checking status of %d results", len(results))
	enriched := s.enrich(ctx, results)

	logger.Infof("[requester] %d results for %q in %v", len(enriched), query, time.Since(start).Round(time.Millisecond))
	return enriched, nil
}

// enrich fetches details for every result concurrently and waits for all of
// them. A failed fetch leaves that entry as it was.
func (s *Service) enrich(ctx context.Context, results []overseerr.MediaResult) []overseerr.MediaResult {
	out := make([]overseerr.MediaResult, len(results))
	copy(out, results)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if err := s.limiter.Wait(ctx); err != nil {
				return
			}

			details, err := s.api.GetDetails(ctx, out[i].MediaType, out[i].ID)
			if err != nil {
				logger.Debugf("[requester] Details for %s/%d unavailable: %v", out[i].MediaType, out[i].ID, err)
				return
			}
			if details == nil {
				return
			}
			if details.MediaInfo != nil {
				out[i].MediaInfo = details.MediaInfo
			}
			if details.ExternalIDs != nil {
				out[i].ExternalIDs = details.ExternalIDs
			}
		}(i)
	}
	wg.Wait()

	return out
}

// Lookup is the end-to-end flow for one scraped page.
type Lookup struct {
	Query     string                  `json:"query"`
	MediaType parser.MediaType        `json:"mediaType"`
	Results   []overseerr.MediaResult `json:"results"`
}

// LookupTitle cleans and classifies a raw title, then searches for it.
func (s *Service) LookupTitle(ctx context.Context, title, description string) (*Lookup, error) {
	cc := parser.CleanAndClassify(title, description)
	lookup := &Lookup{Query: cc.Cleaned, MediaType: cc.MediaType, Results: []overseerr.MediaResult{}}
	if cc.Cleaned == "" {
		return lookup, nil
	}

	results, err := s.SearchTitle(ctx, cc.Cleaned)
	if err != nil {
		return nil, err
	}
	lookup.Results = results
	return lookup, nil
}

// FilterMedia keeps only movie and tv entries, dropping people and collections.
func FilterMedia(results []overseerr.MediaResult) []overseerr.MediaResult {
	out := make([]overseerr.MediaResult, 0, len(results))
	for _, r := range results {
		if r.MediaType.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst orders by release year, newest first. Entries without a
// date sort last; ties keep their search order.
func SortNewestFirst(results []overseerr.MediaResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Year() > results[j].Year()
	})
}

// BuildPayload turns a search result into a request payload. tvdbId is only
// sent for TV results that carry one.
func BuildPayload(result overseerr.MediaResult) overseerr.RequestPayload {
	payload := overseerr.RequestPayload{
		MediaType: result.MediaType,
		MediaID:   result.ID,
	}
	if result.MediaType == overseerr.MediaTypeTV && result.ExternalIDs != nil && result.ExternalIDs.TVDBID != 0 {
		tvdb := result.ExternalIDs.TVDBID
		payload.TVDBID = &tvdb
	}
	return payload
}
