package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trailerseerr/internal/client/apprise"
	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/pkg/logger"
)

// Checker reports the current availability of a title.
type Checker interface {
	CheckAvailability(ctx context.Context, mediaType overseerr.MediaType, tmdbID int) overseerr.Availability
}

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, title, message string, kind apprise.Kind) error
}

// Item is one requested title waiting to become available.
type Item struct {
	ID          string                `json:"id"`
	MediaType   overseerr.MediaType   `json:"media_type"`
	TMDBID      int                   `json:"tmdb_id"`
	Title       string                `json:"title"`
	RequestedAt time.Time             `json:"requested_at"`
	LastChecked time.Time             `json:"last_checked,omitempty"`
	LastStatus  overseerr.MediaStatus `json:"last_status,omitempty"`
}

// PollResult holds the outcome of checking a single tracked item
type PollResult struct {
	ItemID string                `json:"item_id"`
	Title  string                `json:"title"`
	Status overseerr.MediaStatus `json:"status"`
	Action string                `json:"action"` // "available", "pending", "error"
	Error  string                `json:"error,omitempty"`
}

// Service remembers requested titles and polls Overseerr until they are
// available. State is in memory only.
type Service struct {
	checker  Checker
	notifier Notifier

	mu          sync.RWMutex
	items       map[string]*Item
	byMedia     map[string]string
	lastRun     time.Time
	lastResults []PollResult
	delivered   int
}

func NewService(checker Checker, notifier Notifier) *Service {
	return &Service{
		checker:  checker,
		notifier: notifier,
		items:    make(map[string]*Item),
		byMedia:  make(map[string]string),
	}
}

func mediaKey(mediaType overseerr.MediaType, tmdbID int) string {
	return fmt.Sprintf("%s-%d", mediaType, tmdbID)
}

// Requested satisfies the requester observer hook.
func (s *Service) Requested(mediaType overseerr.MediaType, tmdbID int, title string) {
	s.Track(mediaType, tmdbID, title)
}

// Track starts watching a title. Tracking the same title twice returns the
// existing item.
func (s *Service) Track(mediaType overseerr.MediaType, tmdbID int, title string) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := mediaKey(mediaType, tmdbID)
	if id, ok := s.byMedia[key]; ok {
		return *s.items[id]
	}

	item := &Item{
		ID:          uuid.NewString(),
		MediaType:   mediaType,
		TMDBID:      tmdbID,
		Title:       title,
		RequestedAt: time.Now(),
	}
	s.items[item.ID] = item
	s.byMedia[key] = item.ID

	logger.Infof("[tracker] Tracking %s (%s/%d)", title, mediaType, tmdbID)
	return *item
}

// Remove stops tracking the item with the given id.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Service) removeLocked(id string) bool {
	item, ok := s.items[id]
	if !ok {
		return false
	}
	delete(s.items, id)
	delete(s.byMedia, mediaKey(item.MediaType, item.TMDBID))
	return true
}

// List returns the tracked items, oldest request first.
func (s *Service) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out
}

// Poll checks every tracked item once. Items that became available trigger
// an info notification and are dropped.
func (s *Service) Poll(ctx context.Context) ([]PollResult, error) {
	startTime := time.Now()
	items := s.List()

	if len(items) == 0 {
		logger.Debug("[tracker] Nothing to poll")
		s.mu.Lock()
		s.lastRun = time.Now()
		s.lastResults = nil
		s.mu.Unlock()
		return nil, nil
	}

	logger.Infof("[tracker] Polling %d tracked titles", len(items))

	results := make([]PollResult, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.check(ctx, item))
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastResults = results
	s.mu.Unlock()

	s.printSummary(results, startTime)
	return results, nil
}

func (s *Service) check(ctx context.Context, item Item) PollResult {
	result := PollResult{ItemID: item.ID, Title: item.Title}

	avail := s.checker.CheckAvailability(ctx, item.MediaType, item.TMDBID)
	result.Status = avail.Status

	s.mu.Lock()
	if tracked, ok := s.items[item.ID]; ok {
		tracked.LastChecked = time.Now()
		tracked.LastStatus = avail.Status
	}
	s.mu.Unlock()

	if avail.Error != "" {
		result.Action = "error"
		result.Error = avail.Error
		return result
	}

	if !avail.IsAvailable {
		result.Action = "pending"
		return result
	}

	result.Action = "available"

	// Only the poll that removes the item delivers it.
	s.mu.Lock()
	claimed := s.removeLocked(item.ID)
	if claimed {
		s.delivered++
	}
	s.mu.Unlock()

	if !claimed {
		logger.Debugf("[tracker] %s already delivered", item.Title)
		return result
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("%s is now available", item.Title)
		if err := s.notifier.Notify(ctx, "Now Available", msg, apprise.KindInfo); err != nil {
			logger.Warnf("[tracker] Notification failed for %s: %v", item.Title, err)
		}
	}

	return result
}

func (s *Service) printSummary(results []PollResult, startTime time.Time) {
	var available, pending, errs []string

	for _, r := range results {
		switch r.Action {
		case "available":
			available = append(available, fmt.Sprintf("  • %s", r.Title))
		case "pending":
			pending = append(pending, fmt.Sprintf("  • %s (%s)", r.Title, r.Status))
		case "error":
			errs = append(errs, fmt.Sprintf("  • %s (%s)", r.Title, r.Error))
		}
	}

	logger.Info("[tracker] ========================================")
	logger.Info("[tracker] SUMMARY")
	logger.Info("[tracker] ========================================")

	if len(available) > 0 {
		logger.Infof("[tracker] AVAILABLE (%d):", len(available))
		logger.Info(strings.Join(available, "\n"))
	}
	if len(pending) > 0 {
		logger.Infof("[tracker] PENDING (%d):", len(pending))
		logger.Info(strings.Join(pending, "\n"))
	}
	if len(errs) > 0 {
		logger.Errorf("[tracker] ERRORS (%d):", len(errs))
		logger.Error(strings.Join(errs, "\n"))
	}

	logger.Info("[tracker] ----------------------------------------")
	logger.Infof("[tracker] Completed in %v", time.Since(startTime).Round(time.Millisecond))
	logger.Info("[tracker] ========================================")
}

// Stats returns polling statistics
type Stats struct {
	LastRun   time.Time    `json:"last_run"`
	Tracked   int          `json:"tracked"`
	Available int          `json:"available"`
	Pending   int          `json:"pending"`
	Errors    int          `json:"errors"`
	Delivered int          `json:"delivered"`
	Results   []PollResult `json:"results,omitempty"`
}

func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		LastRun:   s.lastRun,
		Tracked:   len(s.items),
		Delivered: s.delivered,
		Results:   s.lastResults,
	}

	for _, r := range s.lastResults {
		switch r.Action {
		case "available":
			stats.Available++
		case "pending":
			stats.Pending++
		case "error":
			stats.Errors++
		}
	}

	return stats
}
