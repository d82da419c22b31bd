package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/message"
	"github.com/trailerseerr/internal/parser"
	"github.com/trailerseerr/internal/scheduler"
	"github.com/trailerseerr/internal/scrape"
	"github.com/trailerseerr/internal/service/requester"
	"github.com/trailerseerr/internal/service/tracker"
)

// Deps are the services the HTTP surface exposes. Tracker and Scheduler are
// nil when tracking is disabled.
type Deps struct {
	Settings   config.Provider
	Overseerr  *overseerr.Client
	Requester  *requester.Service
	Dispatcher *message.Dispatcher
	Fetcher    *scrape.Fetcher
	Tracker    *tracker.Service
	Scheduler  *scheduler.Scheduler
}

type Handler struct {
	settings   config.Provider
	overseerr  *overseerr.Client
	requester  *requester.Service
	dispatcher *message.Dispatcher
	fetcher    *scrape.Fetcher
	tracker    *tracker.Service
	scheduler  *scheduler.Scheduler
}

func New(d Deps) *Handler {
	return &Handler{
		settings:   d.Settings,
		overseerr:  d.Overseerr,
		requester:  d.Requester,
		dispatcher: d.Dispatcher,
		fetcher:    d.Fetcher,
		tracker:    d.Tracker,
		scheduler:  d.Scheduler,
	}
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		// Health
		api.GET("/health", h.Health)

		// Title handling
		api.POST("/clean", h.Clean)
		api.GET("/lookup", h.Lookup)
		api.POST("/scrape", h.Scrape)

		// Overseerr
		api.GET("/search", h.Search)
		api.GET("/media/:type/:id", h.MediaDetails)
		api.GET("/media/:type/:id/status", h.MediaStatus)
		api.GET("/media/:type/:id/availability", h.MediaAvailability)
		api.POST("/request", h.CreateRequest)
		api.GET("/connection", h.TestConnection)

		// Message protocol
		api.POST("/message", h.Message)

		// Tracker endpoints
		api.GET("/tracker", h.TrackerStats)
		api.POST("/tracker/run", h.TriggerTracker)
		api.DELETE("/tracker/:id", h.Untrack)
	}
}

// Health returns service health status
func (h *Handler) Health(c *gin.Context) {
	s := h.settings.GetAll()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"configured":      s.OverseerrURL != "" && s.APIKey != "",
		"scheduler":       h.scheduler != nil && h.scheduler.IsRunning(),
		"tracker_enabled": h.tracker != nil,
	})
}

type cleanBody struct {
	Title       any    `json:"title"`
	Description string `json:"description"`
}

// Clean normalises a raw title and guesses its media type
func (h *Handler) Clean(c *gin.Context) {
	var body cleanBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	cc := parser.CleanAndClassifyAny(body.Title, body.Description)
	c.JSON(http.StatusOK, message.Ok(message.CleanResult{Cleaned: cc.Cleaned, MediaType: cc.MediaType}))
}

// Lookup cleans a title and runs the filtered, enriched search for it
func (h *Handler) Lookup(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		badRequest(c, "title is required")
		return
	}

	lookup, err := h.requester.LookupTitle(c.Request.Context(), title, c.Query("description"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, message.Ok(lookup))
}

type scrapeBody struct {
	URL    string `json:"url" binding:"required"`
	Lookup bool   `json:"lookup"`
}

// Scrape fetches a watch page and extracts its video info
func (h *Handler) Scrape(c *gin.Context) {
	var body scrapeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}
	if !config.IsValidURL(body.URL) {
		badRequest(c, "url must be an http(s) URL")
		return
	}

	info, err := h.fetcher.Fetch(c.Request.Context(), body.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, message.Fail(err))
		return
	}
	page := scrape.Process(info)

	if !body.Lookup || page.CleanedTitle == "" {
		c.JSON(http.StatusOK, message.Ok(page))
		return
	}

	results, err := h.requester.SearchTitle(c.Request.Context(), page.CleanedTitle)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, message.Ok(gin.H{
		"page":    page,
		"results": results,
	}))
}

// Search is the raw Overseerr search
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		badRequest(c, "query is required")
		return
	}
	page := 1
	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			badRequest(c, "page must be a positive integer")
			return
		}
		page = n
	}

	res, err := h.overseerr.Search(c.Request.Context(), query, page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, message.Ok(res))
}

func mediaParams(c *gin.Context) (overseerr.MediaType, int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return "", 0, false
	}
	mediaType := overseerr.MediaType(c.Param("type"))
	if !mediaType.Valid() {
		badRequest(c, "Unsupported media type: "+string(mediaType))
		return "", 0, false
	}
	return mediaType, id, true
}

// MediaDetails returns the movie or show details
func (h *Handler) MediaDetails(c *gin.Context) {
	mediaType, id, ok := mediaParams(c)
	if !ok {
		return
	}
	details, err := h.requester.GetDetails(c.Request.Context(), mediaType, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, message.Ok(details))
}

// MediaStatus returns the request status summary. Lookup failures are
// reported inside the payload, not as an HTTP error.
func (h *Handler) MediaStatus(c *gin.Context) {
	mediaType, id, ok := mediaParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, message.Ok(h.overseerr.GetRequestStatus(c.Request.Context(), mediaType, id)))
}

// MediaAvailability returns the availability flags
func (h *Handler) MediaAvailability(c *gin.Context) {
	mediaType, id, ok := mediaParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, message.Ok(h.overseerr.CheckAvailability(c.Request.Context(), mediaType, id)))
}

type requestBody struct {
	overseerr.RequestPayload
	Title string `json:"title"`
}

// CreateRequest submits a media request
func (h *Handler) CreateRequest(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body: "+err.Error())
		return
	}

	req, err := h.requester.RequestMedia(c.Request.Context(), body.RequestPayload, body.Title)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, message.Ok(req))
}

// TestConnection checks Overseerr reachability and credentials
func (h *Handler) TestConnection(c *gin.Context) {
	res := h.overseerr.TestConnection(c.Request.Context())
	c.JSON(http.StatusOK, message.Response{
		Success: res.Success,
		Data:    res,
		Error:   errorText(res),
	})
}

func errorText(res overseerr.ConnectionResult) string {
	if res.Success {
		return ""
	}
	return res.Message
}

// Message dispatches one action-tagged message
func (h *Handler) Message(c *gin.Context) {
	var req message.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, message.Response{Success: false, Error: "invalid message: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Dispatch(c.Request.Context(), req))
}

// TrackerStats returns tracker statistics and tracked titles
func (h *Handler) TrackerStats(c *gin.Context) {
	if h.tracker == nil {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
			"message": "tracker is disabled",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled": true,
		"stats":   h.tracker.GetStats(),
		"items":   h.tracker.List(),
	})
}

// TriggerTracker manually polls every tracked title
func (h *Handler) TriggerTracker(c *gin.Context) {
	if h.tracker == nil {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
			"message": "tracker is disabled",
		})
		return
	}

	results, err := h.tracker.Poll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "tracker poll complete",
		"results": results,
	})
}

// Untrack stops tracking one title
func (h *Handler) Untrack(c *gin.Context) {
	if h.tracker == nil || !h.tracker.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, message.Response{Success: false, Error: "not tracked"})
		return
	}
	c.JSON(http.StatusOK, message.Response{Success: true})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, message.Response{Success: false, Error: msg})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), message.Fail(err))
}

// statusFor maps an error to the HTTP status answered for it.
func statusFor(err error) int {
	var oe *overseerr.Error
	if !errors.As(err, &oe) {
		return http.StatusInternalServerError
	}

	switch oe.Kind {
	case overseerr.KindValidation, overseerr.KindUnsupportedMediaType:
		return http.StatusBadRequest
	case overseerr.KindConfigurationMissing:
		return http.StatusServiceUnavailable
	case overseerr.KindTimeout:
		return http.StatusGatewayTimeout
	case overseerr.KindConnectionFailed:
		return http.StatusBadGateway
	case overseerr.KindAPIError:
		if oe.Status >= 400 && oe.Status < 600 {
			return oe.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
