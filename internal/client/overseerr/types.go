package overseerr

import (
	"strconv"
	"time"
)

// MediaType for Overseerr API
type MediaType string

const (
	MediaTypeTV    MediaType = "tv"
	MediaTypeMovie MediaType = "movie"
)

// Valid reports whether t is one of the requestable media types.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// MediaStatus represents the status of media in Overseerr
type MediaStatus int

const (
	MediaStatusUnknown        MediaStatus = 1
	MediaStatusPending        MediaStatus = 2
	MediaStatusProcessing     MediaStatus = 3
	MediaStatusPartiallyAvail MediaStatus = 4
	MediaStatusAvailable      MediaStatus = 5
)

// IsAvailable reports whether the media is at least partially available.
func (s MediaStatus) IsAvailable() bool {
	return s >= MediaStatusPartiallyAvail
}

func (s MediaStatus) String() string {
	switch s {
	case MediaStatusUnknown:
		return "unknown"
	case MediaStatusPending:
		return "pending"
	case MediaStatusProcessing:
		return "processing"
	case MediaStatusPartiallyAvail:
		return "partially available"
	case MediaStatusAvailable:
		return "available"
	}
	return "status " + strconv.Itoa(int(s))
}

// RequestStatus represents request status
type RequestStatus int

const (
	RequestStatusPending  RequestStatus = 1
	RequestStatusApproved RequestStatus = 2
	RequestStatusDeclined RequestStatus = 3
)

// SearchResult from Overseerr search API
type SearchResult struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"totalPages"`
	TotalResults int           `json:"totalResults"`
	Results      []MediaResult `json:"results"`
}

type MediaResult struct {
	ID            int          `json:"id"`
	MediaType     MediaType    `json:"mediaType"`
	Name          string       `json:"name,omitempty"`  // TV shows
	Title         string       `json:"title,omitempty"` // Movies
	OriginalName  string       `json:"originalName,omitempty"`
	OriginalTitle string       `json:"originalTitle,omitempty"`
	Overview      string       `json:"overview,omitempty"`
	PosterPath    string       `json:"posterPath,omitempty"`
	BackdropPath  string       `json:"backdropPath,omitempty"`
	FirstAirDate  string       `json:"firstAirDate,omitempty"`
	ReleaseDate   string       `json:"releaseDate,omitempty"`
	ExternalIDs   *ExternalIDs `json:"externalIds,omitempty"`
	MediaInfo     *MediaInfo   `json:"mediaInfo,omitempty"`
}

// DisplayTitle returns the movie title or the show name.
func (r MediaResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Year returns the release (or first air) year, or 0 when unknown.
func (r MediaResult) Year() int {
	return yearOf(r.ReleaseDate, r.FirstAirDate)
}

type MediaInfo struct {
	ID       int          `json:"id"`
	TMDBID   int          `json:"tmdbId"`
	TVDBID   int          `json:"tvdbId,omitempty"`
	Status   MediaStatus  `json:"status"`
	Requests []Request    `json:"requests,omitempty"`
	Seasons  []SeasonInfo `json:"seasons,omitempty"`
}

type SeasonInfo struct {
	ID           int         `json:"id"`
	SeasonNumber int         `json:"seasonNumber"`
	Status       MediaStatus `json:"status"`
}

// Request is a request record as returned inside mediaInfo or by POST /request.
type Request struct {
	ID          int           `json:"id"`
	Status      RequestStatus `json:"status"`
	Type        MediaType     `json:"type,omitempty"`
	Media       *MediaInfo    `json:"media,omitempty"`
	Seasons     []SeasonReq   `json:"seasons,omitempty"`
	RequestedBy *User         `json:"requestedBy,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

type SeasonReq struct {
	ID           int `json:"id"`
	SeasonNumber int `json:"seasonNumber"`
}

type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// RequestPayload is the body of POST /request.
type RequestPayload struct {
	MediaType MediaType `json:"mediaType"`
	MediaID   int       `json:"mediaId"`          // TMDB ID
	TVDBID    *int      `json:"tvdbId,omitempty"` // TV only
	Seasons   []int     `json:"seasons,omitempty"`
}

type ExternalIDs struct {
	IMDBID string `json:"imdbId,omitempty"`
	TVDBID int    `json:"tvdbId,omitempty"`
}

// MediaDetails from GET /movie/{id} or GET /tv/{id}.
type MediaDetails struct {
	ID              int          `json:"id"`
	Title           string       `json:"title,omitempty"` // Movies
	Name            string       `json:"name,omitempty"`  // TV shows
	Overview        string       `json:"overview,omitempty"`
	PosterPath      string       `json:"posterPath,omitempty"`
	ReleaseDate     string       `json:"releaseDate,omitempty"`
	FirstAirDate    string       `json:"firstAirDate,omitempty"`
	NumberOfSeasons int          `json:"numberOfSeasons,omitempty"`
	ExternalIDs     *ExternalIDs `json:"externalIds,omitempty"`
	MediaInfo       *MediaInfo   `json:"mediaInfo,omitempty"`
}

// DisplayTitle returns the movie title or the show name.
func (d MediaDetails) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Status from GET /status.
type Status struct {
	Version         string `json:"version"`
	CommitTag       string `json:"commitTag,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable,omitempty"`
}

// apiErrorBody is the JSON error envelope Overseerr returns on non-2xx responses.
type apiErrorBody struct {
	Message string `json:"message"`
}

func yearOf(dates ...string) int {
	for _, d := range dates {
		if len(d) < 4 {
			continue
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t.Year()
		}
		if y, err := strconv.Atoi(d[:4]); err == nil {
			return y
		}
	}
	return 0
}
