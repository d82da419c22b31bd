package overseerr

import "context"

// RequestStatusInfo is the request/availability summary of one title.
type RequestStatusInfo struct {
	ID        int         `json:"id"`
	MediaType MediaType   `json:"mediaType"`
	Title     string      `json:"title,omitempty"`
	Status    MediaStatus `json:"status"`
	Requests  []Request   `json:"requests"`
	Error     string      `json:"error,omitempty"`
}

// GetRequestStatus fetches details and summarises them. A failed lookup does
// not return an error: the result degrades to status unknown with Error set.
func (c *Client) GetRequestStatus(ctx context.Context, mediaType MediaType, tmdbID int) RequestStatusInfo {
	info := RequestStatusInfo{
		ID:        tmdbID,
		MediaType: mediaType,
		Status:    MediaStatusUnknown,
		Requests:  []Request{},
	}

	details, err := c.GetDetails(ctx, mediaType, tmdbID)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	if details == nil {
		return info
	}

	info.Title = details.DisplayTitle()
	if details.MediaInfo != nil {
		if details.MediaInfo.Status != 0 {
			info.Status = details.MediaInfo.Status
		}
		if details.MediaInfo.Requests != nil {
			info.Requests = details.MediaInfo.Requests
		}
	}
	return info
}

// Availability answers "can I watch it" and "has someone asked for it".
type Availability struct {
	IsAvailable bool        `json:"isAvailable"`
	IsRequested bool        `json:"isRequested"`
	Status      MediaStatus `json:"status"`
	Requests    []Request   `json:"requests"`
	Error       string      `json:"error,omitempty"`
}

// CheckAvailability is GetRequestStatus reduced to the availability flags.
func (c *Client) CheckAvailability(ctx context.Context, mediaType MediaType, tmdbID int) Availability {
	status := c.GetRequestStatus(ctx, mediaType, tmdbID)
	return Availability{
		IsAvailable: status.Status.IsAvailable(),
		IsRequested: len(status.Requests) > 0,
		Status:      status.Status,
		Requests:    status.Requests,
		Error:       status.Error,
	}
}
