package requester

import "github.com/trailerseerr/internal/client/overseerr"

// DisplayStatus is the per-result label shown next to a search result. It is
// derived from mediaInfo only; nothing enforces transitions between values.
type DisplayStatus string

const (
	StatusAvailable    DisplayStatus = "available"
	StatusRequested    DisplayStatus = "requested"
	StatusNotRequested DisplayStatus = "not_requested"
)

// Requestable reports whether the request action should be offered.
func (s DisplayStatus) Requestable() bool {
	return s == StatusNotRequested
}

// ProjectStatus maps mediaInfo to a DisplayStatus. Availability wins over
// existing requests.
func ProjectStatus(info *overseerr.MediaInfo) DisplayStatus {
	if info == nil {
		return StatusNotRequested
	}
	if info.Status.IsAvailable() {
		return StatusAvailable
	}
	if len(info.Requests) > 0 {
		return StatusRequested
	}
	return StatusNotRequested
}
