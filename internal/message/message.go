// Package message implements the action-tagged request/response protocol
// spoken between the UI surfaces and the core.
package message

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trailerseerr/internal/client/apprise"
	"github.com/trailerseerr/internal/client/overseerr"
	"github.com/trailerseerr/internal/parser"
	"github.com/trailerseerr/pkg/logger"
)

// Action names one operation of the protocol.
type Action string

const (
	ActionCleanTitle        Action = "cleanTitle"
	ActionSearchMedia       Action = "searchMedia"
	ActionGetMediaDetails   Action = "getMediaDetails"
	ActionCreateRequest     Action = "createRequest"
	ActionTestConnection    Action = "testConnection"
	ActionCheckAvailability Action = "checkAvailability"
	ActionShowNotification  Action = "showNotification"
	ActionGetVideoInfo      Action = "getVideoInfo"
)

// Request is one inbound message. Which fields matter depends on Action.
// Title is untyped so cleanTitle accepts any JSON value.
type Request struct {
	Action      Action                    `json:"action"`
	Title       any                       `json:"title,omitempty"`
	Description string                    `json:"description,omitempty"`
	Query       string                    `json:"query,omitempty"`
	MediaType   overseerr.MediaType       `json:"mediaType,omitempty"`
	MediaID     int                       `json:"mediaId,omitempty"`
	RequestData *overseerr.RequestPayload `json:"requestData,omitempty"`
	Message     string                    `json:"message,omitempty"`
	Type        apprise.Kind              `json:"type,omitempty"`
	Data        json.RawMessage           `json:"data,omitempty"`
}

// TitleText returns Title when it is a string, "" otherwise.
func (r Request) TitleText() string {
	s, _ := r.Title.(string)
	return s
}

// Response is the tagged result every action answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps data in a successful response.
func Ok(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps err in a failed response.
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// CleanResult is the cleanTitle payload.
type CleanResult struct {
	Cleaned   string           `json:"cleaned"`
	MediaType parser.MediaType `json:"mediaType"`
}

// Requester covers the search and request operations.
type Requester interface {
	Search(ctx context.Context, query string) (*overseerr.SearchResult, error)
	GetDetails(ctx context.Context, mediaType overseerr.MediaType, tmdbID int) (*overseerr.MediaDetails, error)
	RequestMedia(ctx context.Context, payload overseerr.RequestPayload, title string) (*overseerr.Request, error)
}

// Server covers the operations answered by Overseerr itself.
type Server interface {
	TestConnection(ctx context.Context) overseerr.ConnectionResult
	CheckAvailability(ctx context.Context, mediaType overseerr.MediaType, tmdbID int) overseerr.Availability
}

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, title, message string, kind apprise.Kind) error
}

// Dispatcher routes each Request to the operation its action names.
type Dispatcher struct {
	requester Requester
	server    Server
	notifier  Notifier
}

func NewDispatcher(requester Requester, server Server, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		requester: requester,
		server:    server,
		notifier:  notifier,
	}
}

// Dispatch never returns a Go error: failures are reported in the Response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	logger.Debugf("[message] %s", req.Action)

	switch req.Action {
	case ActionCleanTitle:
		cc := parser.CleanAndClassifyAny(req.Title, req.Description)
		return Ok(CleanResult{Cleaned: cc.Cleaned, MediaType: cc.MediaType})

	case ActionSearchMedia:
		res, err := d.requester.Search(ctx, req.Query)
		if err != nil {
			return Fail(err)
		}
		return Ok(res)

	case ActionGetMediaDetails:
		details, err := d.requester.GetDetails(ctx, req.MediaType, req.MediaID)
		if err != nil {
			return Fail(err)
		}
		return Ok(details)

	case ActionCreateRequest:
		var payload overseerr.RequestPayload
		if req.RequestData != nil {
			payload = *req.RequestData
		}
		created, err := d.requester.RequestMedia(ctx, payload, req.TitleText())
		if err != nil {
			return Fail(err)
		}
		return Ok(created)

	case ActionTestConnection:
		res := d.server.TestConnection(ctx)
		if !res.Success {
			return Response{Success: false, Data: res, Error: res.Message}
		}
		return Ok(res)

	case ActionCheckAvailability:
		if !req.MediaType.Valid() {
			return Response{Success: false, Error: fmt.Sprintf("Unsupported media type: %s", req.MediaType)}
		}
		avail := d.server.CheckAvailability(ctx, req.MediaType, req.MediaID)
		if avail.Error != "" {
			return Response{Success: false, Data: avail, Error: avail.Error}
		}
		return Ok(avail)

	case ActionShowNotification:
		kind := req.Type
		if kind == "" {
			kind = apprise.KindInfo
		}
		if d.notifier != nil {
			if err := d.notifier.Notify(ctx, req.TitleText(), req.Message, kind); err != nil {
				logger.Warnf("[message] Notification failed: %v", err)
			}
		}
		return Response{Success: true}

	case ActionGetVideoInfo:
		if len(req.Data) == 0 {
			return Response{Success: true}
		}
		return Ok(req.Data)
	}

	return Response{Success: false, Error: fmt.Sprintf("Unknown action: %s", req.Action)}
}
