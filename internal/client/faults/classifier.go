// Package faults is the single funnel for request failures: it classifies
// them, produces user feedback, and tears down the session when the server
// says the credentials are no longer good.
package faults

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avelez/repairdesk/internal/client/api"
	"github.com/avelez/repairdesk/internal/client/notify"
	"github.com/avelez/repairdesk/internal/logging"
)

// BurstWindow is the dedup window of the handler's notification service.
// It is wider than the generic UI window so a page worth of simultaneous
// request failures collapses into one message.
const BurstWindow = 5 * time.Second

// ErrStaleClient marks a failure caused by the running binary being older
// than the server expects. The remedy is an update, not a retry.
var ErrStaleClient = errors.New("client build out of date")

// Kind is the failure taxonomy.
type Kind string

const (
	KindNetwork            Kind = "network"
	KindBadRequest         Kind = "bad_request"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindUnprocessable      Kind = "unprocessable"
	KindRateLimited        Kind = "rate_limited"
	KindServerError        Kind = "server_error"
	KindServiceUnavailable Kind = "service_unavailable"
	KindStaleClient        Kind = "stale_client"
	KindRuntime            Kind = "runtime"
	KindUnknown            Kind = "unknown"
)

// Failure is a classified error ready for presentation.
type Failure struct {
	Kind     Kind
	Status   int
	Severity notify.Severity
	Summary  string
	Detail   string
	Sticky   bool
}

// Classify maps an error onto the failure taxonomy. A server-provided
// message extracted from the response body wins over the canned detail.
func Classify(err error) Failure {
	if errors.Is(err, ErrStaleClient) {
		return Failure{
			Kind:     KindStaleClient,
			Severity: notify.SeverityWarn,
			Summary:  "Update required",
			Detail:   "A new version of the application is available, please update",
			Sticky:   true,
		}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		f := classifyStatus(apiErr.Status)
		if msg := ExtractMessage(apiErr.Body); msg != "" {
			f.Detail = msg
		}
		return f
	}

	if errors.Is(err, api.ErrNoResponse) {
		return Failure{
			Kind:     KindNetwork,
			Severity: notify.SeverityError,
			Summary:  "Network error",
			Detail:   "Unable to contact the server, check your connection",
			Sticky:   true,
		}
	}

	// a local failure that never left the process
	return Failure{
		Kind:     KindRuntime,
		Severity: notify.SeverityError,
		Summary:  "Unexpected error",
		Detail:   "Something went wrong, please try again",
	}
}

func classifyStatus(status int) Failure {
	f := Failure{Status: status, Severity: notify.SeverityError}

	switch status {
	case http.StatusBadRequest:
		f.Kind = KindBadRequest
		f.Severity = notify.SeverityWarn
		f.Summary = "Invalid request"
		f.Detail = "The request could not be processed"
	case http.StatusUnauthorized:
		f.Kind = KindUnauthorized
		f.Severity = notify.SeverityWarn
		f.Summary = "Session expired"
		f.Detail = "Your session has expired, please sign in again"
		f.Sticky = true
	case http.StatusForbidden:
		f.Kind = KindForbidden
		f.Summary = "Permission denied"
		f.Detail = "You do not have permission to perform this action"
	case http.StatusNotFound:
		f.Kind = KindNotFound
		f.Summary = "Not found"
		f.Detail = "The requested resource does not exist"
	case http.StatusConflict:
		f.Kind = KindConflict
		f.Severity = notify.SeverityWarn
		f.Summary = "Conflict"
		f.Detail = "The operation conflicts with the current state of the data"
	case http.StatusUnprocessableEntity:
		f.Kind = KindUnprocessable
		f.Severity = notify.SeverityWarn
		f.Summary = "Validation error"
		f.Detail = "Some of the submitted fields are invalid"
	case http.StatusTooManyRequests:
		f.Kind = KindRateLimited
		f.Severity = notify.SeverityWarn
		f.Summary = "Too many requests"
		f.Detail = "Please wait a moment and try again"
		f.Sticky = true
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		f.Kind = KindServiceUnavailable
		f.Summary = "Service unavailable"
		f.Detail = "The server is temporarily unavailable, try again shortly"
		f.Sticky = true
	default:
		if status >= 500 {
			f.Kind = KindServerError
			f.Summary = "Server error"
			f.Detail = "Something failed on the server, try again later"
			f.Sticky = true
		} else {
			f.Kind = KindUnknown
			f.Summary = "Unexpected error"
			f.Detail = fmt.Sprintf("Request failed with status %d", status)
		}
	}

	return f
}

// SessionControl is what the handler needs from the session store.
type SessionControl interface {
	ForceLogout(ctx context.Context, reason string)
}

// Handler receives every failed request outcome and decides what the user
// sees and whether the session survives. It owns its notification service,
// so repeated identical failures inside BurstWindow surface once.
type Handler struct {
	sessions SessionControl
	notify   *notify.Service
	log      logging.Logger
}

// NewHandler wires a fault handler to the session store and a
// presentation sink.
func NewHandler(sessions SessionControl, sink notify.Sink, log logging.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		notify:   notify.NewService(sink, BurstWindow),
		log:      log,
	}
}

// Close releases the handler's notification dedup state.
func (h *Handler) Close() {
	h.notify.Close()
}

// Handle processes one failure. Safe for concurrent use: a burst of
// simultaneous 401s produces at most one session teardown and one
// notification.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if api.IsLoginPath(apiErr.URL) {
			// a rejected login attempt belongs to the login flow
			h.log.Debug(ctx, "login rejected by server", "url", apiErr.URL)
			return
		}
		h.log.Info(ctx, "unauthorized response, terminating session", "url", apiErr.URL)
		h.sessions.ForceLogout(ctx, "session_expired")
		h.notify.SessionExpired()
		return
	}

	f := Classify(err)
	h.log.Warn(ctx, "request failed",
		"kind", string(f.Kind),
		"status", f.Status,
		"error", err,
	)

	// network and forbidden failures use the canned notifications so every
	// path to them shares one dedup key
	switch f.Kind {
	case KindNetwork:
		h.notify.NetworkError()
	case KindForbidden:
		h.notify.PermissionError()
	default:
		h.notify.Emit(notify.Notification{
			Severity: f.Severity,
			Summary:  f.Summary,
			Detail:   f.Detail,
			Sticky:   f.Sticky,
		})
	}
}
