package testutil

import (
	"net/http"

	id "eventops/pkg/domain"
	"eventops/pkg/requestcontext"
)

// WithActorID adds an operator ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the actorID is not a valid UUID, it will not be added to the context.
func WithActorID(req *http.Request, actorID string) *http.Request {
	if parsed, err := id.ParseActorID(actorID); err == nil {
		return req.WithContext(requestcontext.WithActorID(req.Context(), parsed))
	}
	return req
}

// WithStation adds a station identifier to the request context.
func WithStation(req *http.Request, stationID string) *http.Request {
	return req.WithContext(requestcontext.WithStationID(req.Context(), stationID))
}

// WithOperator adds both actor and station to the request context.
// This is the typical state for an authenticated scanning-station request.
// Invalid actor IDs are silently ignored.
func WithOperator(req *http.Request, actorID, stationID string) *http.Request {
	r := WithActorID(req, actorID)
	if stationID != "" {
		r = WithStation(r, stationID)
	}
	return r
}
