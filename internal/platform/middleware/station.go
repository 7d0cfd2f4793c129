package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"eventops/pkg/requestcontext"
)

// StationMetadata extracts the scanning-station identifier and a readable
// device description from the request for the audit trail. The X-Station-Id
// header (set by the station frontend) wins over any station claim already in
// context.
func StationMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if stationID := r.Header.Get("X-Station-Id"); stationID != "" {
			ctx = requestcontext.WithStationID(ctx, stationID)
		}
		if device := describeDevice(r.Header.Get("User-Agent")); device != "" {
			ctx = requestcontext.WithStationDevice(ctx, device)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// describeDevice turns a raw User-Agent into "Browser x.y on OS" for audit
// records. Unparseable agents are passed through truncated.
func describeDevice(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		if len(rawUA) > 64 {
			return rawUA[:64]
		}
		return rawUA
	}
	desc := name
	if version != "" {
		desc += " " + version
	}
	if os := ua.OS(); os != "" {
		desc += " on " + os
	}
	return desc
}
