package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "eventops/pkg/domain"
	"eventops/pkg/requestcontext"
)

// JWTValidator defines the interface for validating operator tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	ActorID   string
	StationID string
}

// RequireOperator validates the bearer token and injects the operator's actor
// ID (and station, when the token carries one) into the request context.
// Token issuance is owned by the surrounding platform; this service only
// validates.
func RequireOperator(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "missing bearer token",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			actorID, err := id.ParseActorID(claims.ActorID)
			if err != nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			ctx = requestcontext.WithActorID(ctx, actorID)
			if claims.StationID != "" {
				ctx = requestcontext.WithStationID(ctx, claims.StationID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
