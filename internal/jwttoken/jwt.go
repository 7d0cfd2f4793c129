package jwttoken

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"eventops/internal/platform/middleware"
	dErrors "eventops/pkg/domainerrors"
)

// Claims represents the JWT claims issued to scanning-station operators by
// the platform's auth service. This service validates but never issues.
type Claims struct {
	ActorID   string `json:"actor_id"`
	StationID string `json:"station_id,omitempty"`
	jwt.RegisteredClaims
}

// Service validates operator access tokens.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey string, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// ValidateToken parses and verifies a token, returning middleware claims.
func (s *Service) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.ActorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing actor")
	}

	return &middleware.JWTClaims{
		ActorID:   claims.ActorID,
		StationID: claims.StationID,
	}, nil
}
