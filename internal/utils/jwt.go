package utils // package utils provides helpers for token creation and secret hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewSchedulerToken builds and signs the HS256 bearer token the external
// scheduler presents when triggering the daily reset over HTTP.  The
// token carries a fixed subject so the middleware can tell scheduler
// calls apart in logs, plus standard exp/iat claims.
func NewSchedulerToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": "daily-reset",
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
