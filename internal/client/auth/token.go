package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/isokodocs/isoko/internal/common"
)

// TokenExpiry reads the exp claim of a JWT access token without verifying
// its signature. The client only uses it to decide whether a rejection is
// worth a renewal and to show the remaining session time.
func TokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, common.ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
