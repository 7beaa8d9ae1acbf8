package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSyncToken signs an HMAC-SHA256 sync token carrying the user id
// ("uid"), the device id ("did") and issuedAt ("iat", plus "iat_ms" with
// millisecond precision). "exp" is set to
// issuedAt plus ttl for the convenience of clients; it is not checked by
// [ParseSyncToken].
func GenerateSyncToken(userID int64, deviceID string, issuedAt time.Time, ttl time.Duration, signKey string) (string, error) {
	if deviceID == "" || signKey == "" || ttl <= 0 {
		return "", ErrInvalidTokenParams
	}

	claims := &models.SyncTokenClaims{
		UserID:        userID,
		DeviceID:      deviceID,
		IssuedAtMilli: issuedAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	_, tokenString, err := signHS256(claims, signKey)
	return tokenString, err
}

// ParseSyncToken verifies the signature of tokenString and returns its
// claims. Time-based claims are not validated here; the caller decides
// expiry from IssuedAt against its own clock.
func ParseSyncToken(tokenString, signKey string) (*models.SyncTokenClaims, error) {
	claims := &models.SyncTokenClaims{}
	if _, err := parseHS256(tokenString, signKey, claims, jwt.WithoutClaimsValidation()); err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing sync token: %w", err)
	}

	if claims.UserID <= 0 || claims.DeviceID == "" || claims.IssuedAt == nil {
		return nil, errors.New("sync token misses required claims")
	}

	return claims, nil
}
