package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an access JWT issued on register/login.
//
// UserID is a cached copy of the "sub" claim parsed as int64 and is filled
// in when the token is validated.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	UserID int64 `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (t *Token) GetUserID() (int64, error) {
	userIDString, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String implements [fmt.Stringer].
func (t *Token) String() string {
	return t.SignedString
}

// SyncTokenClaims is the claim set of a device sync token: the user, the
// device and the issue instant. "iat" only has whole-second precision, so
// the instant is also carried in milliseconds ("iat_ms"). Expiry is
// evaluated from [SyncTokenClaims.IssuedAtTime] by the issuing service;
// "exp" is informational.
type SyncTokenClaims struct {
	UserID        int64  `json:"uid"`
	DeviceID      string `json:"did"`
	IssuedAtMilli int64  `json:"iat_ms,omitempty"`
	jwt.RegisteredClaims
}

// IssuedAtTime returns the issue instant with millisecond precision,
// falling back to "iat" for tokens without "iat_ms".
func (c *SyncTokenClaims) IssuedAtTime() time.Time {
	if c.IssuedAtMilli > 0 {
		return time.UnixMilli(c.IssuedAtMilli).UTC()
	}
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// SyncSession is the identity carried by a valid sync token.
type SyncSession struct {
	UserID   int64     `json:"user_id"`
	DeviceID string    `json:"device_id"`
	IssuedAt time.Time `json:"issued_at"`
}

// SyncToken is the response of POST /api/sync/token.
type SyncToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SyncTokenRequest is the body of POST /api/sync/token.
type SyncTokenRequest struct {
	DeviceID string `json:"device_id"`
}
