// Package utils holds small helpers shared by the server and the client
// agent: request identity in the context, HMAC integrity hashes, JWT access
// and sync tokens, JSON request and response helpers, the resty client and
// id generation.
package utils

import (
	"context"
)

// contextKey keeps our keys apart from string keys set by other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the int64 id of the authenticated user.
	UserIDCtxKey = contextKey("userID")

	// DeviceIDCtxKey holds the device id of a request authenticated with a
	// sync token. Requests authenticated with an access token carry none.
	DeviceIDCtxKey = contextKey("deviceID")
)

// WithIdentity stores the authenticated user and, when non-empty, the
// device in ctx.
func WithIdentity(ctx context.Context, userID int64, deviceID string) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, userID)
	if deviceID != "" {
		ctx = context.WithValue(ctx, DeviceIDCtxKey, deviceID)
	}
	return ctx
}

// GetUserIDFromContext returns the user id stored by the auth middleware.
// ok is false when it is missing or not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetDeviceIDFromContext returns the device id stored by the auth middleware.
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID, ok && deviceID != ""
}
