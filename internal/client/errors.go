package client

import "errors"

// ErrServicesNotConfigured is returned by NewApp when the client services
// are missing.
var ErrServicesNotConfigured = errors.New("client services are not configured")
