package http

import "errors"

// ErrEmptyAuthorizationHeader is written with a 401 when a protected route
// is called without credentials.
var ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")
