// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoTransportConfigured is returned by NewHandlers when the server
// config names no HTTP and no gRPC address.
var errNoTransportConfigured = errors.New("no transport is configured")
