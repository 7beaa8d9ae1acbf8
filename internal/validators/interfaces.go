// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request models before they reach the services.
// Every operation of a batch is validated up front, so one malformed
// operation rejects the whole request and nothing is written.
package validators

import "context"

// Validator validates obj. When fields are given, only those fields are
// checked; an unknown field name yields ErrUnknownField.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
