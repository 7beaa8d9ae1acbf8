// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the headless device agent.
//
// It signs the device in, then runs background synchronization of the local
// outbox and checklist mirror against the server until the process stops.
package client
