// Package config provides configuration loading, merging, and validation
// for the sync server and the client agent.
//
// Configuration is assembled from multiple sources in the following order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file (-c/-config or CONFIG)
//
// Sources are merged with mergo, so a field keeps the first non-zero value
// found in that order. Defaults fill whatever is still unset.
//
// The main entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client agent.
package config
