// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-ledger-sync client. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the remote API address and per-request timeout used by
	// the transport client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds local persistence settings (the SQLite database).
	Storage Storage `envPrefix:"STORAGE_"`

	// Retry holds backoff settings for transient-failure retries.
	Retry Retry `envPrefix:"RETRY_"`

	// Workers holds background worker settings (connectivity probing and the
	// periodic sync job).
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds network settings used by the transport client.
type Adapter struct {
	// BaseURL is the remote API base address, e.g. "https://api.example.com".
	// Env: ADAPTER_ADDRESS
	BaseURL string `env:"ADDRESS"`

	// RequestTimeout is the deadline applied to every outbound HTTP call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB contains local SQLite connection settings.
type DB struct {
	// DSN is the SQLite file path (or ":memory:" in tests).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Retry contains backoff settings applied to transient remote failures.
type Retry struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Env: RETRY_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// InitialDelay is the base delay before the first retry.
	// Env: RETRY_INITIAL_DELAY
	InitialDelay time.Duration `env:"INITIAL_DELAY"`

	// MaxDelay caps the exponential backoff delay.
	// Env: RETRY_MAX_DELAY
	MaxDelay time.Duration `env:"MAX_DELAY"`

	// BackoffMultiplier is the exponential growth factor between attempts.
	// Env: RETRY_BACKOFF_MULTIPLIER
	BackoffMultiplier float64 `env:"BACKOFF_MULTIPLIER"`
}

// Workers contains background worker settings.
type Workers struct {
	// ConnectivityInterval defines how often the connectivity monitor probes
	// the remote API.
	// Env: WORKERS_CONNECTIVITY_INTERVAL
	ConnectivityInterval time.Duration `env:"CONNECTIVITY_INTERVAL"`

	// SyncInterval defines how often the periodic sync job runs a full sync.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// PullLimit bounds the page size requested from the server during the
	// pull phase.
	// Env: WORKERS_PULL_LIMIT
	PullLimit int `env:"PULL_LIMIT"`
}

// GetStructuredConfig assembles the merged configuration from environment
// variables, command-line flags, and the optional JSON file, in that priority
// order.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
