package config

import (
	"fmt"
	"time"
)

// Defaults applied by GetClientConfig when a value is absent from every
// configuration source.
const (
	DefaultRequestTimeout       = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultInitialDelay         = 1 * time.Second
	DefaultMaxDelay             = 10 * time.Second
	DefaultBackoffMultiplier    = 2.0
	DefaultConnectivityInterval = 30 * time.Second
	DefaultSyncInterval         = 5 * time.Minute
	DefaultPullLimit            = 200
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the remote API endpoint address used by the client.
	BaseURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientRetry contains backoff settings for transient remote failures.
type ClientRetry struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// ConnectivityInterval defines how often reachability is probed.
	ConnectivityInterval time.Duration
	// SyncInterval defines how often the periodic full sync runs.
	SyncInterval time.Duration
	// PullLimit bounds the server page size during the pull phase.
	PullLimit int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains transport address and timeout settings.
	Adapter ClientAdapter
	// Storage contains local storage settings.
	Storage ClientStorage
	// Retry contains retry/backoff settings.
	Retry ClientRetry
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client config view from the merged
// structured configuration, applying defaults for every unset value.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Retry: ClientRetry{
			MaxRetries:        cfg.Retry.MaxRetries,
			InitialDelay:      cfg.Retry.InitialDelay,
			MaxDelay:          cfg.Retry.MaxDelay,
			BackoffMultiplier: cfg.Retry.BackoffMultiplier,
		},
		Workers: ClientWorkers{
			ConnectivityInterval: cfg.Workers.ConnectivityInterval,
			SyncInterval:         cfg.Workers.SyncInterval,
			PullLimit:            cfg.Workers.PullLimit,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry.MaxRetries = DefaultMaxRetries
	}
	if cfg.Retry.InitialDelay <= 0 {
		cfg.Retry.InitialDelay = DefaultInitialDelay
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = DefaultMaxDelay
	}
	if cfg.Retry.BackoffMultiplier <= 1 {
		cfg.Retry.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if cfg.Workers.ConnectivityInterval <= 0 {
		cfg.Workers.ConnectivityInterval = DefaultConnectivityInterval
	}
	if cfg.Workers.SyncInterval <= 0 {
		cfg.Workers.SyncInterval = DefaultSyncInterval
	}
	if cfg.Workers.PullLimit <= 0 {
		cfg.Workers.PullLimit = DefaultPullLimit
	}
}
