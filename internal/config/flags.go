package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote API base URL
//	-d local database path (SQLite file)
//	-c/-config json file path with configs
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-sync-interval periodic full sync interval (e.g., "5m")
//	-connectivity-interval reachability probe interval (e.g., "30s")
//	-pull-limit server page size for the pull phase
func ParseFlags() *StructuredConfig {
	var baseURL string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var connectivityInterval time.Duration
	var pullLimit int

	flag.StringVar(&baseURL, "a", "", "Remote API base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic full sync interval (e.g., 5m)")
	flag.DurationVar(&connectivityInterval, "connectivity-interval", 0, "Reachability probe interval (e.g., 30s)")
	flag.IntVar(&pullLimit, "pull-limit", 0, "Server page size for the pull phase")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			ConnectivityInterval: connectivityInterval,
			SyncInterval:         syncInterval,
			PullLimit:            pullLimit,
		},
		JSONFilePath: jsonConfigPath,
	}
}
