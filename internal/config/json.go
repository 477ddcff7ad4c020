package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Retry struct {
		MaxRetries        int      `json:"max_retries"`
		InitialDelay      Duration `json:"initial_delay"`
		MaxDelay          Duration `json:"max_delay"`
		BackoffMultiplier float64  `json:"backoff_multiplier"`
	} `json:"retry,omitempty"`

	Workers struct {
		ConnectivityInterval Duration `json:"connectivity_interval"`
		SyncInterval         Duration `json:"sync_interval"`
		PullLimit            int      `json:"pull_limit"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Retry: Retry{
			MaxRetries:        jsonCfg.Retry.MaxRetries,
			InitialDelay:      time.Duration(jsonCfg.Retry.InitialDelay),
			MaxDelay:          time.Duration(jsonCfg.Retry.MaxDelay),
			BackoffMultiplier: jsonCfg.Retry.BackoffMultiplier,
		},
		Workers: Workers{
			ConnectivityInterval: time.Duration(jsonCfg.Workers.ConnectivityInterval),
			SyncInterval:         time.Duration(jsonCfg.Workers.SyncInterval),
			PullLimit:            jsonCfg.Workers.PullLimit,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
