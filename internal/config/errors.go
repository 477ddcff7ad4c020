package config

import "errors"

var (
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configs: base url and request timeout are required")
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")
	ErrInvalidRetryConfigs   = errors.New("invalid retry configs: delays must not exceed max delay")
)
