package config

import "errors"

var (
	ErrParsingConfig           = errors.New("failed to parse environment variables into config")
	ErrLoadingEnvFile          = errors.New("failed to load env file")
	ErrNilPointer              = errors.New("nil pointer provided to config loader")
	ErrMissingPaymentConfig    = errors.New("payment configuration is incomplete")
	ErrDuplicatePriceID        = errors.New("payment plans share a price id")
	ErrMissingGenerationConfig = errors.New("generation configuration is incomplete")
	ErrInvalidStorageDriver    = errors.New("invalid storage driver")
	ErrMissingStorageConfig    = errors.New("storage configuration is incomplete")
)
