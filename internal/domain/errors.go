package domain

import "errors"

var (
	// ErrInvalidInput is returned when engine inputs fail boundary validation
	ErrInvalidInput = errors.New("invalid input parameters")

	// ErrPriceFeedFailure is returned when a price feed request fails
	ErrPriceFeedFailure = errors.New("price feed request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
