// File: utils/constants.go
package utils

// AvailabilityCachePrefix is the prefix used for Redis availability cache keys.
const AvailabilityCachePrefix = "availability:"

// AvailabilityGenerationPrefix keys the per-doctor counter bumped on every invalidation.
const AvailabilityGenerationPrefix = "availability_gen:"

// Gin context keys.
const (
	SessionContextKey = "session"
	RequestIDKey      = "requestID"
)
