package constants

import "time"

// Valkey key prefixes. CacheBuilder.WithHash joins prefix and key with a colon.
const (
	UserCachePrefix = "user"
	UserCacheExpiry = 24 * time.Hour

	RequestsCachePrefix      = "requests"
	RequestsCacheIndexPrefix = "requests:index"
	RequestsCacheExpiry      = 10 * time.Minute // list views only; single requests are always read fresh
)
