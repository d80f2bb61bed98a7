// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour

// MarketCachePrefix is the prefix used for cached market ticker payloads.
const MarketCachePrefix = "market:"

// MarketCacheTTL is how long mock ticker snapshots stay cached.
const MarketCacheTTL = 30 * time.Second
