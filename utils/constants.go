package utils

import "time"

// AuthCachePrefix is the prefix used for Redis session-token cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for session-token cache entries.
const AuthCacheTTL = time.Hour

// SessionTokenTTL is how long an issued login token stays valid.
const SessionTokenTTL = 72 * time.Hour
