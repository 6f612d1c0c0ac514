// Optional caches for network lookups made while moderating posts.
//
// Values are stored as JSON strings under a namespace and key, with a fixed TTL. Implementations use in-process memory or redis. Caching is disabled unless a store is configured; a nil store is never dereferenced by callers in this module.
package cachestore
