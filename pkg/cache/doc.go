// Package cache persists function results on disk, keyed by a deterministic
// fingerprint of the call arguments. Each function gets one JSON table under
// the cache directory; values are stored as tagged payloads so that results
// of any type can be cached: JSON-native values are embedded directly,
// gob-encodable values are stored as hex-encoded bytes, and everything else
// falls back to its string form.
//
// Entries live until explicitly cleared; there is no TTL or eviction.
package cache
