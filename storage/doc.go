// Package storage provides per-bot Storage implementations: a volatile
// in-memory store for tests and prototypes, a SQLite-backed store for
// single-instance durable deployments and a Redis-backed store for shared
// deployments. Model artifacts are immutable blobs named
// "{unix-ms}__{fingerprint}.bin"; lookups match on the fingerprint suffix and
// prefer the newest artifact.
package storage
