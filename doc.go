// Package borghash is a memory-efficient associative store for
// fixed-length, uniformly random byte keys (digests) mapped to fixed-length
// byte values.
//
// It is built to be embedded in systems that keep millions of key/value
// pairs resident: content-addressed stores, deduplication engines, chunk
// indexes. The design goals are minimal per-entry overhead and a stable
// 32-bit integer handle (the kv-index) for every stored pair.
//
// # Structure
//
// A table is an open-addressing slot array over two dense byte buffers:
//
//	slot array            keys arena        values arena
//	+-----------+         +-----------+     +-----------+
//	| kv-index  |-------->| key bytes |     | val bytes |
//	| FREE      |         +-----------+     +-----------+
//	| TOMBSTONE |         | key bytes |     | val bytes |
//	| kv-index  |         +-----------+     +-----------+
//	+-----------+             ...               ...
//
// Insertion appends key and value to the arenas and records the assigned
// kv-index in a slot. Resizing rehashes only the 4-byte slots, never the
// entry bytes, so kv-indices survive any resize. Deletion zeroes the entry
// bytes and tombstones the slot; dense space is only compacted by writing
// the table to a stream and reading it back, which renumbers all
// kv-indices.
//
// Keys must be well distributed: the slot index is the first 4 key bytes
// modulo capacity, there is no internal hash function. Callers with weaker
// keys must hash before inserting.
//
// A table is single-owner. Nothing in it synchronizes, callers requiring
// shared access serialize it externally.
package borghash
