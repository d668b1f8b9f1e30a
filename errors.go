package borghash

import "errors"

var (
	ErrKeySize   = errors.New("key length does not match the table key size")
	ErrValueSize = errors.New("value length does not match the table value size")
	ErrNotFound  = errors.New("key not found")
	ErrTableFull = errors.New("the reserved index ceiling is reached, no further entries can be stored")
)

var (
	ErrBadKeySize     = errors.New("key size must be at least 4 bytes, the slot index is taken from the first 4")
	ErrBadValueSize   = errors.New("value size must be greater than zero")
	ErrBadLoadFactors = errors.New("load factors must satisfy 0 < min < max < 1")
	ErrBadGrowFactor  = errors.New("grow factors must be greater than 1, the shrink factor below 1")
)

var (
	ErrBadMagic    = errors.New("the stream does not start with the expected magic tag")
	ErrBadVersion  = errors.New("the stream format version is not supported")
	ErrBadMetadata = errors.New("the stream metadata block is invalid")
	ErrTruncated   = errors.New("the stream ended before the declared content was read")
)
