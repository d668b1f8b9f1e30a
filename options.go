package borghash

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the entry budget a table is constructed with when
	// no capacity option is given.
	DefaultCapacity uint32 = 8

	DefaultMaxLoadFactor = 0.5
	DefaultMinLoadFactor = 0.1
	DefaultGrowFactor    = 2.0
	DefaultShrinkFactor  = 0.4
	DefaultKVGrowFactor  = 1.3
)

type tableOptions struct {
	capacity      uint32
	maxLoadFactor float64
	minLoadFactor float64
	growFactor    float64
	shrinkFactor  float64
	kvGrowFactor  float64
	valueLayout   string
	log           *zap.SugaredLogger
}

// Option configures a table at construction time.
type Option func(*tableOptions)

// WithCapacity sets the initial entry budget: the dense buffers are sized
// for n entries and the slot array so that n entries fit under the max load
// factor. The budget also becomes the size everything returns to on Clear.
func WithCapacity(n uint32) Option {
	return func(o *tableOptions) {
		o.capacity = n
	}
}

// WithMaxLoadFactor sets the occupancy ratio (live plus tombstoned slots
// over capacity) above which the slot array grows.
func WithMaxLoadFactor(f float64) Option {
	return func(o *tableOptions) {
		o.maxLoadFactor = f
	}
}

// WithMinLoadFactor sets the live occupancy ratio below which the slot
// array shrinks.
func WithMinLoadFactor(f float64) Option {
	return func(o *tableOptions) {
		o.minLoadFactor = f
	}
}

// WithGrowFactor sets the slot array growth multiplier.
func WithGrowFactor(f float64) Option {
	return func(o *tableOptions) {
		o.growFactor = f
	}
}

// WithShrinkFactor sets the slot array shrink multiplier.
func WithShrinkFactor(f float64) Option {
	return func(o *tableOptions) {
		o.shrinkFactor = f
	}
}

// WithKVGrowFactor sets the dense buffer growth multiplier.
func WithKVGrowFactor(f float64) Option {
	return func(o *tableOptions) {
		o.kvGrowFactor = f
	}
}

// WithValueLayout attaches an opaque layout descriptor for the value bytes.
// The table does not interpret it, it is carried through the persisted
// metadata so typed codecs layered on top can recover their field layout.
func WithValueLayout(layout string) Option {
	return func(o *tableOptions) {
		o.valueLayout = layout
	}
}

// WithLogger routes debug events (resize, rehash, codec activity) to log.
// Without it the table is silent.
func WithLogger(log *zap.Logger) Option {
	return func(o *tableOptions) {
		o.log = log.Sugar()
	}
}

func defaultOptions() tableOptions {
	return tableOptions{
		capacity:      DefaultCapacity,
		maxLoadFactor: DefaultMaxLoadFactor,
		minLoadFactor: DefaultMinLoadFactor,
		growFactor:    DefaultGrowFactor,
		shrinkFactor:  DefaultShrinkFactor,
		kvGrowFactor:  DefaultKVGrowFactor,
		log:           zap.NewNop().Sugar(),
	}
}

// validate rejects factor combinations the resize policies cannot run
// under. NaN compares false against everything, it has to be ruled out
// explicitly or it would slip through every range check.
func (o *tableOptions) validate() error {
	if math.IsNaN(o.minLoadFactor) || math.IsNaN(o.maxLoadFactor) ||
		o.minLoadFactor <= 0 || o.maxLoadFactor >= 1 || o.minLoadFactor >= o.maxLoadFactor {
		return ErrBadLoadFactors
	}
	if math.IsNaN(o.growFactor) || math.IsNaN(o.kvGrowFactor) || math.IsNaN(o.shrinkFactor) ||
		o.growFactor <= 1 || o.kvGrowFactor <= 1 || o.shrinkFactor <= 0 || o.shrinkFactor >= 1 {
		return ErrBadGrowFactor
	}
	return nil
}
