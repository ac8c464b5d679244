package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/extmem"
)

type config struct {
	heap   extmem.Heap
	logger *zap.Logger
	strict bool
}

func defaultConfig() config {
	return config{strict: true}
}

// Option configures a Bridge.
type Option func(*config)

// WithHeap sets the heap that resolves host pointers for the external
// memory Mat constructor. Without a heap that constructor fails with
// KindNotInitialized.
func WithHeap(h extmem.Heap) Option {
	return func(c *config) { c.heap = h }
}

// WithLogger sets the logger for handle lifecycle and call tracing.
// Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStrictImageRecords controls whether image records whose data is
// shorter than width*height*elemSize are rejected (the default) or
// zero-padded.
func WithStrictImageRecords(strict bool) Option {
	return func(c *config) { c.strict = strict }
}
