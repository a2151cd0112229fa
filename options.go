package galgo

import (
	"log/slog"

	"github.com/hupe1980/galgo/codec"
	"github.com/hupe1980/galgo/engine"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	policy           engine.MaintenancePolicy
	compression      engine.Compression
}

// Option configures Gallery constructor/load behavior.
type Option func(*options)

// WithCodec configures the codec used to encode snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMaintenancePolicy configures when album indexes are built.
//
// Under MaintenanceEager (the default) every album index is updated on each
// write, so queries never pay a build cost. Under MaintenanceLazy an album's
// index is built on its first query, which speeds up bulk ingestion of data
// whose albums are mostly never queried. Query results are identical under
// both policies.
func WithMaintenancePolicy(policy engine.MaintenancePolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithSnapshotCompression sets the block compression used when saving
// snapshots. The default is Zstd. Loading auto-detects the compression
// recorded in the snapshot, so this only affects writes.
func WithSnapshotCompression(c engine.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &galgo.BasicMetricsCollector{}
//	g := galgo.New(galgo.WithMetricsCollector(metrics))
//	// ... use g ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := galgo.NewJSONLogger(slog.LevelInfo)
//	g := galgo.New(galgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		policy:           engine.MaintenanceEager,
		compression:      engine.CompressionZstd,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
