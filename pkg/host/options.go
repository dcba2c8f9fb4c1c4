package host

import (
	"github.com/justyntemme/vst2host/pkg/editor"
	"github.com/justyntemme/vst2host/pkg/framework/debug"
)

// Defaults applied to new plugins.
const (
	DefaultSampleRate float32 = 8000
	DefaultBlockSize  int32   = 4096
)

type config struct {
	protocol     *Protocol
	newEditor    editor.Factory
	logger       *debug.Logger
	profiler     *debug.Profiler
	sampleRate   float32
	blockSize    int32
	legacyDouble bool
}

// Option configures a Plugin or Chain.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		newEditor:  editor.DetachedFactory,
		sampleRate: DefaultSampleRate,
		blockSize:  DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = debug.Default()
	}
	if cfg.protocol == nil {
		cfg.protocol = NewProtocol()
		cfg.protocol.Logger = cfg.logger
	}
	return cfg
}

// WithProtocol sets the host callback protocol handed to entry points.
func WithProtocol(p *Protocol) Option {
	return func(c *config) {
		c.protocol = p
	}
}

// WithEditor sets the factory for editor surfaces.
func WithEditor(f editor.Factory) Option {
	return func(c *config) {
		c.newEditor = f
	}
}

// WithLogger sets the logger. The default is debug.Default().
func WithLogger(l *debug.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProfiler records chain stage timings into p.
func WithProfiler(p *debug.Profiler) Option {
	return func(c *config) {
		c.profiler = p
	}
}

// WithSampleRate sets the initial sample rate.
func WithSampleRate(sr float32) Option {
	return func(c *config) {
		c.sampleRate = sr
	}
}

// WithBlockSize sets the initial maximum block size.
func WithBlockSize(n int32) Option {
	return func(c *config) {
		c.blockSize = n
	}
}

// WithLegacyDoublePrecision makes the 64-bit process path announce 32-bit
// precision to the plugin, as some older hosts did.
func WithLegacyDoublePrecision() Option {
	return func(c *config) {
		c.legacyDouble = true
	}
}
