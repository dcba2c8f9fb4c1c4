package host

import (
	"fmt"
	"math"

	"github.com/justyntemme/vst2host/pkg/editor"
	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

// Chain is an ordered list of plugins. Audio flows from the first plugin to
// the last.
type Chain struct {
	loader  vst2.Loader
	cfg     config
	log     *debug.Logger
	plugins []*Plugin
}

// NewChain creates an empty chain. Options apply to every plugin it loads.
func NewChain(loader vst2.Loader, opts ...Option) *Chain {
	cfg := newConfig(opts)
	return &Chain{
		loader: loader,
		cfg:    cfg,
		log:    cfg.logger.With("chain"),
	}
}

// Load replaces the chain with one plugin per path. If any path fails to
// load the chain is left empty.
func (c *Chain) Load(paths ...string) error {
	c.clear()
	plugins := make([]*Plugin, 0, len(paths))
	for i, path := range paths {
		p := newPlugin(c.loader, c.cfg)
		if err := p.Load(path); err != nil {
			p.Close()
			closeAll(plugins)
			return fmt.Errorf("chain position %d: %w", i, err)
		}
		plugins = append(plugins, p)
	}
	c.plugins = plugins
	c.log.Debug().Int("plugins", len(plugins)).Msg("chain loaded")
	return nil
}

// Unload unloads every plugin, stopping at the first failure. The plugins
// stay in the chain and can be reloaded.
func (c *Chain) Unload() error {
	for _, p := range c.plugins {
		if err := p.Unload(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every plugin and empties the chain.
func (c *Chain) Close() {
	c.clear()
}

func (c *Chain) clear() {
	closeAll(c.plugins)
	c.plugins = nil
}

func closeAll(plugins []*Plugin) {
	for _, p := range plugins {
		p.Close()
	}
}

// Len returns the number of positions, placeholders included.
func (c *Chain) Len() int {
	return len(c.plugins)
}

// At returns the plugin at position i, or nil.
func (c *Chain) At(i int) *Plugin {
	if i < 0 || i >= len(c.plugins) {
		return nil
	}
	return c.plugins[i]
}

// Plugins returns the plugins in signal order.
func (c *Chain) Plugins() []*Plugin {
	return append([]*Plugin(nil), c.plugins...)
}

// Paths returns the module path of each plugin.
func (c *Chain) Paths() []string {
	paths := make([]string, len(c.plugins))
	for i, p := range c.plugins {
		paths[i] = p.Path()
	}
	return paths
}

// Resume resumes every plugin.
func (c *Chain) Resume() {
	for _, p := range c.plugins {
		p.Resume()
	}
}

// Suspend suspends every plugin.
func (c *Chain) Suspend() {
	for _, p := range c.plugins {
		p.Suspend()
	}
}

// SetBypass sets the bypass state of every plugin.
func (c *Chain) SetBypass(b bool) {
	for _, p := range c.plugins {
		p.SetBypass(b)
	}
}

// SetSampleRate sets the sample rate of every plugin.
func (c *Chain) SetSampleRate(sr float32) {
	for _, p := range c.plugins {
		p.SetSampleRate(sr)
	}
}

// SetBlockSize sets the maximum block size of every plugin.
func (c *Chain) SetBlockSize(n int32) {
	for _, p := range c.plugins {
		p.SetBlockSize(n)
	}
}

// Editors returns each plugin's editor surface.
func (c *Chain) Editors() []editor.Surface {
	surfaces := make([]editor.Surface, len(c.plugins))
	for i, p := range c.plugins {
		surfaces[i] = p.Editor()
	}
	return surfaces
}

// InputsCount returns the smallest input count in the chain.
func (c *Chain) InputsCount() int {
	return c.minOf((*Plugin).InputsCount)
}

// OutputsCount returns the smallest output count in the chain.
func (c *Chain) OutputsCount() int {
	return c.minOf((*Plugin).OutputsCount)
}

func (c *Chain) minOf(count func(*Plugin) int) int {
	if len(c.plugins) == 0 {
		return 0
	}
	n := math.MaxInt
	for _, p := range c.plugins {
		n = min(n, count(p))
	}
	return n
}

// CanProcessFloat reports whether every plugin supports 32-bit processing.
func (c *Chain) CanProcessFloat() bool {
	return c.all((*Plugin).CanProcessFloat)
}

// CanProcessDouble reports whether every plugin supports 64-bit processing.
func (c *Chain) CanProcessDouble() bool {
	return c.all((*Plugin).CanProcessDouble)
}

func (c *Chain) all(ok func(*Plugin) bool) bool {
	if len(c.plugins) == 0 {
		return false
	}
	for _, p := range c.plugins {
		if !ok(p) {
			return false
		}
	}
	return true
}

// LinksCount returns the number of channels that can pass through the whole
// chain: the minimum over the input counts of every plugin but the first
// and the output counts of every plugin. An empty chain yields 0.
func (c *Chain) LinksCount() int {
	if len(c.plugins) == 0 {
		return 0
	}
	n := math.MaxInt
	for i, p := range c.plugins {
		if i > 0 {
			n = min(n, p.InputsCount())
		}
		n = min(n, p.OutputsCount())
	}
	return n
}

// IsGenerator reports whether the first plugin takes no input.
func (c *Chain) IsGenerator() bool {
	if len(c.plugins) == 0 {
		return false
	}
	return c.plugins[0].IsGenerator()
}

// CanProcess reports whether n input channels can be processed. Zero
// channels are accepted only by a generator chain.
func (c *Chain) CanProcess(n int) bool {
	switch {
	case n < 0:
		return false
	case n == 0:
		return c.IsGenerator()
	default:
		return n <= c.LinksCount()
	}
}
