// Package host loads VST 2.x plugins, drives their lifecycle and chains them
// into a processing pipeline.
//
// A Plugin wraps one loaded effect. Accessors return neutral values (0, "",
// false, nil) while nothing is loaded and out-of-range indices are ignored,
// so callers never need to guard against plugin state. A Chain runs several
// plugins in order, padding and truncating channels between stages.
//
// Neither type is safe for concurrent use. Process calls on one plugin must
// not overlap.
package host

import (
	"fmt"
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/editor"
	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

// stringBufLen is the scratch size for strings returned by plugins. It is
// larger than any SDK limit since many plugins overrun those.
const stringBufLen = 256

// Plugin is a single plugin instance.
type Plugin struct {
	loader vst2.Loader
	cfg    config
	log    *debug.Logger

	path    string
	module  vst2.Module
	effect  vst2.Effect
	surface editor.Surface

	sampleRate float32
	blockSize  int32
	bypass     bool
	suspended  bool
	chainIndex int
}

// NewPlugin creates an unloaded plugin that will open modules through loader.
// The editor surface is created here and lives until Close.
func NewPlugin(loader vst2.Loader, opts ...Option) *Plugin {
	return newPlugin(loader, newConfig(opts))
}

func newPlugin(loader vst2.Loader, cfg config) *Plugin {
	p := &Plugin{
		loader:     loader,
		cfg:        cfg,
		log:        cfg.logger,
		sampleRate: cfg.sampleRate,
		blockSize:  cfg.blockSize,
		suspended:  true,
	}
	if cfg.newEditor != nil {
		p.surface = cfg.newEditor()
	}
	return p
}

// Open creates a plugin, loads path and applies presetFile if it is not
// empty. A preset failure is returned together with the loaded plugin.
func Open(loader vst2.Loader, path, presetFile string, opts ...Option) (*Plugin, error) {
	p := NewPlugin(loader, opts...)
	if err := p.Load(path); err != nil {
		p.Close()
		return nil, err
	}
	if presetFile != "" {
		if err := p.LoadPresetFile(presetFile); err != nil {
			return p, err
		}
	}
	return p, nil
}

// SetPath changes the module path, unloading the current module if the path
// differs.
func (p *Plugin) SetPath(path string) {
	if p.path != path {
		p.Unload()
		p.path = path
	}
}

// Path returns the module path.
func (p *Plugin) Path() string {
	return p.path
}

// Load sets the module path and loads it.
func (p *Plugin) Load(path string) error {
	p.SetPath(path)
	return p.Reload()
}

// Reload unloads and loads the current path again.
func (p *Plugin) Reload() error {
	if p.path == "" {
		return ErrNoPath
	}
	p.Unload()

	module, err := p.loader.Open(p.path)
	if err != nil {
		return p.loadFailed(fmt.Errorf("%w %s: %w", ErrModuleOpen, p.path, err))
	}
	p.module = module

	entry, err := vst2.ResolveEntry(module)
	if err != nil {
		return p.loadFailed(fmt.Errorf("%w in %s: %w", ErrNoEntryPoint, p.path, err))
	}

	effect := entry(p.cfg.protocol.Callback)
	if effect == nil {
		return p.loadFailed(fmt.Errorf("%w: %s", ErrNullEffect, p.path))
	}
	if magic := effect.Descriptor().Magic; magic != vst2.Magic {
		return p.loadFailed(fmt.Errorf("%w: %s reports %#x", ErrBadMagic, p.path, uint32(magic)))
	}
	p.effect = effect

	effect.SetUserData(p.surface)
	var rect *vst2.Rect
	effect.Dispatch(vst2.EffEditGetRect, 0, 0, unsafe.Pointer(&rect), 0)
	if rect != nil && p.surface != nil {
		p.surface.Resize(rect.Width(), rect.Height())
		p.surface.Move(int(rect.Left), int(rect.Top))
	}
	effect.Dispatch(vst2.EffOpen, 0, 0, nil, 0)

	p.SetSampleRate(p.sampleRate)
	p.SetBlockSize(p.blockSize)
	p.SetBypass(p.bypass)

	if p.log.Enabled(debug.LogLevelDebug) {
		p.log.Debug().
			Str("path", p.path).
			Int32("id", p.ID()).
			Str("name", p.EffectName()).
			Msg("plugin loaded")
	}
	return nil
}

func (p *Plugin) loadFailed(err error) error {
	p.effect = nil
	p.releaseModule()
	p.log.Warn().Err(err).Str("path", p.path).Msg("plugin load failed")
	return err
}

func (p *Plugin) releaseModule() error {
	if p.module == nil {
		return nil
	}
	err := p.module.Close()
	p.module = nil
	return err
}

// Unload closes the effect and releases the module. It is a no-op when
// nothing is loaded.
func (p *Plugin) Unload() error {
	if p.effect != nil {
		p.effect.Dispatch(vst2.EffClose, 0, 0, nil, 0)
		p.effect = nil
	}
	if err := p.releaseModule(); err != nil {
		return fmt.Errorf("failed to unload %s: %w", p.path, err)
	}
	return nil
}

// Close unloads the plugin and destroys its editor surface.
func (p *Plugin) Close() error {
	err := p.Unload()
	if p.surface != nil {
		if cerr := p.surface.Close(); err == nil {
			err = cerr
		}
		p.surface = nil
	}
	return err
}

// Clone creates a new instance of the same module with the same parameter
// values, sample rate and block size.
func (p *Plugin) Clone() (*Plugin, error) {
	c := newPlugin(p.loader, p.cfg)
	c.sampleRate = p.sampleRate
	c.blockSize = p.blockSize
	c.path = p.path
	if p.IsLoaded() {
		if err := c.Reload(); err != nil {
			c.Close()
			return nil, err
		}
		c.SetParameters(p.Parameters())
	}
	return c, nil
}

// IsLoaded reports whether an effect is loaded.
func (p *Plugin) IsLoaded() bool {
	return p.effect != nil
}

// Effect returns the loaded effect, or nil.
func (p *Plugin) Effect() vst2.Effect {
	return p.effect
}

// ChainIndex returns the position used to key this plugin's preset group.
func (p *Plugin) ChainIndex() int {
	return p.chainIndex
}

func (p *Plugin) dispatch(op vst2.EffectOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64 {
	if p.effect == nil {
		return 0
	}
	return p.effect.Dispatch(op, index, value, ptr, opt)
}

func (p *Plugin) dispatchString(op vst2.EffectOpcode, index int32) string {
	if p.effect == nil {
		return ""
	}
	var buf [stringBufLen]byte
	p.effect.Dispatch(op, index, 0, unsafe.Pointer(&buf[0]), 0)
	return vst2.CString(buf[:])
}

func (p *Plugin) descriptor() vst2.Descriptor {
	if p.effect == nil {
		return vst2.Descriptor{}
	}
	return p.effect.Descriptor()
}

// Resume switches the plugin on and starts processing.
func (p *Plugin) Resume() {
	if !p.IsLoaded() {
		return
	}
	p.dispatch(vst2.EffMainsChanged, 0, 1, nil, 0)
	p.dispatch(vst2.EffStartProcess, 0, 0, nil, 0)
	p.suspended = false
}

// Suspend stops processing and switches the plugin off.
func (p *Plugin) Suspend() {
	if !p.IsLoaded() {
		return
	}
	p.dispatch(vst2.EffStopProcess, 0, 0, nil, 0)
	p.dispatch(vst2.EffMainsChanged, 0, 0, nil, 0)
	p.suspended = true
}

// IsSuspended reports whether the plugin is switched off.
func (p *Plugin) IsSuspended() bool {
	return p.suspended
}

// SetSampleRate caches sr and sends it to a loaded plugin.
func (p *Plugin) SetSampleRate(sr float32) {
	p.sampleRate = sr
	p.dispatch(vst2.EffSetSampleRate, 0, 0, nil, sr)
}

// SampleRate returns the cached sample rate.
func (p *Plugin) SampleRate() float32 {
	return p.sampleRate
}

// SetBlockSize caches the maximum block size and sends it to a loaded plugin.
// A value of zero or less processes every call as a single block.
func (p *Plugin) SetBlockSize(n int32) {
	p.blockSize = n
	p.dispatch(vst2.EffSetBlockSize, 0, int64(n), nil, 0)
}

// BlockSize returns the cached maximum block size.
func (p *Plugin) BlockSize() int32 {
	return p.blockSize
}

// SetBypass caches the bypass state and sends it to a loaded plugin.
func (p *Plugin) SetBypass(b bool) {
	p.bypass = b
	var v int64
	if b {
		v = 1
	}
	p.dispatch(vst2.EffSetBypass, 0, v, nil, 0)
}

// Bypass returns the cached bypass state.
func (p *Plugin) Bypass() bool {
	return p.bypass
}

// CanDo asks the plugin whether it supports a capability.
func (p *Plugin) CanDo(capability string) bool {
	if !p.IsLoaded() {
		return false
	}
	buf := make([]byte, len(capability)+1)
	copy(buf, capability)
	return p.dispatch(vst2.EffCanDo, 0, 0, unsafe.Pointer(&buf[0]), 0) > 0
}
