package vst2

import "unsafe"

// Effect is a loaded plugin instance (an AEffect). The native binding
// implements it over the C struct; tests substitute their own dispatcher.
//
// Channel slices passed to the process calls must hold at least frames
// samples and there must be at least NumInputs/NumOutputs of them.
type Effect interface {
	// Descriptor reads the current scalar fields of the effect.
	Descriptor() Descriptor

	// Dispatch calls the plugin's dispatcher.
	Dispatch(op EffectOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64

	SetParameter(index int32, value float32)
	GetParameter(index int32) float32

	// ProcessFloat calls processReplacing.
	ProcessFloat(in, out [][]float32, frames int32)

	// ProcessDouble calls processDoubleReplacing.
	ProcessDouble(in, out [][]float64, frames int32)

	// SetUserData stores a host value in the effect's user slot. Passing nil
	// clears it.
	SetUserData(v any)
}

// HostCallback answers requests a plugin issues back into its host.
type HostCallback func(effect Effect, op HostOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64

// EntryPoint is the module's main function. It returns nil when the plugin
// could not be instantiated.
type EntryPoint func(host HostCallback) Effect

// EntrySymbols are the exported names tried, in order, when resolving a
// module's entry point.
var EntrySymbols = []string{"VSTPluginMain", "main"}

// Module is a loaded dynamic library.
type Module interface {
	// Lookup resolves an exported entry point.
	Lookup(symbol string) (EntryPoint, error)

	// Close unloads the library.
	Close() error
}

// Loader opens dynamic libraries.
type Loader interface {
	Open(path string) (Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (Module, error)

// Open calls f(path).
func (f LoaderFunc) Open(path string) (Module, error) {
	return f(path)
}

// Error codes returned by loaders.
type Error int

const (
	ErrModuleNotFound Error = iota + 1
	ErrSymbolNotFound
	ErrUnloadFailed
)

// Error returns the message.
func (e Error) Error() string {
	switch e {
	case ErrModuleNotFound:
		return "module not found"
	case ErrSymbolNotFound:
		return "symbol not found"
	case ErrUnloadFailed:
		return "module unload failed"
	default:
		return "unknown error"
	}
}

// ResolveEntry looks up the first available entry symbol.
func ResolveEntry(m Module) (EntryPoint, error) {
	var lastErr error = ErrSymbolNotFound
	for _, name := range EntrySymbols {
		entry, err := m.Lookup(name)
		if err == nil && entry != nil {
			return entry, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	return nil, lastErr
}
