//go:build windows

package native

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/justyntemme/vst2host/pkg/vst2"
)

// Loader opens plugin DLLs with LoadLibrary.
type Loader struct{}

var _ vst2.Loader = Loader{}

type module struct {
	path   string
	handle windows.Handle
}

// Open loads the DLL at path.
func (Loader) Open(path string) (vst2.Module, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", vst2.ErrModuleNotFound, path, err)
	}
	return &module{path: path, handle: h}, nil
}

// Lookup resolves an exported entry point.
func (m *module) Lookup(symbol string) (vst2.EntryPoint, error) {
	if m.handle == 0 {
		return nil, fmt.Errorf("%w: %s: module closed", vst2.ErrSymbolNotFound, symbol)
	}
	proc, err := windows.GetProcAddress(m.handle, symbol)
	if err != nil || proc == 0 {
		return nil, fmt.Errorf("%w: %s in %s", vst2.ErrSymbolNotFound, symbol, m.path)
	}
	// proc is a code address inside the DLL, not Go memory.
	fn := *(*unsafe.Pointer)(unsafe.Pointer(&proc))
	return func(host vst2.HostCallback) vst2.Effect {
		return invokeEntry(fn, host)
	}, nil
}

// Close unloads the DLL.
func (m *module) Close() error {
	if m.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(m.handle)
	m.handle = 0
	if err != nil {
		return fmt.Errorf("%w: %s: %v", vst2.ErrUnloadFailed, m.path, err)
	}
	return nil
}
