//go:build !windows

package native

// #cgo linux LDFLAGS: -ldl
// #include <dlfcn.h>
// #include <stdlib.h>
import "C"
import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/vst2"
)

// Loader opens plugin modules with dlopen.
type Loader struct{}

var _ vst2.Loader = Loader{}

type module struct {
	path   string
	handle unsafe.Pointer
}

// Open loads the shared object at path. A macOS ".vst" bundle directory is
// resolved to the executable inside it.
func (Loader) Open(path string) (vst2.Module, error) {
	path = bundleExecutable(path)

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if h == nil {
		return nil, fmt.Errorf("%w: %s: %s", vst2.ErrModuleNotFound, path, dlerror())
	}
	return &module{path: path, handle: h}, nil
}

// Lookup resolves an exported entry point.
func (m *module) Lookup(symbol string) (vst2.EntryPoint, error) {
	if m.handle == nil {
		return nil, fmt.Errorf("%w: %s: module closed", vst2.ErrSymbolNotFound, symbol)
	}
	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))

	fn := C.dlsym(m.handle, csym)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s in %s", vst2.ErrSymbolNotFound, symbol, m.path)
	}
	return func(host vst2.HostCallback) vst2.Effect {
		return invokeEntry(fn, host)
	}, nil
}

// Close unloads the module.
func (m *module) Close() error {
	if m.handle == nil {
		return nil
	}
	rc := C.dlclose(m.handle)
	m.handle = nil
	if rc != 0 {
		return fmt.Errorf("%w: %s: %s", vst2.ErrUnloadFailed, m.path, dlerror())
	}
	return nil
}

func dlerror() string {
	msg := C.dlerror()
	if msg == nil {
		return "unknown error"
	}
	return C.GoString(msg)
}

func bundleExecutable(path string) string {
	if !strings.HasSuffix(path, ".vst") {
		return path
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path
	}
	name := strings.TrimSuffix(filepath.Base(path), ".vst")
	return filepath.Join(path, "Contents", "MacOS", name)
}
