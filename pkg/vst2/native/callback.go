package native

// #include "aeffect.h"
import "C"
import (
	"sync"
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

var (
	// Live effects indexed by their AEffect address.
	effects   = make(map[*C.AEffect]*effect)
	effectsMu sync.RWMutex

	// entryMu serializes entry point calls so that callbacks issued before
	// the AEffect address is known reach the right host.
	entryMu sync.Mutex
	pending vst2.HostCallback
)

func register(e *effect) {
	effectsMu.Lock()
	defer effectsMu.Unlock()
	effects[e.ptr] = e
}

func unregister(e *effect) {
	effectsMu.Lock()
	defer effectsMu.Unlock()
	if cur, ok := effects[e.ptr]; ok && cur == e {
		delete(effects, e.ptr)
	}
}

func setPending(cb vst2.HostCallback) {
	effectsMu.Lock()
	defer effectsMu.Unlock()
	pending = cb
}

// lookup finds the effect and host callback for a callback invocation.
func lookup(ae *C.AEffect) (vst2.Effect, vst2.HostCallback) {
	effectsMu.RLock()
	defer effectsMu.RUnlock()

	if ae != nil {
		if e, ok := effects[ae]; ok {
			return e, e.host
		}
	}
	if pending == nil {
		return nil, nil
	}
	if ae == nil {
		return nil, pending
	}
	// The plugin is calling from inside its entry point.
	return &effect{ptr: ae}, pending
}

//export goHostCallback
func goHostCallback(ae *C.AEffect, opcode C.VstInt32, index C.VstInt32, value C.VstIntPtr, ptr unsafe.Pointer, opt C.float) (ret C.VstIntPtr) {
	defer func() {
		if r := recover(); r != nil {
			debug.Error().Interface("panic", r).Int32("opcode", int32(opcode)).Msg("host callback panicked")
			ret = 0
		}
	}()

	e, host := lookup(ae)
	if host == nil {
		return 0
	}
	return C.VstIntPtr(host(e, vst2.HostOpcode(opcode), int32(index), int64(value), ptr, float32(opt)))
}
