// Package native binds the VST 2.4 ABI to real plugin modules through cgo.
//
// Effects returned by entry points resolved through Loader implement
// vst2.Effect over the plugin's AEffect struct. Host callbacks issued by the
// plugin are routed to the vst2.HostCallback given to the entry point.
package native

// #include "aeffect.h"
//
// extern VstIntPtr goHostCallback(AEffect* effect, VstInt32 opcode, VstInt32 index, VstIntPtr value, void* ptr, float opt);
//
// static inline AEffect* vst_call_entry(void* fn) {
//     return ((vstEntryProc)fn)((audioMasterCallback)goHostCallback);
// }
//
// static inline VstIntPtr vst_dispatch(AEffect* e, VstInt32 op, VstInt32 index, VstIntPtr value, void* ptr, float opt) {
//     if (e == NULL || e->dispatcher == NULL) {
//         return 0;
//     }
//     return e->dispatcher(e, op, index, value, ptr, opt);
// }
//
// static inline void vst_set_parameter(AEffect* e, VstInt32 index, float value) {
//     if (e != NULL && e->setParameter != NULL) {
//         e->setParameter(e, index, value);
//     }
// }
//
// static inline float vst_get_parameter(AEffect* e, VstInt32 index) {
//     if (e == NULL || e->getParameter == NULL) {
//         return 0.0f;
//     }
//     return e->getParameter(e, index);
// }
//
// static inline void vst_process_float(AEffect* e, float** in, float** out, VstInt32 frames) {
//     if (e != NULL && e->processReplacing != NULL) {
//         e->processReplacing(e, in, out, frames);
//     }
// }
//
// static inline void vst_process_double(AEffect* e, double** in, double** out, VstInt32 frames) {
//     if (e != NULL && e->processDoubleReplacing != NULL) {
//         e->processDoubleReplacing(e, in, out, frames);
//     }
// }
//
// static inline void** vst_alloc_channels(int n) {
//     if (n <= 0) {
//         return NULL;
//     }
//     return (void**)calloc((size_t)n, sizeof(void*));
// }
import "C"
import (
	"runtime"
	"runtime/cgo"
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/vst2"
)

// invokeEntry calls a module entry point with the exported host callback and
// binds the returned AEffect to host. An AEffect with a wrong magic number is
// returned unregistered: the caller rejects it and unloads its module, after
// which the address may be reused by another plugin.
func invokeEntry(fn unsafe.Pointer, host vst2.HostCallback) vst2.Effect {
	entryMu.Lock()
	defer entryMu.Unlock()

	setPending(host)
	defer setPending(nil)

	ae := C.vst_call_entry(fn)
	if ae == nil {
		return nil
	}
	e := &effect{ptr: ae, host: host}
	if int32(ae.magic) != vst2.Magic {
		return e
	}
	register(e)
	return e
}

// effect implements vst2.Effect over a native AEffect.
type effect struct {
	ptr  *C.AEffect
	host vst2.HostCallback
	user cgo.Handle
}

var _ vst2.Effect = (*effect)(nil)

// Descriptor reads the scalar fields of the AEffect.
func (e *effect) Descriptor() vst2.Descriptor {
	if e.ptr == nil {
		return vst2.Descriptor{}
	}
	return vst2.Descriptor{
		Magic:        int32(e.ptr.magic),
		UniqueID:     int32(e.ptr.uniqueID),
		Version:      int32(e.ptr.version),
		Flags:        vst2.Flags(e.ptr.flags),
		NumPrograms:  int32(e.ptr.numPrograms),
		NumParams:    int32(e.ptr.numParams),
		NumInputs:    int32(e.ptr.numInputs),
		NumOutputs:   int32(e.ptr.numOutputs),
		InitialDelay: int32(e.ptr.initialDelay),
	}
}

// Dispatch calls the plugin dispatcher. After EffClose the AEffect belongs
// to nobody, so the wrapper forgets it.
func (e *effect) Dispatch(op vst2.EffectOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64 {
	if e.ptr == nil {
		return 0
	}
	ret := int64(C.vst_dispatch(e.ptr, C.VstInt32(op), C.VstInt32(index), C.VstIntPtr(value), ptr, C.float(opt)))
	if op == vst2.EffClose {
		e.release()
	}
	return ret
}

// SetParameter forwards to the plugin's setParameter.
func (e *effect) SetParameter(index int32, value float32) {
	C.vst_set_parameter(e.ptr, C.VstInt32(index), C.float(value))
}

// GetParameter forwards to the plugin's getParameter.
func (e *effect) GetParameter(index int32) float32 {
	return float32(C.vst_get_parameter(e.ptr, C.VstInt32(index)))
}

// ProcessFloat pins the channel slices and hands their addresses to
// processReplacing.
func (e *effect) ProcessFloat(in, out [][]float32, frames int32) {
	if e.ptr == nil {
		return
	}
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ins := channelPointers(&pinner, in, int(e.ptr.numInputs))
	defer C.free(unsafe.Pointer(ins))
	outs := channelPointers(&pinner, out, int(e.ptr.numOutputs))
	defer C.free(unsafe.Pointer(outs))

	C.vst_process_float(e.ptr, (**C.float)(unsafe.Pointer(ins)), (**C.float)(unsafe.Pointer(outs)), C.VstInt32(frames))
}

// ProcessDouble is the 64-bit counterpart of ProcessFloat.
func (e *effect) ProcessDouble(in, out [][]float64, frames int32) {
	if e.ptr == nil {
		return
	}
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ins := channelPointers(&pinner, in, int(e.ptr.numInputs))
	defer C.free(unsafe.Pointer(ins))
	outs := channelPointers(&pinner, out, int(e.ptr.numOutputs))
	defer C.free(unsafe.Pointer(outs))

	C.vst_process_double(e.ptr, (**C.double)(unsafe.Pointer(ins)), (**C.double)(unsafe.Pointer(outs)), C.VstInt32(frames))
}

// SetUserData stores a cgo handle to v in AEffect.user.
func (e *effect) SetUserData(v any) {
	if e.ptr == nil {
		return
	}
	if e.user != 0 {
		e.user.Delete()
		e.user = 0
	}
	e.ptr.user = nil
	if v == nil {
		return
	}
	e.user = cgo.NewHandle(v)
	// The handle is an opaque integer for the plugin, not a Go pointer.
	h := uintptr(e.user)
	e.ptr.user = *(*unsafe.Pointer)(unsafe.Pointer(&h))
}

func (e *effect) release() {
	unregister(e)
	if e.user != 0 {
		e.user.Delete()
		e.user = 0
	}
	e.ptr = nil
}

// channelPointers builds a C array of n channel addresses. Missing or empty
// channels are left NULL. The caller frees the array.
func channelPointers[T float32 | float64](pinner *runtime.Pinner, channels [][]T, n int) *unsafe.Pointer {
	arr, slots := allocChannels(n)
	for i := 0; i < len(slots) && i < len(channels); i++ {
		if len(channels[i]) == 0 {
			continue
		}
		pinner.Pin(&channels[i][0])
		slots[i] = unsafe.Pointer(&channels[i][0])
	}
	return arr
}

func allocChannels(n int) (*unsafe.Pointer, []unsafe.Pointer) {
	arr := C.vst_alloc_channels(C.int(n))
	if arr == nil {
		return nil, nil
	}
	return arr, unsafe.Slice(arr, n)
}
