package host

import (
	"fmt"
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/vst2"
)

// dispatchCall records one dispatcher invocation.
type dispatchCall struct {
	op    vst2.EffectOpcode
	index int32
	value int64
	opt   float32
}

// fakeEffect is a deterministic, stateless test effect. Each output channel
// o is input channel o%NumInputs scaled by gain plus offset*o. A generator
// fills output o with o+1.
type fakeEffect struct {
	desc   vst2.Descriptor
	params []float32
	name   string
	rect   vst2.Rect
	gain   float64
	offset float64

	program      int
	programNames []string
	canDo        map[string]bool

	calls         []dispatchCall
	floatBlocks   []int32
	doubleBlocks  []int32
	lastFloatIn   [][]float32
	badParamCalls int
	user          any
	closed        bool

	host        vst2.HostCallback
	hostVersion int64
	hostProduct string
}

func newFakeEffect(id, ins, outs int32) *fakeEffect {
	return &fakeEffect{
		desc: vst2.Descriptor{
			Magic:       vst2.Magic,
			UniqueID:    id,
			Version:     3,
			Flags:       vst2.FlagCanReplacing | vst2.FlagCanDoubleReplacing | vst2.FlagHasEditor,
			NumPrograms: 3,
			NumParams:   4,
			NumInputs:   ins,
			NumOutputs:  outs,
		},
		params:       make([]float32, 4),
		name:         fmt.Sprintf("Fake %d", id),
		rect:         vst2.Rect{Top: 10, Left: 20, Bottom: 210, Right: 420},
		gain:         1,
		programNames: []string{"Init", "Warm", "Bright"},
		canDo:        map[string]bool{"receiveVstEvents": true},
	}
}

var _ vst2.Effect = (*fakeEffect)(nil)

func (f *fakeEffect) Descriptor() vst2.Descriptor {
	return f.desc
}

func putString(ptr unsafe.Pointer, size int, s string) {
	vst2.PutCString(unsafe.Slice((*byte)(ptr), size), s)
}

func (f *fakeEffect) Dispatch(op vst2.EffectOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64 {
	f.calls = append(f.calls, dispatchCall{op: op, index: index, value: value, opt: opt})
	switch op {
	case vst2.EffClose:
		f.closed = true
	case vst2.EffEditGetRect:
		*(**vst2.Rect)(ptr) = &f.rect
		return 1
	case vst2.EffEditIdle:
		return 42
	case vst2.EffGetEffectName:
		putString(ptr, vst2.MaxEffectNameLen+1, f.name)
		return 1
	case vst2.EffGetVendorString:
		putString(ptr, vst2.MaxVendorStrLen+1, "Fake Vendor")
		return 1
	case vst2.EffGetProductString:
		putString(ptr, vst2.MaxProductStrLen+1, "Fake Product")
		return 1
	case vst2.EffGetVstVersion:
		return vst2.Version
	case vst2.EffGetVendorVersion:
		return 7
	case vst2.EffGetPlugCategory:
		return int64(vst2.CategoryEffect)
	case vst2.EffGetTailSize:
		return 512
	case vst2.EffCanDo:
		if f.canDo[vst2.GoString(ptr, 256)] {
			return 1
		}
		return -1
	case vst2.EffSetProgram:
		f.program = int(value)
	case vst2.EffGetProgram:
		return int64(f.program)
	case vst2.EffSetProgramName:
		f.programNames[f.program] = vst2.GoString(ptr, vst2.MaxProgNameLen+1)
	case vst2.EffGetProgramName:
		putString(ptr, vst2.MaxProgNameLen+1, f.programNames[f.program])
	case vst2.EffGetProgramNameIndexed:
		putString(ptr, vst2.MaxProgNameLen+1, f.programNames[index])
		return 1
	case vst2.EffGetInputProperties:
		pin := (*vst2.PinProperties)(ptr)
		vst2.PutCString(pin.Label[:], fmt.Sprintf("in %d", index))
		return 1
	case vst2.EffGetOutputProperties:
		pin := (*vst2.PinProperties)(ptr)
		vst2.PutCString(pin.Label[:], fmt.Sprintf("out %d", index))
		return 1
	case vst2.EffGetParamName:
		putString(ptr, vst2.MaxParamStrLen+1, fmt.Sprintf("p%d", index))
	case vst2.EffGetParamLabel:
		putString(ptr, vst2.MaxParamStrLen+1, "dB")
	case vst2.EffGetParamDisplay:
		putString(ptr, vst2.MaxParamStrLen+1, fmt.Sprintf("%.2f", f.params[index]))
	case vst2.EffGetParameterProperties:
		if index != 0 {
			return 0
		}
		props := (*vst2.ParameterProperties)(ptr)
		vst2.PutCString(props.Label[:], "Gain")
		props.StepFloat = 0.1
		return 1
	}
	return 0
}

func (f *fakeEffect) SetParameter(index int32, value float32) {
	if index < 0 || int(index) >= len(f.params) {
		f.badParamCalls++
		return
	}
	f.params[index] = value
}

func (f *fakeEffect) GetParameter(index int32) float32 {
	if index < 0 || int(index) >= len(f.params) {
		f.badParamCalls++
		return -1
	}
	return f.params[index]
}

func (f *fakeEffect) ProcessFloat(in, out [][]float32, frames int32) {
	f.floatBlocks = append(f.floatBlocks, frames)
	f.lastFloatIn = make([][]float32, len(in))
	for i, ch := range in {
		f.lastFloatIn[i] = append([]float32(nil), ch[:frames]...)
	}
	fakeProcess(f, in, out, frames)
}

func (f *fakeEffect) ProcessDouble(in, out [][]float64, frames int32) {
	f.doubleBlocks = append(f.doubleBlocks, frames)
	fakeProcess(f, in, out, frames)
}

func fakeProcess[T float32 | float64](f *fakeEffect, in, out [][]T, frames int32) {
	numIn := int(f.desc.NumInputs)
	for o := 0; o < int(f.desc.NumOutputs); o++ {
		for j := 0; j < int(frames); j++ {
			if numIn == 0 {
				out[o][j] = T(o + 1)
				continue
			}
			out[o][j] = in[o%numIn][j]*T(f.gain) + T(f.offset*float64(o))
		}
	}
}

func (f *fakeEffect) SetUserData(v any) {
	f.user = v
}

// opcodes returns the dispatched opcodes in order, skipping those in skip.
func (f *fakeEffect) opcodes(skip ...vst2.EffectOpcode) []vst2.EffectOpcode {
	var ops []vst2.EffectOpcode
outer:
	for _, c := range f.calls {
		for _, s := range skip {
			if c.op == s {
				continue outer
			}
		}
		ops = append(ops, c.op)
	}
	return ops
}

// lastCall returns the most recent dispatch of op.
func (f *fakeEffect) lastCall(op vst2.EffectOpcode) (dispatchCall, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i], true
		}
	}
	return dispatchCall{}, false
}

func (f *fakeEffect) resetCalls() {
	f.calls = nil
}

// fakeLib describes how a fake module behaves.
type fakeLib struct {
	newEffect  func() *fakeEffect
	symbol     string
	openErr    error
	nullEffect bool
}

// fakeLoader serves fake modules by path and records what it opens.
type fakeLoader struct {
	libs    map[string]*fakeLib
	effects map[string][]*fakeEffect
	opened  map[string]int
	closed  map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		libs:    make(map[string]*fakeLib),
		effects: make(map[string][]*fakeEffect),
		opened:  make(map[string]int),
		closed:  make(map[string]int),
	}
}

// add registers a module at path whose entry point creates effects with
// newFakeEffect(id, ins, outs).
func (l *fakeLoader) add(path string, id, ins, outs int32) *fakeLib {
	lib := &fakeLib{
		newEffect: func() *fakeEffect { return newFakeEffect(id, ins, outs) },
		symbol:    "VSTPluginMain",
	}
	l.libs[path] = lib
	return lib
}

// last returns the most recently created effect for path.
func (l *fakeLoader) last(path string) *fakeEffect {
	effects := l.effects[path]
	if len(effects) == 0 {
		return nil
	}
	return effects[len(effects)-1]
}

func (l *fakeLoader) Open(path string) (vst2.Module, error) {
	lib, ok := l.libs[path]
	if !ok {
		return nil, vst2.ErrModuleNotFound
	}
	if lib.openErr != nil {
		return nil, lib.openErr
	}
	l.opened[path]++
	return &fakeModule{loader: l, path: path, lib: lib}, nil
}

type fakeModule struct {
	loader *fakeLoader
	path   string
	lib    *fakeLib
}

func (m *fakeModule) Lookup(symbol string) (vst2.EntryPoint, error) {
	if symbol != m.lib.symbol {
		return nil, vst2.ErrSymbolNotFound
	}
	return func(host vst2.HostCallback) vst2.Effect {
		if m.lib.nullEffect {
			return nil
		}
		e := m.lib.newEffect()
		e.host = host
		e.hostVersion = host(nil, vst2.HostVersion, 0, 0, nil, 0)
		var buf [vst2.MaxProductStrLen]byte
		host(e, vst2.HostGetProductString, 0, 0, unsafe.Pointer(&buf[0]), 0)
		e.hostProduct = vst2.CString(buf[:])
		m.loader.effects[m.path] = append(m.loader.effects[m.path], e)
		return e
	}, nil
}

func (m *fakeModule) Close() error {
	m.loader.closed[m.path]++
	return nil
}
