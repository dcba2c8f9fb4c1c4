package host

import (
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

// DefaultProduct is the name reported to plugins asking for the host's
// vendor or product string.
const DefaultProduct = "vst2host"

// maxCanDoLen bounds reads of capability strings passed by plugins.
const maxCanDoLen = 256

// Protocol answers the queries plugins issue back into the host. Its
// Callback method is handed to each module entry point.
type Protocol struct {
	Vendor  string
	Product string
	Logger  *debug.Logger
}

// NewProtocol returns a protocol reporting DefaultProduct as both vendor and
// product.
func NewProtocol() *Protocol {
	return &Protocol{
		Vendor:  DefaultProduct,
		Product: DefaultProduct,
	}
}

func (p *Protocol) logger() *debug.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return debug.Default()
}

// Callback implements vst2.HostCallback. The host claims no optional
// capabilities; anything it does not recognise is logged and answered with 0.
func (p *Protocol) Callback(effect vst2.Effect, op vst2.HostOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64 {
	switch op {
	case vst2.HostVersion:
		return vst2.Version
	case vst2.HostCurrentID:
		if effect == nil {
			return 0
		}
		return int64(effect.Descriptor().UniqueID)
	case vst2.HostIdle:
		if effect == nil {
			return 0
		}
		return effect.Dispatch(vst2.EffEditIdle, 0, 0, nil, 0)
	case vst2.HostGetVendorString:
		writeString(ptr, vst2.MaxVendorStrLen, p.Vendor)
		return 1
	case vst2.HostGetProductString:
		writeString(ptr, vst2.MaxProductStrLen, p.Product)
		return 1
	case vst2.HostGetVendorVersion:
		return 1
	case vst2.HostCanDo:
		p.logger().Debug().Str("capability", vst2.GoString(ptr, maxCanDoLen)).Msg("plugin can-do query")
		return 0
	case vst2.HostGetCurrentProcessLevel:
		return vst2.ProcessLevelUnknown
	case vst2.HostUpdateDisplay, vst2.HostAutomate:
		return 0
	case vst2.HostPinConnected, vst2.HostWantMidi, vst2.HostNeedIdle:
		return 0
	}
	p.logger().Debug().
		Int32("opcode", int32(op)).
		Stringer("name", op).
		Int32("index", index).
		Int64("value", value).
		Msg("unrecognized host opcode")
	return 0
}

// writeString copies s into the plugin buffer at ptr, which holds size bytes
// including the terminator.
func writeString(ptr unsafe.Pointer, size int, s string) {
	if ptr == nil {
		return
	}
	vst2.PutCString(unsafe.Slice((*byte)(ptr), size), s)
}
