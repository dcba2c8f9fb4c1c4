package host

import (
	"bytes"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

func newTestProtocol() (*Protocol, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := debug.New(&buf, "host", debug.FormatJSON)
	logger.SetLevel(debug.LogLevelDebug)
	p := NewProtocol()
	p.Logger = logger
	return p, &buf
}

func TestProtocolCallback(t *testing.T) {
	effect := newFakeEffect(1234, 2, 2)

	tests := []struct {
		name string
		op   vst2.HostOpcode
		fx   vst2.Effect
		want int64
	}{
		{"Version", vst2.HostVersion, nil, 2400},
		{"CurrentID", vst2.HostCurrentID, effect, 1234},
		{"CurrentIDWithoutEffect", vst2.HostCurrentID, nil, 0},
		{"Idle", vst2.HostIdle, effect, 42},
		{"IdleWithoutEffect", vst2.HostIdle, nil, 0},
		{"VendorVersion", vst2.HostGetVendorVersion, nil, 1},
		{"ProcessLevel", vst2.HostGetCurrentProcessLevel, effect, vst2.ProcessLevelUnknown},
		{"UpdateDisplay", vst2.HostUpdateDisplay, effect, 0},
		{"Automate", vst2.HostAutomate, effect, 0},
		{"PinConnected", vst2.HostPinConnected, effect, 0},
		{"WantMidi", vst2.HostWantMidi, effect, 0},
		{"NeedIdle", vst2.HostNeedIdle, effect, 0},
		{"Unknown", vst2.HostGetTime, effect, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProtocol()
			assert.Equal(t, tt.want, p.Callback(tt.fx, tt.op, 0, 0, nil, 0))
		})
	}
}

func TestProtocolIdleForwardsEditIdle(t *testing.T) {
	p, _ := newTestProtocol()
	effect := newFakeEffect(1, 2, 2)

	p.Callback(effect, vst2.HostIdle, 0, 0, nil, 0)

	assert.Equal(t, []vst2.EffectOpcode{vst2.EffEditIdle}, effect.opcodes())
}

func TestProtocolStrings(t *testing.T) {
	t.Run("Product", func(t *testing.T) {
		p, _ := newTestProtocol()
		var buf [vst2.MaxProductStrLen]byte
		ret := p.Callback(nil, vst2.HostGetProductString, 0, 0, unsafe.Pointer(&buf[0]), 0)
		assert.Equal(t, int64(1), ret)
		assert.Equal(t, DefaultProduct, vst2.CString(buf[:]))
	})

	t.Run("Vendor", func(t *testing.T) {
		p, _ := newTestProtocol()
		p.Vendor = "Acme"
		var buf [vst2.MaxVendorStrLen]byte
		ret := p.Callback(nil, vst2.HostGetVendorString, 0, 0, unsafe.Pointer(&buf[0]), 0)
		assert.Equal(t, int64(1), ret)
		assert.Equal(t, "Acme", vst2.CString(buf[:]))
	})

	t.Run("NilBuffer", func(t *testing.T) {
		p, _ := newTestProtocol()
		assert.Equal(t, int64(1), p.Callback(nil, vst2.HostGetProductString, 0, 0, nil, 0))
	})

	t.Run("Truncated", func(t *testing.T) {
		p, _ := newTestProtocol()
		p.Product = strings.Repeat("x", 100)
		buf := bytes.Repeat([]byte{0xff}, vst2.MaxProductStrLen+8)
		p.Callback(nil, vst2.HostGetProductString, 0, 0, unsafe.Pointer(&buf[0]), 0)

		assert.Equal(t, strings.Repeat("x", vst2.MaxProductStrLen-1), vst2.CString(buf))
		assert.Equal(t, byte(0xff), buf[vst2.MaxProductStrLen], "wrote past the buffer")
	})
}

func TestProtocolLogging(t *testing.T) {
	t.Run("CanDo", func(t *testing.T) {
		p, logs := newTestProtocol()
		capability := []byte("sendVstTimeInfo\x00")

		ret := p.Callback(nil, vst2.HostCanDo, 0, 0, unsafe.Pointer(&capability[0]), 0)

		assert.Zero(t, ret)
		assert.Contains(t, logs.String(), `"capability":"sendVstTimeInfo"`)
	})

	t.Run("Unrecognized", func(t *testing.T) {
		p, logs := newTestProtocol()

		p.Callback(nil, vst2.HostGetTime, 0, 0, nil, 0)

		assert.Contains(t, logs.String(), "unrecognized host opcode")
		assert.Contains(t, logs.String(), `"opcode":7`)
	})

	t.Run("KnownOpcodesQuiet", func(t *testing.T) {
		p, logs := newTestProtocol()
		p.Callback(nil, vst2.HostVersion, 0, 0, nil, 0)
		p.Callback(nil, vst2.HostWantMidi, 0, 0, nil, 0)
		assert.Zero(t, logs.Len())
	})
}

func TestProtocolPassedToEntryPoint(t *testing.T) {
	loader := newFakeLoader()
	loader.add("/fx.so", 1, 2, 2)
	proto := NewProtocol()
	proto.Product = "custom host"

	p := NewPlugin(loader, WithProtocol(proto))
	require.NoError(t, p.Load("/fx.so"))

	effect := loader.last("/fx.so")
	assert.Equal(t, vst2.Version, effect.hostVersion)
	assert.Equal(t, "custom host", effect.hostProduct)
}
