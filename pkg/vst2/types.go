// Package vst2 defines the VST 2.4 plugin ABI as seen from a host: opcodes,
// constants, wire structs and the capabilities a host needs from a loaded
// module. It has no cgo dependency; the native binding lives in vst2/native.
package vst2

import (
	"bytes"
	"unsafe"
)

// Magic is the value of AEffect.magic for a valid plugin ('VstP').
const Magic int32 = 'V'<<24 | 's'<<16 | 't'<<8 | 'P'

// Version is the protocol version reported by the host (kVstVersion).
const Version int64 = 2400

// String buffer limits, excluding the terminating NUL.
const (
	MaxProgNameLen   = 24
	MaxParamStrLen   = 8
	MaxVendorStrLen  = 64
	MaxProductStrLen = 64
	MaxEffectNameLen = 32
	MaxLabelLen      = 64
	MaxShortLabelLen = 8
	MaxCategLabelLen = 24
)

// Flags holds AEffect capability bits.
type Flags int32

// AEffect flag bits.
const (
	FlagHasEditor          Flags = 1 << 0
	FlagCanReplacing       Flags = 1 << 4
	FlagProgramChunks      Flags = 1 << 5
	FlagIsSynth            Flags = 1 << 8
	FlagNoSoundInStop      Flags = 1 << 9
	FlagCanDoubleReplacing Flags = 1 << 12
)

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Processing precision values for EffSetProcessPrecision.
const (
	Precision32 int64 = 0
	Precision64 int64 = 1
)

// Process levels returned for HostGetCurrentProcessLevel.
const (
	ProcessLevelUnknown int64 = iota
	ProcessLevelUser
	ProcessLevelRealtime
	ProcessLevelPrefetch
	ProcessLevelOffline
)

// Category is the plugin category reported by EffGetPlugCategory.
type Category int32

// Plugin categories.
const (
	CategoryUnknown Category = iota
	CategoryEffect
	CategorySynth
	CategoryAnalysis
	CategoryMastering
	CategorySpacializer
	CategoryRoomFx
	CategorySurroundFx
	CategoryRestoration
	CategoryOfflineProcess
	CategoryShell
	CategoryGenerator
)

// String returns a readable category name.
func (c Category) String() string {
	switch c {
	case CategoryEffect:
		return "effect"
	case CategorySynth:
		return "synth"
	case CategoryAnalysis:
		return "analysis"
	case CategoryMastering:
		return "mastering"
	case CategorySpacializer:
		return "spacializer"
	case CategoryRoomFx:
		return "roomfx"
	case CategorySurroundFx:
		return "surroundfx"
	case CategoryRestoration:
		return "restoration"
	case CategoryOfflineProcess:
		return "offline"
	case CategoryShell:
		return "shell"
	case CategoryGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

// Descriptor is a snapshot of the scalar fields of an AEffect.
type Descriptor struct {
	Magic        int32
	UniqueID     int32
	Version      int32
	Flags        Flags
	NumPrograms  int32
	NumParams    int32
	NumInputs    int32
	NumOutputs   int32
	InitialDelay int32
}

// Rect mirrors ERect. Field order is part of the ABI.
type Rect struct {
	Top    int16
	Left   int16
	Bottom int16
	Right  int16
}

// Width returns Right-Left.
func (r Rect) Width() int {
	return int(r.Right) - int(r.Left)
}

// Height returns Bottom-Top.
func (r Rect) Height() int {
	return int(r.Bottom) - int(r.Top)
}

// PinProperties mirrors VstPinProperties.
type PinProperties struct {
	Label           [MaxLabelLen]byte
	Flags           int32
	ArrangementType int32
	ShortLabel      [MaxShortLabelLen]byte
	Future          [48]byte
}

// Pin property flags.
const (
	PinIsActive   = 1 << 0
	PinIsStereo   = 1 << 1
	PinUseSpeaker = 1 << 2
)

// Name returns the pin label.
func (p *PinProperties) Name() string {
	return CString(p.Label[:])
}

// ShortName returns the short pin label.
func (p *PinProperties) ShortName() string {
	return CString(p.ShortLabel[:])
}

// ParameterProperties mirrors VstParameterProperties.
type ParameterProperties struct {
	StepFloat               float32
	SmallStepFloat          float32
	LargeStepFloat          float32
	Label                   [MaxLabelLen]byte
	Flags                   int32
	MinInteger              int32
	MaxInteger              int32
	StepInteger             int32
	LargeStepInteger        int32
	ShortLabel              [MaxShortLabelLen]byte
	DisplayIndex            int16
	Category                int16
	NumParametersInCategory int16
	Reserved                int16
	CategoryLabel           [MaxCategLabelLen]byte
	Future                  [16]byte
}

// Name returns the parameter label.
func (p *ParameterProperties) Name() string {
	return CString(p.Label[:])
}

// CString converts a NUL-terminated byte buffer to a string.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

// PutCString copies s into buf as a NUL-terminated string, truncating it to
// len(buf)-1 bytes.
func PutCString(buf []byte, s string) {
	if len(buf) == 0 {
		return
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
}

// GoString reads a NUL-terminated string of at most max bytes starting at
// ptr. It never reads past the terminator.
func GoString(ptr unsafe.Pointer, max int) string {
	if ptr == nil {
		return ""
	}
	n := 0
	for n < max && *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
