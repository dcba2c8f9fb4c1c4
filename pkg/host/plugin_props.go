package host

import (
	"unsafe"

	"github.com/justyntemme/vst2host/pkg/editor"
	"github.com/justyntemme/vst2host/pkg/vst2"
)

// Editor returns the plugin's editor surface. It is nil after Close.
func (p *Plugin) Editor() editor.Surface {
	return p.surface
}

// HasEditor reports whether the plugin provides its own editor.
func (p *Plugin) HasEditor() bool {
	return p.Flags().Has(vst2.FlagHasEditor)
}

// EditOpen shows the editor surface and attaches the plugin's editor to it.
func (p *Plugin) EditOpen() {
	if !p.IsLoaded() || p.surface == nil {
		return
	}
	p.surface.Show()
	// The window handle is owned by the windowing system, not Go memory.
	h := p.surface.NativeHandle()
	p.dispatch(vst2.EffEditOpen, 0, 0, *(*unsafe.Pointer)(unsafe.Pointer(&h)), 0)
}

// EditClose hides the editor surface and detaches the plugin's editor.
func (p *Plugin) EditClose() {
	if !p.IsLoaded() || p.surface == nil {
		return
	}
	p.surface.Hide()
	p.dispatch(vst2.EffEditClose, 0, 0, nil, 0)
}

// Flags returns the plugin capability flags.
func (p *Plugin) Flags() vst2.Flags {
	return p.descriptor().Flags
}

// ID returns the plugin's unique identifier.
func (p *Plugin) ID() int32 {
	return p.descriptor().UniqueID
}

// PluginVersion returns the version declared in the AEffect.
func (p *Plugin) PluginVersion() int32 {
	return p.descriptor().Version
}

// VSTVersion returns the protocol version the plugin implements.
func (p *Plugin) VSTVersion() int32 {
	return int32(p.dispatch(vst2.EffGetVstVersion, 0, 0, nil, 0))
}

// VendorVersion returns the vendor-specific version.
func (p *Plugin) VendorVersion() int32 {
	return int32(p.dispatch(vst2.EffGetVendorVersion, 0, 0, nil, 0))
}

// EffectName returns the name the plugin reports for itself.
func (p *Plugin) EffectName() string {
	return p.dispatchString(vst2.EffGetEffectName, 0)
}

// VendorString returns the plugin vendor.
func (p *Plugin) VendorString() string {
	return p.dispatchString(vst2.EffGetVendorString, 0)
}

// ProductString returns the plugin product name.
func (p *Plugin) ProductString() string {
	return p.dispatchString(vst2.EffGetProductString, 0)
}

// Category returns the plugin category.
func (p *Plugin) Category() vst2.Category {
	return vst2.Category(p.dispatch(vst2.EffGetPlugCategory, 0, 0, nil, 0))
}

// InitialDelay returns the plugin latency in samples.
func (p *Plugin) InitialDelay() int32 {
	return p.descriptor().InitialDelay
}

// TailSize returns the number of samples the plugin keeps sounding after
// its input stops. Zero means the plugin did not say.
func (p *Plugin) TailSize() int64 {
	return p.dispatch(vst2.EffGetTailSize, 0, 0, nil, 0)
}

// InputsCount returns the number of audio inputs.
func (p *Plugin) InputsCount() int {
	return int(p.descriptor().NumInputs)
}

// OutputsCount returns the number of audio outputs.
func (p *Plugin) OutputsCount() int {
	return int(p.descriptor().NumOutputs)
}

// Inputs returns the properties of every input pin.
func (p *Plugin) Inputs() []vst2.PinProperties {
	return p.pins(vst2.EffGetInputProperties, p.InputsCount())
}

// Outputs returns the properties of every output pin.
func (p *Plugin) Outputs() []vst2.PinProperties {
	return p.pins(vst2.EffGetOutputProperties, p.OutputsCount())
}

func (p *Plugin) pins(op vst2.EffectOpcode, n int) []vst2.PinProperties {
	if n <= 0 {
		return nil
	}
	pins := make([]vst2.PinProperties, n)
	for i := range pins {
		p.dispatch(op, int32(i), 0, unsafe.Pointer(&pins[i]), 0)
	}
	return pins
}

// IsGenerator reports whether the plugin is loaded and takes no input.
func (p *Plugin) IsGenerator() bool {
	return p.IsLoaded() && p.InputsCount() == 0
}

// CanProcessFloat reports support for 32-bit replacing processing.
func (p *Plugin) CanProcessFloat() bool {
	return p.IsLoaded() && p.Flags().Has(vst2.FlagCanReplacing)
}

// CanProcessDouble reports support for 64-bit replacing processing.
func (p *Plugin) CanProcessDouble() bool {
	return p.IsLoaded() && p.Flags().Has(vst2.FlagCanDoubleReplacing)
}

// ProgramsCount returns the number of programs.
func (p *Plugin) ProgramsCount() int {
	return int(p.descriptor().NumPrograms)
}

// SetProgram selects program i inside a begin/end bracket.
func (p *Plugin) SetProgram(i int) {
	if i < 0 || i >= p.ProgramsCount() {
		return
	}
	p.dispatch(vst2.EffBeginSetProgram, 0, 0, nil, 0)
	p.dispatch(vst2.EffSetProgram, 0, int64(i), nil, 0)
	p.dispatch(vst2.EffEndSetProgram, 0, 0, nil, 0)
}

// SetProgramName renames the current program.
func (p *Plugin) SetProgramName(name string) {
	if !p.IsLoaded() {
		return
	}
	var buf [vst2.MaxProgNameLen + 1]byte
	vst2.PutCString(buf[:], name)
	p.dispatch(vst2.EffSetProgramName, 0, 0, unsafe.Pointer(&buf[0]), 0)
}

// Program returns the current program index.
func (p *Plugin) Program() int {
	return int(p.dispatch(vst2.EffGetProgram, 0, 0, nil, 0))
}

// ProgramName returns the name of the current program.
func (p *Plugin) ProgramName() string {
	return p.dispatchString(vst2.EffGetProgramName, 0)
}

// Programs returns the names of all programs.
func (p *Plugin) Programs() []string {
	n := p.ProgramsCount()
	if n <= 0 {
		return nil
	}
	names := make([]string, n)
	for i := range names {
		names[i] = p.dispatchString(vst2.EffGetProgramNameIndexed, int32(i))
	}
	return names
}

// ParametersCount returns the number of parameters.
func (p *Plugin) ParametersCount() int {
	return int(p.descriptor().NumParams)
}

func (p *Plugin) validParameter(i int) bool {
	return p.IsLoaded() && i >= 0 && i < p.ParametersCount()
}

// SetParameter forwards v unchanged. Out-of-range indices are ignored.
func (p *Plugin) SetParameter(i int, v float32) {
	if !p.validParameter(i) {
		return
	}
	p.effect.SetParameter(int32(i), v)
}

// Parameter returns the value of parameter i, or 0 when out of range.
func (p *Plugin) Parameter(i int) float32 {
	if !p.validParameter(i) {
		return 0
	}
	return p.effect.GetParameter(int32(i))
}

// ParameterProperties returns the extended properties of parameter i. The
// boolean is false when the plugin does not provide them.
func (p *Plugin) ParameterProperties(i int) (vst2.ParameterProperties, bool) {
	var props vst2.ParameterProperties
	if !p.validParameter(i) {
		return props, false
	}
	ok := p.dispatch(vst2.EffGetParameterProperties, int32(i), 0, unsafe.Pointer(&props), 0) != 0
	return props, ok
}

// ParameterName returns the name of parameter i.
func (p *Plugin) ParameterName(i int) string {
	if !p.validParameter(i) {
		return ""
	}
	return p.dispatchString(vst2.EffGetParamName, int32(i))
}

// ParameterLabel returns the unit label of parameter i, e.g. "dB".
func (p *Plugin) ParameterLabel(i int) string {
	if !p.validParameter(i) {
		return ""
	}
	return p.dispatchString(vst2.EffGetParamLabel, int32(i))
}

// ParameterDisplay returns the plugin's text rendering of parameter i.
func (p *Plugin) ParameterDisplay(i int) string {
	if !p.validParameter(i) {
		return ""
	}
	return p.dispatchString(vst2.EffGetParamDisplay, int32(i))
}

// SetParameters sets the leading parameters from values.
func (p *Plugin) SetParameters(values []float32) {
	n := min(p.ParametersCount(), len(values))
	for i := 0; i < n; i++ {
		p.SetParameter(i, values[i])
	}
}

// Parameters returns every parameter value.
func (p *Plugin) Parameters() []float32 {
	n := p.ParametersCount()
	if n <= 0 {
		return nil
	}
	values := make([]float32, n)
	for i := range values {
		values[i] = p.Parameter(i)
	}
	return values
}
