package host

import (
	"fmt"
	"strconv"

	"github.com/justyntemme/vst2host/pkg/preset"
)

// Preset keys written for each plugin. Parameters are stored under their
// decimal index.
const (
	keyEffectName    = "EffectName"
	keyID            = "Id"
	keyVSTVersion    = "VstVersion"
	keyPluginVersion = "PluginVersion"
	keyVendorVersion = "VendorVersion"
	keyBlockSize     = "BlockSize"
	keySampleRate    = "SampleRate"
)

// PresetGroup returns the store group holding this plugin's settings:
// "{chain index}_{plugin id}".
func (p *Plugin) PresetGroup() string {
	return fmt.Sprintf("%d_%d", p.chainIndex, p.ID())
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// SavePreset writes the plugin's identity, configuration and parameter
// values into s. Nothing is written when the plugin is not loaded.
func (p *Plugin) SavePreset(s preset.Store) {
	if !p.IsLoaded() {
		return
	}
	s.BeginGroup(p.PresetGroup())
	defer s.EndGroup()

	s.SetValue(keyEffectName, p.EffectName())
	s.SetValue(keyID, strconv.FormatInt(int64(p.ID()), 10))
	s.SetValue(keyVSTVersion, strconv.FormatInt(int64(p.VSTVersion()), 10))
	s.SetValue(keyPluginVersion, strconv.FormatInt(int64(p.PluginVersion()), 10))
	s.SetValue(keyVendorVersion, strconv.FormatInt(int64(p.VendorVersion()), 10))
	s.SetValue(keyBlockSize, strconv.FormatInt(int64(p.blockSize), 10))
	s.SetValue(keySampleRate, formatFloat(p.sampleRate))
	for i, v := range p.Parameters() {
		s.SetValue(strconv.Itoa(i), formatFloat(v))
	}
}

// LoadPreset applies the settings stored in s for this plugin. The stored
// identifier is checked first; on mismatch nothing is applied.
func (p *Plugin) LoadPreset(s preset.Store) error {
	if !p.IsLoaded() {
		return ErrNotLoaded
	}
	if !p.presetMatches(s) {
		return fmt.Errorf("%w: group %s", ErrPresetMismatch, p.PresetGroup())
	}
	p.applyPreset(s)
	return nil
}

func (p *Plugin) presetMatches(s preset.Store) bool {
	s.BeginGroup(p.PresetGroup())
	defer s.EndGroup()

	v, ok := s.Value(keyID)
	if !ok {
		return false
	}
	id, err := strconv.ParseInt(v, 10, 32)
	return err == nil && int32(id) == p.ID()
}

// applyPreset sets every stored value that parses. Missing parameters keep
// their current value.
func (p *Plugin) applyPreset(s preset.Store) {
	s.BeginGroup(p.PresetGroup())
	defer s.EndGroup()

	if v, ok := s.Value(keyBlockSize); ok {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			p.SetBlockSize(int32(n))
		}
	}
	if v, ok := s.Value(keySampleRate); ok {
		if sr, err := strconv.ParseFloat(v, 32); err == nil {
			p.SetSampleRate(float32(sr))
		}
	}
	for i := 0; i < p.ParametersCount(); i++ {
		v, ok := s.Value(strconv.Itoa(i))
		if !ok {
			continue
		}
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			p.SetParameter(i, float32(f))
		}
	}
}

// SavePresetFile adds the plugin's settings to the INI file at path.
func (p *Plugin) SavePresetFile(path string) error {
	if !p.IsLoaded() {
		return ErrNotLoaded
	}
	f, err := preset.OpenFile(path)
	if err != nil {
		return err
	}
	p.SavePreset(f)
	return f.Save()
}

// LoadPresetFile applies the plugin's settings from the INI file at path.
func (p *Plugin) LoadPresetFile(path string) error {
	f, err := preset.OpenFile(path)
	if err != nil {
		return err
	}
	return p.LoadPreset(f)
}
