package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/justyntemme/vst2host/pkg/host"
	"github.com/justyntemme/vst2host/pkg/vst2"
	"github.com/justyntemme/vst2host/pkg/vst2/native"
)

type pinInfo struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name,omitempty"`
	Active    bool   `yaml:"active"`
	Stereo    bool   `yaml:"stereo"`
}

type parameterInfo struct {
	Index   int     `yaml:"index"`
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label,omitempty"`
	Display string  `yaml:"display,omitempty"`
	Value   float32 `yaml:"value"`
}

type pluginInfo struct {
	Path          string          `yaml:"path"`
	Name          string          `yaml:"name"`
	Vendor        string          `yaml:"vendor,omitempty"`
	Product       string          `yaml:"product,omitempty"`
	ID            string          `yaml:"id"`
	Category      string          `yaml:"category"`
	Version       int32           `yaml:"version"`
	VSTVersion    int32           `yaml:"vst_version"`
	VendorVersion int32           `yaml:"vendor_version"`
	InitialDelay  int32           `yaml:"initial_delay"`
	TailSize      int64           `yaml:"tail_size"`
	Generator     bool            `yaml:"generator"`
	Float         bool            `yaml:"float"`
	Double        bool            `yaml:"double"`
	Editor        bool            `yaml:"editor"`
	Inputs        []pinInfo       `yaml:"inputs"`
	Outputs       []pinInfo       `yaml:"outputs"`
	Program       int             `yaml:"program"`
	Programs      []string        `yaml:"programs,omitempty"`
	Parameters    []parameterInfo `yaml:"parameters,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <plugin>...",
	Short: "Describe plugins as YAML",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()

		for _, path := range args {
			p, err := host.Open(native.Loader{}, path, "", hostOptions()...)
			if err != nil {
				return err
			}
			info := describe(p)
			p.Close()
			if err := enc.Encode(info); err != nil {
				return fmt.Errorf("failed to encode %s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func describe(p *host.Plugin) pluginInfo {
	info := pluginInfo{
		Path:          p.Path(),
		Name:          p.EffectName(),
		Vendor:        p.VendorString(),
		Product:       p.ProductString(),
		ID:            fourCC(p.ID()),
		Category:      p.Category().String(),
		Version:       p.PluginVersion(),
		VSTVersion:    p.VSTVersion(),
		VendorVersion: p.VendorVersion(),
		InitialDelay:  p.InitialDelay(),
		TailSize:      p.TailSize(),
		Generator:     p.IsGenerator(),
		Float:         p.CanProcessFloat(),
		Double:        p.CanProcessDouble(),
		Editor:        p.HasEditor(),
		Inputs:        pinInfos(p.Inputs()),
		Outputs:       pinInfos(p.Outputs()),
		Program:       p.Program(),
		Programs:      p.Programs(),
	}
	for i, v := range p.Parameters() {
		info.Parameters = append(info.Parameters, parameterInfo{
			Index:   i,
			Name:    p.ParameterName(i),
			Label:   p.ParameterLabel(i),
			Display: p.ParameterDisplay(i),
			Value:   v,
		})
	}
	return info
}

func pinInfos(pins []vst2.PinProperties) []pinInfo {
	out := make([]pinInfo, len(pins))
	for i := range pins {
		out[i] = pinInfo{
			Name:      pins[i].Name(),
			ShortName: pins[i].ShortName(),
			Active:    pins[i].Flags&vst2.PinIsActive != 0,
			Stereo:    pins[i].Flags&vst2.PinIsStereo != 0,
		}
	}
	return out
}

// fourCC renders a unique id as its four characters when they are all
// printable, and as a number otherwise.
func fourCC(id int32) string {
	b := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%d", id)
		}
	}
	return fmt.Sprintf("%q (%d)", string(b), id)
}
