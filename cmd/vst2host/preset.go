package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/host"
	"github.com/justyntemme/vst2host/pkg/preset"
	"github.com/justyntemme/vst2host/pkg/vst2/native"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save, restore and inspect INI presets",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <session.ini> <plugin>...",
	Short: "Load plugins and store them as a chain session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		chain := newChain()
		defer chain.Close()
		if err := chain.Load(args[1:]...); err != nil {
			return err
		}
		if err := chain.SavePreset(args[0]); err != nil {
			return err
		}
		debug.Info().Str("file", args[0]).Int("plugins", chain.Len()).Msg("session saved")
		return nil
	},
}

var presetLoadCmd = &cobra.Command{
	Use:   "load <session.ini>",
	Short: "Restore a chain session and report the loaded plugins",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain := newChain()
		defer chain.Close()
		if err := chain.LoadPreset(args[0]); err != nil {
			return err
		}
		for i, p := range chain.Plugins() {
			if !p.IsLoaded() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: (empty)\n", i)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s [%s] %d parameters\n",
				i, p.EffectName(), p.Path(), p.ParametersCount())
		}
		return nil
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <plugin> <preset.ini>",
	Short: "Check that a single plugin preset applies cleanly",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := host.Open(native.Loader{}, args[0], args[1], hostOptions()...)
		if p != nil {
			defer p.Close()
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: applied group %s\n", p.EffectName(), p.PresetGroup())
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <preset.ini>",
	Short: "Print every group and value stored in a preset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := preset.OpenFile(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, group := range f.ChildGroups() {
			fmt.Fprintf(w, "[%s]\n", group)
			f.BeginGroup(group)
			for _, key := range f.ChildKeys() {
				v, _ := f.Value(key)
				fmt.Fprintf(w, "  %s = %s\n", key, v)
			}
			f.EndGroup()
		}
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetSaveCmd, presetLoadCmd, presetApplyCmd, presetShowCmd)
	rootCmd.AddCommand(presetCmd)
}
