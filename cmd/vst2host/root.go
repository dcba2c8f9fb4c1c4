package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/host"
	"github.com/justyntemme/vst2host/pkg/vst2/native"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "vst2host",
	Short: "Host VST 2.x plugins from the command line",
	Long: `vst2host loads VST 2.x plugin modules, reports what they expose,
runs raw audio through a chain of them and stores chain sessions as INI
presets.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vst2host.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.Float32("sample-rate", host.DefaultSampleRate, "sample rate sent to plugins")
	pf.Int32("block-size", host.DefaultBlockSize, "maximum frames per process call (0 for one block)")
	pf.String("log-format", "text", "log encoding: text or json")
	pf.String("log-file", "", "append JSON logs to this file instead of stderr")

	_ = viper.BindPFlag("sample_rate", pf.Lookup("sample-rate"))
	_ = viper.BindPFlag("block_size", pf.Lookup("block-size"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("log.file", pf.Lookup("log-file"))
	viper.SetDefault("log.level", "info")
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			debug.Error().Err(err).Msg("failed to find home directory")
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vst2host")
	}

	viper.SetEnvPrefix("VST2HOST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		debug.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func setupLogging() {
	if path := viper.GetString("log.file"); path != "" {
		logger, err := debug.NewFileLogger(path, "")
		if err != nil {
			debug.Error().Err(err).Str("file", path).Msg("failed to open log file")
		} else {
			debug.SetDefault(logger)
		}
	} else {
		debug.SetFormat(debug.ParseFormat(viper.GetString("log.format")))
	}
	level := debug.ParseLevel(viper.GetString("log.level"))
	if verbose {
		level = debug.LogLevelDebug
	}
	debug.SetLevel(level)
}

// hostOptions builds the plugin options shared by every command.
func hostOptions(extra ...host.Option) []host.Option {
	opts := []host.Option{
		host.WithLogger(debug.Default().With("host")),
		host.WithSampleRate(float32(viper.GetFloat64("sample_rate"))),
		host.WithBlockSize(viper.GetInt32("block_size")),
	}
	return append(opts, extra...)
}

func newChain(extra ...host.Option) *host.Chain {
	return host.NewChain(native.Loader{}, hostOptions(extra...)...)
}
