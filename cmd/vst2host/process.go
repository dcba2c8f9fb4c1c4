package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
	"github.com/justyntemme/vst2host/pkg/host"
	"github.com/justyntemme/vst2host/pkg/signal"
)

var errShortFrame = errors.New("input ends inside a frame")

var processOpts struct {
	input    string
	output   string
	session  string
	channels int
	frames   int
	signal   string
	double   bool
	bypass   bool
	profile  bool
}

var processCmd = &cobra.Command{
	Use:   "process [plugin...]",
	Short: "Run raw interleaved float32 audio through a plugin chain",
	Long: `process reads little-endian interleaved float32 frames, runs them
through the plugins given as arguments (or the chain stored in --session) and
writes the result in the same format. --signal replaces the input with a
generated test signal. A chain that starts with a generator needs no input;
--frames sets how many frames it renders.`,
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVarP(&processOpts.input, "input", "i", "-", "input file, - for stdin")
	f.StringVarP(&processOpts.output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&processOpts.session, "session", "", "load the chain from an INI session instead of arguments")
	f.IntVarP(&processOpts.channels, "channels", "c", 2, "interleaved input channel count")
	f.IntVar(&processOpts.frames, "frames", 0, "frames rendered by a generator chain or --signal (default one second)")
	f.StringVar(&processOpts.signal, "signal", "", "use a test signal as input, e.g. sine:440, square:100, impulse, noise")
	f.BoolVar(&processOpts.double, "double", false, "process in double precision")
	f.BoolVar(&processOpts.bypass, "bypass", false, "put every plugin in bypass")
	f.BoolVar(&processOpts.profile, "profile", false, "print per-stage timings to stderr")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	var extra []host.Option
	prof := debug.NewProfiler()
	prof.SetEnabled(processOpts.profile)
	extra = append(extra, host.WithProfiler(prof))

	chain := newChain(extra...)
	defer chain.Close()

	switch {
	case processOpts.session != "":
		if err := chain.LoadPreset(processOpts.session); err != nil {
			return err
		}
	case len(args) > 0:
		if err := chain.Load(args...); err != nil {
			return err
		}
	default:
		return errors.New("no plugins given")
	}
	if chain.IsGenerator() && processOpts.frames > 0 {
		chain.SetBlockSize(int32(processOpts.frames))
	}
	chain.SetBypass(processOpts.bypass)
	chain.Resume()
	defer chain.Suspend()

	var in [][]float32
	switch {
	case chain.IsGenerator():
	case processOpts.signal != "":
		w, freq, err := signal.Parse(processOpts.signal)
		if err != nil {
			return err
		}
		sr := viper.GetFloat64("sample_rate")
		frames := processOpts.frames
		if frames <= 0 {
			frames = int(sr)
		}
		gen := signal.New(w, sr, freq, 1)
		gen.SetAmplitude(0.5)
		in = gen.Channels(processOpts.channels, frames)
	default:
		r, closeIn, err := openInput(processOpts.input)
		if err != nil {
			return err
		}
		defer closeIn()
		in, err = readInterleaved(r, processOpts.channels)
		if err != nil {
			return err
		}
	}
	if !chain.CanProcess(len(in)) {
		return fmt.Errorf("chain cannot process %d channels (links %d)", len(in), chain.LinksCount())
	}

	out, err := processChain(chain, in, processOpts.double)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(processOpts.output)
	if err != nil {
		return err
	}
	if err := writeInterleaved(w, out); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	for c, ch := range out {
		r := debug.Analyze(ch)
		debug.Debug().
			Int("channel", c).
			Float64("peak", r.Peak).
			Float64("rms", r.RMS).
			Int("clipped", r.ClippedSamples).
			Msg("output level")
	}
	debug.Info().
		Int("channels", len(out)).
		Int("frames", frameCount(out)).
		Msg("processed")
	if processOpts.profile {
		fmt.Fprint(cmd.ErrOrStderr(), prof.Report())
	}
	return nil
}

func processChain(chain *host.Chain, in [][]float32, double bool) ([][]float32, error) {
	if !double {
		out := chain.ProcessFloat(in)
		if out == nil {
			return nil, errors.New("chain produced no output")
		}
		return out, nil
	}
	out := chain.ProcessDouble(convert[float32, float64](in))
	if out == nil {
		return nil, errors.New("chain produced no double output")
	}
	return convert[float64, float32](out), nil
}

func convert[From, To debug.Sample](chans [][]From) [][]To {
	out := make([][]To, len(chans))
	for c, ch := range chans {
		out[c] = make([]To, len(ch))
		for i, v := range ch {
			out[c][i] = To(v)
		}
	}
	return out
}

func frameCount(chans [][]float32) int {
	if len(chans) == 0 {
		return 0
	}
	return len(chans[0])
}

// readInterleaved reads little-endian float32 frames of n channels until EOF
// and splits them into one slice per channel.
func readInterleaved(r io.Reader, n int) ([][]float32, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", n)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	frameSize := 4 * n
	if len(data)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d channels", errShortFrame, len(data), n)
	}
	frames := len(data) / frameSize
	chans := make([][]float32, n)
	for c := range chans {
		chans[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < n; c++ {
			off := (i*n + c) * 4
			chans[c][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return chans, nil
}

// writeInterleaved writes channels as little-endian float32 frames. Frames
// stop at the shortest channel.
func writeInterleaved(w io.Writer, chans [][]float32) error {
	frames := -1
	for _, ch := range chans {
		if frames < 0 || len(ch) < frames {
			frames = len(ch)
		}
	}
	bw := bufio.NewWriter(w)
	var buf [4]byte
	for i := 0; i < frames; i++ {
		for _, ch := range chans {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(ch[i]))
			if _, err := bw.Write(buf[:]); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// openOutput returns the destination writer and a function closing it. The
// close error of a file is reported since it may carry a failed write.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output: %w", err)
		}
		return nil
	}, nil
}
