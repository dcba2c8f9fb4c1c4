// Package signal generates deterministic test signals for feeding plugins
// when no recorded input is available.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Waveform selects the generated signal.
type Waveform int

const (
	Silence Waveform = iota
	Sine
	Saw
	Square
	Triangle
	Impulse
	WhiteNoise
)

var waveformNames = map[string]Waveform{
	"silence":  Silence,
	"sine":     Sine,
	"saw":      Saw,
	"square":   Square,
	"triangle": Triangle,
	"impulse":  Impulse,
	"noise":    WhiteNoise,
}

// String returns the name accepted by Parse.
func (w Waveform) String() string {
	for name, v := range waveformNames {
		if v == w {
			return name
		}
	}
	return "unknown"
}

// Generator produces one waveform at a fixed frequency and amplitude.
type Generator struct {
	waveform   Waveform
	sampleRate float64
	amplitude  float32
	phase      float64
	phaseInc   float64
	started    bool
	rand       *rand.Rand
}

// New creates a generator. Noise is seeded with seed so output is
// reproducible.
func New(w Waveform, sampleRate, frequency float64, seed int64) *Generator {
	g := &Generator{
		waveform:   w,
		sampleRate: sampleRate,
		amplitude:  1,
		rand:       rand.New(rand.NewSource(seed)),
	}
	g.SetFrequency(frequency)
	return g
}

// SetFrequency changes the frequency in Hz. Non-positive sample rates leave
// the generator stopped at phase zero.
func (g *Generator) SetFrequency(freq float64) {
	if g.sampleRate <= 0 {
		g.phaseInc = 0
		return
	}
	g.phaseInc = freq / g.sampleRate
}

// SetAmplitude scales every generated sample.
func (g *Generator) SetAmplitude(a float32) {
	g.amplitude = a
}

// Reset restarts the waveform at phase zero.
func (g *Generator) Reset() {
	g.phase = 0
	g.started = false
}

// Next returns the next sample.
func (g *Generator) Next() float32 {
	var v float32
	switch g.waveform {
	case Sine:
		v = float32(math.Sin(2 * math.Pi * g.phase))
	case Saw:
		v = float32(2*g.phase - 1)
	case Square:
		if g.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	case Triangle:
		if g.phase < 0.5 {
			v = float32(4*g.phase - 1)
		} else {
			v = float32(3 - 4*g.phase)
		}
	case Impulse:
		if !g.started {
			v = 1
		}
	case WhiteNoise:
		v = g.rand.Float32()*2 - 1
	}
	g.started = true
	g.phase += g.phaseInc
	if g.phase >= 1 {
		g.phase -= math.Floor(g.phase)
	}
	return v * g.amplitude
}

// Fill writes consecutive samples into buf.
func (g *Generator) Fill(buf []float32) {
	for i := range buf {
		buf[i] = g.Next()
	}
}

// Channels renders frames samples and copies them to n channels.
func (g *Generator) Channels(n, frames int) [][]float32 {
	if n <= 0 || frames < 0 {
		return nil
	}
	chans := make([][]float32, n)
	chans[0] = make([]float32, frames)
	g.Fill(chans[0])
	for c := 1; c < n; c++ {
		chans[c] = append([]float32(nil), chans[0]...)
	}
	return chans
}

// Parse reads a signal description of the form "waveform[:frequency]", for
// example "sine:440" or "noise".
func Parse(desc string) (Waveform, float64, error) {
	name, freqText, hasFreq := strings.Cut(strings.TrimSpace(desc), ":")
	w, ok := waveformNames[strings.ToLower(name)]
	if !ok {
		return 0, 0, fmt.Errorf("unknown waveform %q", name)
	}
	freq := 440.0
	if hasFreq {
		f, err := strconv.ParseFloat(freqText, 64)
		if err != nil || f <= 0 {
			return 0, 0, fmt.Errorf("invalid frequency %q", freqText)
		}
		freq = f
	}
	return w, freq, nil
}
