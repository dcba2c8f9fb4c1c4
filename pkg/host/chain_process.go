package host

import (
	"strconv"

	"github.com/justyntemme/vst2host/pkg/framework/debug"
)

// ProcessFloat runs in through every plugin in order and returns len(in)
// channels of output. Before each stage the last available channel is
// repeated until the stage's input count is met. A generator chain is fed
// no input and returns every channel of the last stage rather than being
// truncated to len(in), which would leave it with no output at all.
//
// The result is nil when any plugin lacks 32-bit support, is not loaded,
// or len(in) is rejected by CanProcess.
func (c *Chain) ProcessFloat(in [][]float32) [][]float32 {
	if !c.CanProcessFloat() {
		return nil
	}
	return runChain(c, in, (*Plugin).ProcessFloatBuffers)
}

// ProcessDouble is the 64-bit counterpart of ProcessFloat.
func (c *Chain) ProcessDouble(in [][]float64) [][]float64 {
	if !c.CanProcessDouble() {
		return nil
	}
	return runChain(c, in, (*Plugin).ProcessDoubleBuffers)
}

// ProcessOneFloat processes a single channel and returns the first output.
func (c *Chain) ProcessOneFloat(in []float32) []float32 {
	return first(c.ProcessFloat([][]float32{in}))
}

// ProcessOneDouble is the 64-bit counterpart of ProcessOneFloat.
func (c *Chain) ProcessOneDouble(in []float64) []float64 {
	return first(c.ProcessDouble([][]float64{in}))
}

func runChain[T debug.Sample](c *Chain, in [][]T, stage func(*Plugin, [][]T) [][]T) [][]T {
	if !c.CanProcess(len(in)) {
		return nil
	}
	checkStages := c.log.Enabled(debug.LogLevelDebug)

	buf := in
	for i, p := range c.plugins {
		if !p.IsLoaded() {
			return nil
		}
		need := p.InputsCount()
		if len(buf) < need {
			if len(buf) == 0 {
				return nil
			}
			buf = padChannels(buf, need)
		}

		var stop func()
		if c.cfg.profiler != nil {
			stop = c.cfg.profiler.Start("stage " + strconv.Itoa(i))
		}
		out := stage(p, buf[:need])
		if stop != nil {
			stop()
		}
		if out == nil {
			return nil
		}
		if checkStages {
			for _, issue := range debug.CheckChannels(out, "stage "+strconv.Itoa(i)) {
				c.log.Debug().Str("plugin", p.Path()).Msg(issue)
			}
		}
		buf = out
	}
	if len(in) > 0 && len(buf) > len(in) {
		buf = buf[:len(in)]
	}
	return buf
}

// padChannels returns chans extended to n entries by repeating the last one.
// The caller's slice is not modified.
func padChannels[T debug.Sample](chans [][]T, n int) [][]T {
	padded := make([][]T, len(chans), n)
	copy(padded, chans)
	last := chans[len(chans)-1]
	for len(padded) < n {
		padded = append(padded, last)
	}
	return padded
}
