package host

import "github.com/justyntemme/vst2host/pkg/vst2"

// sample is a 32- or 64-bit audio sample.
type sample interface {
	~float32 | ~float64
}

// ProcessFloat runs frames samples of in through the plugin into out, in
// blocks of at most BlockSize frames. It returns false without touching the
// plugin if 32-bit processing is unsupported or the buffers are too small.
func (p *Plugin) ProcessFloat(in, out [][]float32, frames int) bool {
	if !p.CanProcessFloat() {
		return false
	}
	d := p.effect.Descriptor()
	if !buffersFit(in, out, int(d.NumInputs), int(d.NumOutputs), frames) {
		return false
	}
	p.effect.Dispatch(vst2.EffSetProcessPrecision, 0, vst2.Precision32, nil, 0)
	processBlocks(in, out, int(d.NumInputs), int(d.NumOutputs), frames, p.blockSize, p.effect.ProcessFloat)
	return true
}

// ProcessDouble is the 64-bit counterpart of ProcessFloat.
func (p *Plugin) ProcessDouble(in, out [][]float64, frames int) bool {
	if !p.CanProcessDouble() {
		return false
	}
	d := p.effect.Descriptor()
	if !buffersFit(in, out, int(d.NumInputs), int(d.NumOutputs), frames) {
		return false
	}
	precision := vst2.Precision64
	if p.cfg.legacyDouble {
		precision = vst2.Precision32
	}
	p.effect.Dispatch(vst2.EffSetProcessPrecision, 0, precision, nil, 0)
	processBlocks(in, out, int(d.NumInputs), int(d.NumOutputs), frames, p.blockSize, p.effect.ProcessDouble)
	return true
}

// ProcessFloatBuffers allocates outputs and processes in. It needs exactly
// InputsCount channels and processes as many frames as the shortest one. A
// generator produces BlockSize frames. The result is nil on failure.
func (p *Plugin) ProcessFloatBuffers(in [][]float32) [][]float32 {
	if !p.CanProcessFloat() {
		return nil
	}
	return processBuffers(p, in, p.ProcessFloat)
}

// ProcessDoubleBuffers is the 64-bit counterpart of ProcessFloatBuffers.
func (p *Plugin) ProcessDoubleBuffers(in [][]float64) [][]float64 {
	if !p.CanProcessDouble() {
		return nil
	}
	return processBuffers(p, in, p.ProcessDouble)
}

// ProcessOneFloat feeds in to every input and returns the first output.
func (p *Plugin) ProcessOneFloat(in []float32) []float32 {
	return first(p.ProcessFloatBuffers(fanOut(in, p.InputsCount())))
}

// ProcessOneDouble is the 64-bit counterpart of ProcessOneFloat.
func (p *Plugin) ProcessOneDouble(in []float64) []float64 {
	return first(p.ProcessDoubleBuffers(fanOut(in, p.InputsCount())))
}

func processBuffers[T sample](p *Plugin, in [][]T, process func(in, out [][]T, frames int) bool) [][]T {
	numIn, numOut := p.InputsCount(), p.OutputsCount()
	if len(in) != numIn {
		return nil
	}
	frames := 0
	for i, ch := range in {
		if i == 0 || len(ch) < frames {
			frames = len(ch)
		}
	}
	if numIn == 0 {
		frames = int(p.blockSize)
		if frames <= 0 {
			frames = int(DefaultBlockSize)
		}
	}
	if frames == 0 {
		return nil
	}
	out := make([][]T, numOut)
	for i := range out {
		out[i] = make([]T, frames)
	}
	if !process(in, out, frames) {
		return nil
	}
	return out
}

// buffersFit reports whether in and out hold numIn and numOut channels of at
// least frames samples.
func buffersFit[T sample](in, out [][]T, numIn, numOut, frames int) bool {
	if frames < 0 || len(in) < numIn || len(out) < numOut {
		return false
	}
	for _, ch := range in[:numIn] {
		if len(ch) < frames {
			return false
		}
	}
	for _, ch := range out[:numOut] {
		if len(ch) < frames {
			return false
		}
	}
	return true
}

// processBlocks calls process on consecutive windows of at most block
// frames. A non-positive block size means one window.
func processBlocks[T sample](in, out [][]T, numIn, numOut, frames int, block int32, process func(in, out [][]T, frames int32)) {
	step := int(block)
	if step <= 0 || step > frames {
		step = frames
	}
	bin := make([][]T, numIn)
	bout := make([][]T, numOut)
	for offset := 0; offset < frames; offset += step {
		n := min(step, frames-offset)
		for i := range bin {
			bin[i] = in[i][offset : offset+n]
		}
		for i := range bout {
			bout[i] = out[i][offset : offset+n]
		}
		process(bin, bout, int32(n))
	}
}

func fanOut[T sample](ch []T, n int) [][]T {
	chans := make([][]T, n)
	for i := range chans {
		chans[i] = ch
	}
	return chans
}

func first[T sample](chans [][]T) []T {
	if len(chans) == 0 {
		return nil
	}
	return chans[0]
}
