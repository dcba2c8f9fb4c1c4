package debug

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Run("Sine", func(t *testing.T) {
		buffer := make([]float32, 48000)
		for i := range buffer {
			buffer[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/48000))
		}

		result := Analyze(buffer)

		assert.Equal(t, 48000, result.Samples)
		assert.InDelta(t, 0.5, result.Peak, 0.01)
		assert.InDelta(t, 0.5/math.Sqrt2, result.RMS, 0.01)
		assert.InDelta(t, 0, result.DC, 0.01)
		assert.False(t, result.Clipping())
		assert.True(t, result.Finite())
	})

	t.Run("Empty", func(t *testing.T) {
		result := Analyze([]float64(nil))
		assert.Equal(t, AnalysisResult{}, result)
	})

	t.Run("NonFinite", func(t *testing.T) {
		buffer := []float64{0.25, math.NaN(), math.Inf(1), math.Inf(-1), -0.25}

		result := Analyze(buffer)

		assert.Equal(t, 1, result.NaNCount)
		assert.Equal(t, 2, result.InfCount)
		assert.False(t, result.Finite())
		assert.Equal(t, 0.25, result.Peak)
		assert.Equal(t, 0.25, result.RMS)
		assert.Zero(t, result.DC)
	})

	t.Run("Clipping", func(t *testing.T) {
		result := Analyze([]float32{0, 1, -1.5, 0.5})
		assert.Equal(t, 2, result.ClippedSamples)
		assert.True(t, result.Clipping())
		assert.Equal(t, 1.5, result.Peak)
	})
}

func TestCheckChannels(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	channels := [][]float32{
		{0, 0.5},
		{nan, 0, nan},
		{inf},
	}

	issues := CheckChannels(channels, "stage 1")

	assert.Equal(t, []string{
		"stage 1[1]: 2 NaN samples",
		"stage 1[2]: 1 Inf samples",
	}, issues)
	assert.Empty(t, CheckChannels([][]float64{{0, 1}}, "clean"))
}

func TestCompareBuffers(t *testing.T) {
	diff, idx := CompareBuffers([]float32{0, 1, 2}, []float32{0, 1.5, 2})
	assert.InDelta(t, 0.5, diff, 1e-9)
	assert.Equal(t, 1, idx)

	diff, idx = CompareBuffers([]float64{1, 2}, []float64{1, 2})
	assert.Zero(t, diff)
	assert.Zero(t, idx)

	diff, idx = CompareBuffers([]float64{1}, []float64{1, 2})
	assert.True(t, math.IsInf(diff, 1))
	assert.Equal(t, -1, idx)
}
