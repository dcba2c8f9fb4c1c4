package debug

import (
	"fmt"
	"math"
)

// Sample is a 32- or 64-bit audio sample.
type Sample interface {
	~float32 | ~float64
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float64
	RMS            float64
	DC             float64
	ClippedSamples int
	NaNCount       int
	InfCount       int
}

// Clipping reports whether any sample reached full scale.
func (r AnalysisResult) Clipping() bool {
	return r.ClippedSamples > 0
}

// Finite reports whether the buffer holds no NaN or Inf samples.
func (r AnalysisResult) Finite() bool {
	return r.NaNCount == 0 && r.InfCount == 0
}

// Analyze computes peak, RMS, DC offset and counts of non-finite and
// clipped samples. Non-finite samples are excluded from the sums.
func Analyze[T Sample](buffer []T) AnalysisResult {
	result := AnalysisResult{Samples: len(buffer)}
	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	finite := 0
	for _, s := range buffer {
		v := float64(s)
		switch {
		case math.IsNaN(v):
			result.NaNCount++
			continue
		case math.IsInf(v, 0):
			result.InfCount++
			continue
		}
		a := math.Abs(v)
		if a > result.Peak {
			result.Peak = a
		}
		if a >= 1.0 {
			result.ClippedSamples++
		}
		sum += v
		sumSquares += v * v
		finite++
	}
	if finite > 0 {
		result.RMS = math.Sqrt(sumSquares / float64(finite))
		result.DC = sum / float64(finite)
	}
	return result
}

// CheckChannels returns one message per channel that holds NaN or Inf
// samples. name identifies the buffer in the messages.
func CheckChannels[T Sample](channels [][]T, name string) []string {
	var issues []string
	for ch, buf := range channels {
		r := Analyze(buf)
		if r.NaNCount > 0 {
			issues = append(issues, fmt.Sprintf("%s[%d]: %d NaN samples", name, ch, r.NaNCount))
		}
		if r.InfCount > 0 {
			issues = append(issues, fmt.Sprintf("%s[%d]: %d Inf samples", name, ch, r.InfCount))
		}
	}
	return issues
}

// CompareBuffers returns the largest absolute difference between a and b and
// its index. Buffers of different lengths compare as +Inf at index -1.
func CompareBuffers[T Sample](a, b []T) (maxDiff float64, index int) {
	if len(a) != len(b) {
		return math.Inf(1), -1
	}
	for i := range a {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if d > maxDiff {
			maxDiff, index = d, i
		}
	}
	return maxDiff, index
}
