//go:build !windows

package native

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/cgo"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/vst2host/pkg/vst2"
)

// Vendor specific queries answered by testdata/fixture.c.
const (
	queryUser int32 = iota
	queryEntryVersion
	queryEntryCurrentID
	queryProcessCalls
	queryLastFrames
)

const fixtureID int32 = 0x46697874

var (
	fixturePath    string
	badMagicPath   string
	fixtureSkipMsg string
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "vst2-fixture")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fixturePath = filepath.Join(dir, "fixture.so")
	badMagicPath = filepath.Join(dir, "badmagic.so")
	if err := buildFixture(fixturePath); err != nil {
		fixtureSkipMsg = err.Error()
	} else if err := buildFixture(badMagicPath, "-DFIXTURE_BAD_MAGIC"); err != nil {
		fixtureSkipMsg = err.Error()
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// buildFixture compiles the test plugin with the C compiler cgo uses.
func buildFixture(out string, defines ...string) error {
	cc := "cc"
	if b, err := exec.Command("go", "env", "CC").Output(); err == nil {
		if v := strings.TrimSpace(string(b)); v != "" {
			cc = strings.Fields(v)[0]
		}
	}
	if _, err := exec.LookPath(cc); err != nil {
		return fmt.Errorf("no C compiler: %w", err)
	}
	args := append([]string{"-shared", "-fPIC", "-I.", "-o", out}, defines...)
	args = append(args, filepath.Join("testdata", "fixture.c"))
	if b, err := exec.Command(cc, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("building fixture: %v: %s", err, b)
	}
	return nil
}

type hostCall struct {
	effect vst2.Effect
	op     vst2.HostOpcode
}

type recordingHost struct {
	calls []hostCall
}

func (h *recordingHost) callback(effect vst2.Effect, op vst2.HostOpcode, _ int32, _ int64, _ unsafe.Pointer, _ float32) int64 {
	h.calls = append(h.calls, hostCall{effect: effect, op: op})
	switch op {
	case vst2.HostVersion:
		return vst2.Version
	case vst2.HostCurrentID:
		if effect == nil {
			return 0
		}
		return int64(effect.Descriptor().UniqueID)
	}
	return 0
}

func registered() int {
	effectsMu.RLock()
	defer effectsMu.RUnlock()
	return len(effects)
}

// openFixture loads path and calls its entry point. The returned effect is
// closed and its module unloaded when the test ends.
func openFixture(t *testing.T, path string) (vst2.Effect, *recordingHost) {
	t.Helper()
	if fixtureSkipMsg != "" {
		t.Skip(fixtureSkipMsg)
	}
	mod, err := Loader{}.Open(path)
	require.NoError(t, err)
	entry, err := vst2.ResolveEntry(mod)
	require.NoError(t, err)

	host := &recordingHost{}
	effect := entry(host.callback)
	require.NotNil(t, effect)
	t.Cleanup(func() {
		if effect.Descriptor().Magic == vst2.Magic {
			effect.Dispatch(vst2.EffClose, 0, 0, nil, 0)
		}
		assert.NoError(t, mod.Close())
	})
	return effect, host
}

func query(e vst2.Effect, what int32) int64 {
	return e.Dispatch(vst2.EffVendorSpecific, what, 0, nil, 0)
}

func TestEffectDescriptor(t *testing.T) {
	effect, _ := openFixture(t, fixturePath)
	d := effect.Descriptor()

	assert.Equal(t, vst2.Magic, d.Magic)
	assert.Equal(t, fixtureID, d.UniqueID)
	assert.Equal(t, int32(2), d.NumInputs)
	assert.Equal(t, int32(2), d.NumOutputs)
	assert.Equal(t, int32(1), d.NumParams)
	assert.True(t, d.Flags.Has(vst2.FlagHasEditor|vst2.FlagCanReplacing|vst2.FlagCanDoubleReplacing))

	var name [64]byte
	effect.Dispatch(vst2.EffGetEffectName, 0, 0, unsafe.Pointer(&name[0]), 0)
	assert.Equal(t, "Fixture", vst2.CString(name[:]))
}

func TestEffectCallbacksDuringEntry(t *testing.T) {
	effect, host := openFixture(t, fixturePath)

	assert.Equal(t, vst2.Version, query(effect, queryEntryVersion))
	assert.Equal(t, int64(fixtureID), query(effect, queryEntryCurrentID))
	require.Len(t, host.calls, 2)
	assert.Nil(t, host.calls[0].effect)
	assert.Equal(t, vst2.HostCurrentID, host.calls[1].op)
}

func TestEffectCallbackRouting(t *testing.T) {
	effect, host := openFixture(t, fixturePath)
	host.calls = nil

	assert.Equal(t, int64(fixtureID), effect.Dispatch(vst2.EffEditIdle, 0, 0, nil, 0))
	require.Len(t, host.calls, 1)
	assert.Same(t, effect, host.calls[0].effect)
}

func TestEffectEditRect(t *testing.T) {
	effect, _ := openFixture(t, fixturePath)

	var rect *vst2.Rect
	effect.Dispatch(vst2.EffEditGetRect, 0, 0, unsafe.Pointer(&rect), 0)

	require.NotNil(t, rect)
	assert.Equal(t, int16(10), rect.Top)
	assert.Equal(t, int16(20), rect.Left)
	assert.Equal(t, 300, rect.Width())
	assert.Equal(t, 100, rect.Height())
}

func TestEffectParameters(t *testing.T) {
	effect, _ := openFixture(t, fixturePath)

	assert.Equal(t, float32(2), effect.GetParameter(0))
	effect.SetParameter(0, 0.25)
	assert.Equal(t, float32(0.25), effect.GetParameter(0))
	assert.Zero(t, effect.GetParameter(5))
}

func TestEffectProcess(t *testing.T) {
	t.Run("Float", func(t *testing.T) {
		effect, _ := openFixture(t, fixturePath)
		in := [][]float32{{1, 2, 3, 4, 5, 6}, {-1, -2, -3, -4, -5, -6}}
		out := [][]float32{make([]float32, 6), make([]float32, 6)}

		for start := 0; start < 6; start += 4 {
			end := min(start+4, 6)
			effect.ProcessFloat(
				[][]float32{in[0][start:end], in[1][start:end]},
				[][]float32{out[0][start:end], out[1][start:end]},
				int32(end-start))
		}

		assert.Equal(t, []float32{2, 4, 6, 8, 10, 12}, out[0])
		assert.Equal(t, []float32{-2, -4, -6, -8, -10, -12}, out[1])
		assert.Equal(t, int64(2), query(effect, queryProcessCalls))
		assert.Equal(t, int64(2), query(effect, queryLastFrames))
	})

	t.Run("Double", func(t *testing.T) {
		effect, _ := openFixture(t, fixturePath)
		effect.SetParameter(0, 0.5)
		in := [][]float64{{2, 4}, {6, 8}}
		out := [][]float64{make([]float64, 2), make([]float64, 2)}

		effect.ProcessDouble(in, out, 2)

		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, out)
		assert.Equal(t, int64(1), query(effect, queryProcessCalls))
	})
}

func TestEffectUserData(t *testing.T) {
	effect, _ := openFixture(t, fixturePath)

	effect.SetUserData("surface")
	raw := query(effect, queryUser)
	require.NotZero(t, raw)
	assert.Equal(t, "surface", cgo.Handle(uintptr(raw)).Value())

	effect.SetUserData(nil)
	assert.Zero(t, query(effect, queryUser))
}

func TestEffectCloseReleases(t *testing.T) {
	if fixtureSkipMsg != "" {
		t.Skip(fixtureSkipMsg)
	}
	before := registered()
	mod, err := Loader{}.Open(fixturePath)
	require.NoError(t, err)
	entry, err := vst2.ResolveEntry(mod)
	require.NoError(t, err)

	host := &recordingHost{}
	effect := entry(host.callback)
	require.NotNil(t, effect)
	assert.Equal(t, before+1, registered())
	effect.SetUserData("surface")

	effect.Dispatch(vst2.EffClose, 0, 0, nil, 0)

	assert.Equal(t, before, registered())
	assert.Zero(t, effect.Dispatch(vst2.EffVendorSpecific, queryUser, 0, nil, 0))
	assert.Equal(t, vst2.Descriptor{}, effect.Descriptor())
	require.NoError(t, mod.Close())
}

func TestEffectBadMagicNotRegistered(t *testing.T) {
	if fixtureSkipMsg != "" {
		t.Skip(fixtureSkipMsg)
	}
	before := registered()
	mod, err := Loader{}.Open(badMagicPath)
	require.NoError(t, err)
	entry, err := vst2.ResolveEntry(mod)
	require.NoError(t, err)

	effect := entry((&recordingHost{}).callback)

	require.NotNil(t, effect)
	assert.Equal(t, int32(1), effect.Descriptor().Magic)
	assert.Equal(t, before, registered())
	require.NoError(t, mod.Close())
}
