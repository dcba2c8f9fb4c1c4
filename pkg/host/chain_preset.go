package host

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/justyntemme/vst2host/pkg/preset"
)

// chainGroup holds the module path of each chain position.
const chainGroup = "Chain"

// maxChainPosition bounds stored positions so a corrupt session cannot
// allocate an arbitrarily long chain.
const maxChainPosition = 1023

// SavePreset writes the chain session to the INI file at path, replacing
// its contents.
func (c *Chain) SavePreset(path string) error {
	f, err := preset.OpenFile(path)
	if err != nil {
		return err
	}
	c.SaveSession(f)
	return f.Save()
}

// LoadPreset replaces the chain with the session stored at path.
func (c *Chain) LoadPreset(path string) error {
	f, err := preset.OpenFile(path)
	if err != nil {
		return err
	}
	return c.LoadSession(f)
}

// SaveSession clears s and writes the module path of every position followed
// by each plugin's preset. Positions are renumbered from zero; placeholders
// without a path keep their position but are not written.
func (c *Chain) SaveSession(s preset.Store) {
	s.Clear()
	s.BeginGroup(chainGroup)
	for i, p := range c.plugins {
		p.chainIndex = i
		if p.Path() == "" {
			continue
		}
		s.SetValue(strconv.Itoa(i), p.Path())
	}
	s.EndGroup()
	for _, p := range c.plugins {
		p.SavePreset(s)
	}
}

type chainEntry struct {
	pos  int
	path string
}

// LoadSession rebuilds the chain from s. Every stored module is loaded and
// every stored identifier checked before any value is applied; on failure the
// current chain is left as it was. Positions missing from the session become
// unloaded placeholders.
func (c *Chain) LoadSession(s preset.Store) error {
	entries, err := readChainEntries(s)
	if err != nil {
		return err
	}

	size := 0
	if len(entries) > 0 {
		size = entries[len(entries)-1].pos + 1
	}
	plugins := make([]*Plugin, size)
	for i := range plugins {
		plugins[i] = newPlugin(c.loader, c.cfg)
		plugins[i].chainIndex = i
	}

	for _, e := range entries {
		if err := plugins[e.pos].Load(e.path); err != nil {
			closeAll(plugins)
			return fmt.Errorf("chain position %d: %w", e.pos, err)
		}
	}
	for _, p := range plugins {
		if p.IsLoaded() && !p.presetMatches(s) {
			closeAll(plugins)
			return fmt.Errorf("%w: chain position %d (%s)", ErrPresetMismatch, p.chainIndex, p.Path())
		}
	}
	for _, p := range plugins {
		if p.IsLoaded() {
			p.applyPreset(s)
		}
	}

	c.clear()
	c.plugins = plugins
	c.log.Debug().Int("positions", size).Int("loaded", len(entries)).Msg("chain session loaded")
	return nil
}

// readChainEntries returns the stored positions sorted in signal order.
// Positions with an empty path are left to become placeholders.
func readChainEntries(s preset.Store) ([]chainEntry, error) {
	s.BeginGroup(chainGroup)
	defer s.EndGroup()

	keys := s.ChildKeys()
	entries := make([]chainEntry, 0, len(keys))
	for _, key := range keys {
		pos, err := strconv.Atoi(key)
		if err != nil || pos < 0 || pos > maxChainPosition {
			return nil, fmt.Errorf("%w: position %q", ErrInvalidSession, key)
		}
		path, _ := s.Value(key)
		if path == "" {
			continue
		}
		entries = append(entries, chainEntry{pos: pos, path: path})
	}
	slices.SortFunc(entries, func(a, b chainEntry) int {
		return a.pos - b.pos
	})
	return entries, nil
}
