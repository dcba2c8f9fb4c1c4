// Package preset stores plugin and chain sessions as grouped key/value text.
//
// Groups nest; the current group path is joined with "/" to name the
// section that keys are read from and written to.
package preset

import "strings"

// Store is a grouped key/value settings store.
type Store interface {
	// BeginGroup appends name to the current group path.
	BeginGroup(name string)
	// EndGroup leaves the innermost group.
	EndGroup()

	SetValue(key, value string)
	// Value returns the value stored under key in the current group.
	Value(key string) (string, bool)

	// ChildKeys returns the keys of the current group in insertion order.
	ChildKeys() []string
	// ChildGroups returns the groups directly below the current group.
	ChildGroups() []string

	// Clear removes every group and key.
	Clear()
	// Save flushes the store to its backing medium.
	Save() error
}

// groupPath tracks the nesting of BeginGroup/EndGroup calls.
type groupPath []string

func (g *groupPath) push(name string) {
	*g = append(*g, strings.Trim(name, "/"))
}

func (g *groupPath) pop() {
	if len(*g) > 0 {
		*g = (*g)[:len(*g)-1]
	}
}

// String joins the group names with "/".
func (g groupPath) String() string {
	return strings.Join(g, "/")
}

// children returns the distinct first path elements of names below prefix.
func children(prefix string, names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		rest := name
		if prefix != "" {
			if !strings.HasPrefix(name, prefix+"/") {
				continue
			}
			rest = strings.TrimPrefix(name, prefix+"/")
		}
		if rest == "" {
			continue
		}
		child, _, _ := strings.Cut(rest, "/")
		if !seen[child] {
			seen[child] = true
			out = append(out, child)
		}
	}
	return out
}
