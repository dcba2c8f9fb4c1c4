package preset

// Memory is an in-process Store. Save is a no-op.
type Memory struct {
	sections map[string]*memorySection
	order    []string
	group    groupPath
}

type memorySection struct {
	keys   []string
	values map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sections: make(map[string]*memorySection)}
}

// BeginGroup enters the named subgroup.
func (m *Memory) BeginGroup(name string) {
	m.group.push(name)
}

// EndGroup leaves the innermost group.
func (m *Memory) EndGroup() {
	m.group.pop()
}

// SetValue stores value under key in the current group.
func (m *Memory) SetValue(key, value string) {
	name := m.group.String()
	sec, ok := m.sections[name]
	if !ok {
		sec = &memorySection{values: make(map[string]string)}
		m.sections[name] = sec
		m.order = append(m.order, name)
	}
	if _, exists := sec.values[key]; !exists {
		sec.keys = append(sec.keys, key)
	}
	sec.values[key] = value
}

// Value returns the value stored under key in the current group.
func (m *Memory) Value(key string) (string, bool) {
	sec, ok := m.sections[m.group.String()]
	if !ok {
		return "", false
	}
	v, ok := sec.values[key]
	return v, ok
}

// ChildKeys returns the keys of the current group in insertion order.
func (m *Memory) ChildKeys() []string {
	sec, ok := m.sections[m.group.String()]
	if !ok {
		return nil
	}
	return append([]string(nil), sec.keys...)
}

// ChildGroups returns the direct subgroups of the current group.
func (m *Memory) ChildGroups() []string {
	return children(m.group.String(), m.order)
}

// Clear removes every group and key.
func (m *Memory) Clear() {
	m.sections = make(map[string]*memorySection)
	m.order = nil
}

// Save is a no-op; the store lives in memory only.
func (m *Memory) Save() error {
	return nil
}
