package preset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// File is a Store backed by an INI file. Each group becomes a section.
// Changes are kept in memory until Save.
type File struct {
	path  string
	data  *ini.File
	group groupPath
}

var _ Store = (*File)(nil)

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
	Loose:               true,
}

// OpenFile reads path if it exists. A missing file yields an empty store
// that Save will create.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	data, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read preset file %s: %w", path, err)
		}
		data = ini.Empty(loadOptions)
	}
	f.data = data
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// BeginGroup enters the named subgroup.
func (f *File) BeginGroup(name string) {
	f.group.push(name)
}

// EndGroup leaves the innermost group.
func (f *File) EndGroup() {
	f.group.pop()
}

func (f *File) section() string {
	if len(f.group) == 0 {
		return ini.DefaultSection
	}
	return f.group.String()
}

// SetValue stores value under key in the current group's section.
func (f *File) SetValue(key, value string) {
	f.data.Section(f.section()).Key(key).SetValue(value)
}

// Value returns the value stored under key in the current group.
func (f *File) Value(key string) (string, bool) {
	sec, err := f.data.GetSection(f.section())
	if err != nil || !sec.HasKey(key) {
		return "", false
	}
	return sec.Key(key).String(), true
}

// ChildKeys returns the keys of the current group's section.
func (f *File) ChildKeys() []string {
	sec, err := f.data.GetSection(f.section())
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// ChildGroups returns the direct subgroups of the current group.
func (f *File) ChildGroups() []string {
	var names []string
	for _, name := range f.data.SectionStrings() {
		if name != ini.DefaultSection {
			names = append(names, name)
		}
	}
	return children(f.group.String(), names)
}

// Clear removes every section. The file changes on the next Save.
func (f *File) Clear() {
	f.data = ini.Empty(loadOptions)
}

// Save writes the store to its file.
func (f *File) Save() error {
	if err := f.data.SaveTo(f.path); err != nil {
		return fmt.Errorf("failed to write preset file %s: %w", f.path, err)
	}
	return nil
}
