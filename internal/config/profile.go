package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/ini.v1"
)

var (
	// ErrNoConfigFile is returned when the configuration file does not exist.
	ErrNoConfigFile = errors.New("configuration file not found")

	// ErrProfileNotFound is returned when a named profile is absent.
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileFile is a parsed INI configuration file: a DEFAULT section plus
// any number of named profiles. Keys are case-insensitive and stored
// lower-cased; section names keep their case.
type ProfileFile struct {
	defaults map[string]string
	sections map[string]map[string]string
}

// LoadProfiles reads and parses the INI file at path.
func LoadProfiles(path string) (*ProfileFile, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoConfigFile, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fromINI(f), nil
}

// ParseProfiles parses INI content already held in memory.
func ParseProfiles(data []byte) (*ProfileFile, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return fromINI(f), nil
}

func fromINI(f *ini.File) *ProfileFile {
	pf := &ProfileFile{sections: make(map[string]map[string]string)}
	for _, sec := range f.Sections() {
		keys := make(map[string]string, len(sec.Keys()))
		for _, k := range sec.Keys() {
			keys[k.Name()] = k.Value()
		}
		if sec.Name() == ini.DefaultSection {
			pf.defaults = keys
			continue
		}
		pf.sections[sec.Name()] = keys
	}
	return pf
}

// HasDefault reports whether the DEFAULT section holds at least one key.
func (p *ProfileFile) HasDefault() bool {
	return p != nil && len(p.defaults) > 0
}

// Default returns a copy of the DEFAULT section.
func (p *ProfileFile) Default() map[string]string {
	if p == nil {
		return map[string]string{}
	}
	return copyMap(p.defaults)
}

// Section returns a copy of the named profile's own keys, without the
// keys it inherits from DEFAULT.
func (p *ProfileFile) Section(name string) (map[string]string, error) {
	if p != nil {
		if keys, ok := p.sections[name]; ok {
			return copyMap(keys), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// Names returns the named profiles, sorted.
func (p *ProfileFile) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.sections))
	for n := range p.sections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
