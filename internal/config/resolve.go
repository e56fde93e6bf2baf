package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Source names every input the resolver merges.
//
// Precedence (highest wins):
//
//  1. Overrides   values the user typed on the command line
//  2. Profile     the named section of the config file
//  3. DEFAULT     the config file's DEFAULT section
//  4. built-ins   see defaults.go
//
// Overrides must contain only settings the user actually supplied. A
// value equal to the built-in still wins when it was supplied.
type Source struct {
	Overrides  map[string]string
	ConfigPath string
	Profile    string
	HomeDir    string
}

// Setting is one resolved value and the tier it came from.
type Setting struct {
	Name   string
	Value  Value
	Origin Origin
}

// Resolver merges the configuration tiers. It never fails: problems
// with the file, the profile or individual values become warnings.
type Resolver struct {
	log zerolog.Logger
}

// NewResolver returns a resolver that reports warnings to log.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

type tier struct {
	origin Origin
	values map[string]string
}

// Resolve builds the immutable configuration for one run.
func (r *Resolver) Resolve(src Source) *Resolved {
	res := &Resolved{
		settings: make(map[string]Setting, len(definitions)),
		extras:   make(map[string]string),
		profile:  src.Profile,
	}
	if res.profile == "" {
		res.profile = DefaultProfile
	}

	defaultTier, profileTier := r.loadFileTiers(src.ConfigPath, res.profile, res)

	tiers := []tier{
		{origin: OriginCLI, values: src.Overrides},
		{origin: OriginProfile, values: profileTier},
		{origin: OriginDefaultProfile, values: defaultTier},
		{origin: OriginBuiltin, values: Builtins(src.HomeDir)},
	}

	for _, def := range definitions {
		res.settings[def.Name] = r.resolveOne(def, tiers, res)
	}

	// Unknown keys pass through untyped. Profile keys shadow DEFAULT ones.
	for _, t := range []tier{tiers[2], tiers[1], tiers[0]} {
		for k, v := range t.values {
			if _, known := Lookup(k); !known {
				res.extras[k] = v
			}
		}
	}

	return res
}

func (r *Resolver) resolveOne(def Definition, tiers []tier, res *Resolved) Setting {
	for _, t := range tiers {
		raw, present := t.values[def.Name]
		if !present {
			continue
		}
		v, err := Coerce(def, raw)
		if err != nil {
			cerr := &CoercionError{Setting: def.Name, Value: raw, Origin: t.origin, Reason: err.Error()}
			res.warn(r.log, cerr.Error()+", falling back to a lower-priority value")
			continue
		}
		return Setting{Name: def.Name, Value: v, Origin: t.origin}
	}
	// Every built-in coerces, so this only happens for a broken table.
	return Setting{Name: def.Name, Value: Value{Kind: def.Kind}, Origin: OriginBuiltin}
}

// loadFileTiers returns the DEFAULT keys and the selected profile's own keys.
// When the named profile is missing, only DEFAULT applies.
func (r *Resolver) loadFileTiers(path, profile string, res *Resolved) (map[string]string, map[string]string) {
	if path == "" {
		return nil, nil
	}

	pf, err := LoadProfiles(path)
	if err != nil {
		if errors.Is(err, ErrNoConfigFile) {
			res.warn(r.log, fmt.Sprintf("configuration file not found: %s, using built-in defaults and command-line arguments", path))
		} else {
			res.warn(r.log, fmt.Sprintf("cannot read configuration file: %v, using built-in defaults and command-line arguments", err))
		}
		if profile != DefaultProfile {
			res.warn(r.log, fmt.Sprintf("profile %q not found, using DEFAULT or command-line arguments", profile))
		}
		return nil, nil
	}

	defaults := pf.Default()
	if profile == DefaultProfile {
		return defaults, nil
	}
	own, err := pf.Section(profile)
	if err != nil {
		res.warn(r.log, fmt.Sprintf("profile %q not found in %s, using DEFAULT or command-line arguments", profile, path))
		return defaults, nil
	}
	return defaults, own
}

// Resolved is the final, read-only configuration. It is safe for
// concurrent use; getters return copies.
type Resolved struct {
	settings map[string]Setting
	extras   map[string]string
	profile  string
	warnings []string
}

func (res *Resolved) warn(log zerolog.Logger, msg string) {
	res.warnings = append(res.warnings, msg)
	log.Warn().Msg(msg)
}

// Setting returns the resolved setting for name.
func (res *Resolved) Setting(name string) (Setting, bool) {
	s, ok := res.settings[name]
	if ok && s.Value.List != nil {
		s.Value.List = append([]string(nil), s.Value.List...)
	}
	return s, ok
}

// Settings returns every recognized setting in definition order.
func (res *Resolved) Settings() []Setting {
	out := make([]Setting, 0, len(definitions))
	for _, def := range definitions {
		s, _ := res.Setting(def.Name)
		out = append(out, s)
	}
	return out
}

// String returns a string setting, or "" for any other kind.
func (res *Resolved) String(name string) string {
	s := res.settings[name]
	if s.Value.Kind != KindString {
		return ""
	}
	return s.Value.Str
}

// Int returns an integer setting, or 0 for any other kind.
func (res *Resolved) Int(name string) int {
	s := res.settings[name]
	if s.Value.Kind != KindInt {
		return 0
	}
	return s.Value.Int
}

// Bool returns a boolean setting, or false for any other kind.
func (res *Resolved) Bool(name string) bool {
	s := res.settings[name]
	if s.Value.Kind != KindBool {
		return false
	}
	return s.Value.Bool
}

// Strings returns a copy of a list setting.
func (res *Resolved) Strings(name string) []string {
	s := res.settings[name]
	if s.Value.Kind != KindList {
		return nil
	}
	return append([]string{}, s.Value.List...)
}

// Origin reports which tier supplied name.
func (res *Resolved) Origin(name string) Origin {
	return res.settings[name].Origin
}

// Extra returns an unrecognized key from the config file or overrides.
func (res *Resolved) Extra(name string) (string, bool) {
	v, ok := res.extras[name]
	return v, ok
}

// ExtraNames returns the unrecognized keys, sorted.
func (res *Resolved) ExtraNames() []string {
	names := make([]string, 0, len(res.extras))
	for k := range res.extras {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Profile is the profile name that was requested.
func (res *Resolved) Profile() string {
	return res.profile
}

// Warnings returns the non-fatal problems met while resolving.
func (res *Resolved) Warnings() []string {
	return append([]string(nil), res.warnings...)
}
