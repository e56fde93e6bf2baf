package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const sampleINI = `
[DEFAULT]
host = 10.0.0.1
port = 8080
intensity = 1
extensions = php, html
color = blue

[lab]
proto = dns
intensity = abc
Domain = lab.example
notuse = a,,b
team = red

[empty]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resolve(src Source) *Resolved {
	return NewResolver(zerolog.Nop()).Resolve(src)
}

func TestResolve_BuiltinsOnly(t *testing.T) {
	res := resolve(Source{HomeDir: "/home/op"})

	if got := res.String(Proto); got != "scanner" {
		t.Errorf("proto = %q, want %q", got, "scanner")
	}
	if got := res.String(Host); got != "127.0.0.1" {
		t.Errorf("host = %q, want %q", got, "127.0.0.1")
	}
	if got := res.String(Workdir); got != filepath.Join("/home/op", ".legion") {
		t.Errorf("workdir = %q", got)
	}
	if got := res.Int(Intensity); got != 2 {
		t.Errorf("intensity = %d, want 2", got)
	}
	if !res.Bool(Verbose) {
		t.Error("verbose should default to true")
	}
	if got := res.Strings(Extensions); !reflect.DeepEqual(got, []string{"html", "txt", "php", "asp", "aspx"}) {
		t.Errorf("extensions = %v", got)
	}
	if got := res.Strings(Notuse); len(got) != 0 {
		t.Errorf("notuse = %v, want empty", got)
	}
	for _, s := range res.Settings() {
		if s.Origin != OriginBuiltin {
			t.Errorf("%s origin = %s, want builtin", s.Name, s.Origin)
		}
	}
	if len(res.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings())
	}
}

func TestResolve_CLIWinsEvenWhenEqualToBuiltin(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{
		ConfigPath: path,
		Profile:    DefaultProfile,
		Overrides:  map[string]string{Host: "127.0.0.1", Intensity: "2"},
	})

	if got := res.String(Host); got != "127.0.0.1" {
		t.Errorf("host = %q, want %q", got, "127.0.0.1")
	}
	if res.Origin(Host) != OriginCLI {
		t.Errorf("host origin = %s, want cli", res.Origin(Host))
	}
	if got := res.Int(Intensity); got != 2 {
		t.Errorf("intensity = %d, want 2", got)
	}
	if got := res.Int(Port); got != 8080 {
		t.Errorf("port = %d, want 8080 from DEFAULT", got)
	}
	if res.Origin(Port) != OriginDefaultProfile {
		t.Errorf("port origin = %s, want default-profile", res.Origin(Port))
	}
}

func TestResolve_NamedProfileLayersOverDefault(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{ConfigPath: path, Profile: "lab"})

	if got := res.String(Proto); got != "dns" {
		t.Errorf("proto = %q, want dns", got)
	}
	if res.Origin(Proto) != OriginProfile {
		t.Errorf("proto origin = %s, want profile", res.Origin(Proto))
	}
	if got := res.String(Domain); got != "lab.example" {
		t.Errorf("domain = %q, want lab.example (keys are case-insensitive)", got)
	}
	if got := res.String(Host); got != "10.0.0.1" {
		t.Errorf("host = %q, want inherited 10.0.0.1", got)
	}
	if got := res.Strings(Notuse); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("notuse = %v, want [a b]", got)
	}
}

func TestResolve_CoercionFailureFallsBack(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{ConfigPath: path, Profile: "lab"})

	// lab's "abc" is rejected; DEFAULT's 1 is next.
	if got := res.Int(Intensity); got != 1 {
		t.Errorf("intensity = %d, want 1", got)
	}
	if res.Origin(Intensity) != OriginDefaultProfile {
		t.Errorf("intensity origin = %s, want default-profile", res.Origin(Intensity))
	}
	if !hasWarning(res, "intensity") {
		t.Errorf("expected an intensity warning, got %v", res.Warnings())
	}
}

func TestResolve_CLICoercionFailureFallsBack(t *testing.T) {
	res := resolve(Source{Overrides: map[string]string{Port: "abc", Intensity: "9"}})

	if got := res.Int(Port); got != 0 {
		t.Errorf("port = %d, want built-in 0", got)
	}
	if got := res.Int(Intensity); got != 2 {
		t.Errorf("intensity = %d, want built-in 2", got)
	}
	if len(res.Warnings()) != 2 {
		t.Errorf("warnings = %v, want 2", res.Warnings())
	}
}

func TestResolve_MissingProfile(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{ConfigPath: path, Profile: "staging"})

	if got := res.String(Host); got != "10.0.0.1" {
		t.Errorf("host = %q, want DEFAULT's 10.0.0.1", got)
	}
	if !hasWarning(res, `"staging" not found`) {
		t.Errorf("expected missing profile warning, got %v", res.Warnings())
	}
}

func TestResolve_EmptyProfileStillInheritsDefault(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{ConfigPath: path, Profile: "empty"})

	if got := res.Int(Port); got != 8080 {
		t.Errorf("port = %d, want 8080", got)
	}
	if len(res.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings())
	}
}

func TestResolve_MissingFile(t *testing.T) {
	res := resolve(Source{
		ConfigPath: filepath.Join(t.TempDir(), "nope.ini"),
		Profile:    DefaultProfile,
		Overrides:  map[string]string{Proto: "ssh"},
	})

	if got := res.String(Proto); got != "ssh" {
		t.Errorf("proto = %q, want ssh", got)
	}
	if !hasWarning(res, "configuration file not found") {
		t.Errorf("expected missing file warning, got %v", res.Warnings())
	}
}

func TestResolve_UnparsableFile(t *testing.T) {
	path := writeConfig(t, "[broken\nhost = x\n")
	res := resolve(Source{ConfigPath: path, Profile: DefaultProfile})

	if got := res.String(Host); got != DefaultHost {
		t.Errorf("host = %q, want %q", got, DefaultHost)
	}
	if len(res.Warnings()) == 0 {
		t.Error("expected a warning for an unparsable file")
	}
}

func TestResolve_Extras(t *testing.T) {
	path := writeConfig(t, sampleINI)
	res := resolve(Source{ConfigPath: path, Profile: "lab"})

	if v, ok := res.Extra("color"); !ok || v != "blue" {
		t.Errorf("extra color = %q, %v", v, ok)
	}
	if v, ok := res.Extra("team"); !ok || v != "red" {
		t.Errorf("extra team = %q, %v", v, ok)
	}
	if got := res.ExtraNames(); !reflect.DeepEqual(got, []string{"color", "team"}) {
		t.Errorf("extra names = %v", got)
	}
	if _, ok := res.Extra(Host); ok {
		t.Error("recognized settings must not appear as extras")
	}
}

func TestResolve_ExeconlyIsVerbatimString(t *testing.T) {
	for _, raw := range []string{"a,b", " , ", "dig_A"} {
		res := resolve(Source{Overrides: map[string]string{Execonly: raw}})
		if got := res.String(Execonly); got != raw {
			t.Errorf("execonly = %q, want %q", got, raw)
		}
		if got := res.Strings(Execonly); got != nil {
			t.Errorf("execonly as list = %v, want nil", got)
		}
	}
}

func TestResolved_StringsReturnsCopy(t *testing.T) {
	res := resolve(Source{})
	list := res.Strings(Extensions)
	list[0] = "mutated"
	if res.Strings(Extensions)[0] == "mutated" {
		t.Error("Strings must not expose internal state")
	}
}

func TestResolved_WrongKindIsZero(t *testing.T) {
	res := resolve(Source{})
	if res.String(Port) != "" || res.Int(Host) != 0 || res.Bool(Host) || res.Strings(Host) != nil {
		t.Error("getters must return zero values for mismatched kinds")
	}
}

func TestProfileFile_SectionNotFound(t *testing.T) {
	pf, err := ParseProfiles([]byte(sampleINI))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := pf.Section("nope"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
	if !pf.HasDefault() {
		t.Error("expected DEFAULT keys")
	}
	if got := pf.Names(); !reflect.DeepEqual(got, []string{"empty", "lab"}) {
		t.Errorf("names = %v", got)
	}
}

func TestLoadProfiles_Missing(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.ini"))
	if !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("err = %v, want ErrNoConfigFile", err)
	}
}

func hasWarning(res *Resolved, substr string) bool {
	for _, w := range res.Warnings() {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
