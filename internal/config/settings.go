// Package config resolves legion's run-time settings from layered sources:
// command-line overrides, a named profile, the DEFAULT profile and the
// built-in fallbacks, in that order of precedence.
package config

// Kind is the type a setting is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Origin records which tier supplied a resolved value.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginDefaultProfile
	OriginProfile
	OriginCLI
)

func (o Origin) String() string {
	switch o {
	case OriginCLI:
		return "cli"
	case OriginProfile:
		return "profile"
	case OriginDefaultProfile:
		return "default-profile"
	default:
		return "builtin"
	}
}

// ── Setting names ────────────────────────────────────────────────────

const (
	Proto      = "proto"
	Host       = "host"
	Workdir    = "workdir"
	Port       = "port"
	Intensity  = "intensity"
	Username   = "username"
	Ulist      = "ulist"
	Password   = "password"
	Plist      = "plist"
	Protohelp  = "protohelp"
	Notuse     = "notuse"
	Extensions = "extensions"
	Path       = "path"
	IPv6       = "ipv6"
	Domain     = "domain"
	Execonly   = "execonly"
	Run        = "run"
	Verbose    = "verbose"
)

// Definition describes one recognized setting. The same table drives
// coercion in the resolver and flag registration in the CLI.
type Definition struct {
	Name  string
	Kind  Kind
	Short string // single-letter flag, optional
	Usage string

	// Inclusive bounds for KindInt. Ignored when Min == Max == 0.
	Min, Max int
}

var definitions = []Definition{
	{Name: Proto, Kind: KindString, Usage: "Protocol to plan commands for"},
	{Name: Host, Kind: KindString, Usage: "Target host name or address"},
	{Name: Workdir, Kind: KindString, Usage: "Working directory for wordlists and output"},
	{Name: Port, Kind: KindInt, Short: "p", Usage: "Target port (0 selects the protocol default)", Min: 0, Max: 65535},
	{Name: Intensity, Kind: KindInt, Short: "i", Usage: "Intensity level 1-3", Min: 1, Max: 3},
	{Name: Username, Kind: KindString, Short: "u", Usage: "Username for authenticated checks"},
	{Name: Ulist, Kind: KindString, Short: "U", Usage: "Path to a username list"},
	{Name: Password, Kind: KindString, Short: "k", Usage: "Password for authenticated checks"},
	{Name: Plist, Kind: KindString, Short: "P", Usage: "Path to a password list"},
	{Name: Protohelp, Kind: KindBool, Usage: "Describe the protocol's commands instead of planning"},
	{Name: Notuse, Kind: KindList, Usage: "Comma-separated command names to exclude"},
	{Name: Extensions, Kind: KindList, Usage: "Comma-separated file extensions for web discovery"},
	{Name: Path, Kind: KindString, Usage: "Web path to start from"},
	{Name: IPv6, Kind: KindString, Usage: "Target IPv6 address"},
	{Name: Domain, Kind: KindString, Usage: "Target domain name"},
	{Name: Execonly, Kind: KindString, Usage: "Exec only this tool (exact command name)"},
	{Name: Run, Kind: KindBool, Short: "r", Usage: "Execute the plan after printing it"},
	{Name: Verbose, Kind: KindBool, Short: "v", Usage: "Echo command output while running"},
}

var definitionIndex = func() map[string]int {
	m := make(map[string]int, len(definitions))
	for i, d := range definitions {
		m[d.Name] = i
	}
	return m
}()

// Definitions returns every recognized setting in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for name.
func Lookup(name string) (Definition, bool) {
	i, ok := definitionIndex[name]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}
