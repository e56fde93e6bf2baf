// Package engine builds, filters and optionally executes command plans.
package engine

import (
	"context"
	"strconv"
	"strings"
)

// Category groups commands in a plan. Plans are always flattened in
// CategoryOrder.
type Category string

const (
	CategoryBasicEnum         Category = "basic_enum"
	CategoryReverseLookup     Category = "reverse_lookup"
	CategoryTransfer          Category = "transfer"
	CategoryBruteforce        Category = "bruteforce"
	CategoryVulnerability     Category = "vulnerability_checks"
	CategoryIPv6              Category = "ipv6_specific"
	CategorySecurityExtension Category = "security_extension"
)

// CategoryOrder is the fixed flattening order.
var CategoryOrder = []Category{
	CategoryBasicEnum,
	CategoryReverseLookup,
	CategoryTransfer,
	CategoryBruteforce,
	CategoryVulnerability,
	CategoryIPv6,
	CategorySecurityExtension,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range CategoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// CommandSpec is one planned tool invocation.
type CommandSpec struct {
	Name     string   `json:"name" yaml:"name"`
	Command  string   `json:"command" yaml:"command"`
	Shell    bool     `json:"shell" yaml:"shell"`
	Chain    bool     `json:"chain" yaml:"chain"`
	Category Category `json:"category" yaml:"category"`
}

// Plan is an ordered list of commands. Chain=true means the next entry
// runs only if this one succeeds.
type Plan []CommandSpec

// Names returns the command names in order.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name
	}
	return names
}

// Clone returns an independent copy of the plan.
func (p Plan) Clone() Plan {
	if p == nil {
		return Plan{}
	}
	out := make(Plan, len(p))
	copy(out, p)
	return out
}

// Facts is what a warrior knows about its target. Empty strings and a
// zero port mean "unknown".
type Facts struct {
	Host       string   `json:"host" yaml:"host"`
	IP         string   `json:"ip,omitempty" yaml:"ip,omitempty"`
	IPv6       string   `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	Domain     string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Port       int      `json:"port" yaml:"port"`
	Intensity  int      `json:"intensity" yaml:"intensity"`
	Username   string   `json:"username,omitempty" yaml:"username,omitempty"`
	Ulist      string   `json:"ulist,omitempty" yaml:"ulist,omitempty"`
	Password   string   `json:"-" yaml:"-"`
	Plist      string   `json:"plist,omitempty" yaml:"plist,omitempty"`
	Workdir    string   `json:"workdir,omitempty" yaml:"workdir,omitempty"`
	Path       string   `json:"path,omitempty" yaml:"path,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Tags returns the template values for every known fact. Unknown facts
// are absent from the map.
func (f Facts) Tags() map[string]string {
	tags := make(map[string]string, 12)
	set := func(k, v string) {
		if v != "" {
			tags[k] = v
		}
	}
	set("host", f.Host)
	set("ip", f.IP)
	set("ipv6", f.IPv6)
	set("domain", f.Domain)
	if f.Port > 0 {
		tags["port"] = strconv.Itoa(f.Port)
	}
	set("username", f.Username)
	set("ulist", f.Ulist)
	set("password", f.Password)
	set("plist", f.Plist)
	set("workdir", f.Workdir)
	set("path", f.Path)
	set("extensions", strings.Join(f.Extensions, ","))
	return tags
}

// Skip records a catalog entry left out of a plan and why.
type Skip struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// CommandInfo describes a catalog entry for protocol help.
type CommandInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Category     Category `json:"category" yaml:"category"`
	Requires     []string `json:"requires" yaml:"requires"`
	MinIntensity int      `json:"min_intensity" yaml:"min_intensity"`
	Shell        bool     `json:"shell" yaml:"shell"`
	Chain        string   `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// Outcome is the result of executing one command.
type Outcome struct {
	Name         string  `json:"name" yaml:"name"`
	ExitCode     int     `json:"exit_code" yaml:"exit_code"`
	Skipped      bool    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
	OutputPath   string  `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DurationSecs float64 `json:"duration_secs" yaml:"duration_secs"`
}

// Succeeded reports whether the command ran and exited zero.
func (o Outcome) Succeeded() bool {
	return !o.Skipped && o.Error == "" && o.ExitCode == 0
}

// PlanResult is the top-level output of a legion run.
type PlanResult struct {
	Protocol string    `json:"protocol" yaml:"protocol"`
	Facts    Facts     `json:"facts" yaml:"facts"`
	Commands Plan      `json:"commands" yaml:"commands"`
	Omitted  []Skip    `json:"omitted,omitempty" yaml:"omitted,omitempty"`
	Outcomes []Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Warnings []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary  Summary   `json:"summary" yaml:"summary"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	Planned  int `json:"planned" yaml:"planned"`
	Filtered int `json:"filtered" yaml:"filtered"`
	Omitted  int `json:"omitted" yaml:"omitted"`
	Chains   int `json:"chains" yaml:"chains"`
	Executed int `json:"executed" yaml:"executed"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Warrior plans commands for one protocol against one target.
type Warrior interface {
	Name() string
	BuildPlan() Plan
	Describe() []CommandInfo
}

// WarriorFactory creates a warrior for a protocol name.
type WarriorFactory interface {
	New(protocol string, facts Facts) (Warrior, error)
}

// FactGatherer fills in facts that can be derived from the ones given,
// such as the IPv4 address of a host name.
type FactGatherer interface {
	Gather(ctx context.Context, facts Facts) (Facts, error)
}

// Executor runs a filtered plan. It is an external collaborator: the
// engine only decides what runs and in what order.
type Executor interface {
	Execute(ctx context.Context, plan Plan) ([]Outcome, error)
}

// SkipProvider is an optional interface that Warrior implementations can
// satisfy to report catalog entries left out of the last plan.
type SkipProvider interface {
	Skipped() []Skip
}

// FactsProvider is an optional interface that Warrior implementations can
// satisfy to report the facts they actually planned with, after defaults
// such as the protocol port were applied.
type FactsProvider interface {
	Facts() Facts
}

// WarningProvider is an optional interface that FactGatherer
// implementations can satisfy to report non-fatal warnings.
type WarningProvider interface {
	GetWarnings() []string
}
