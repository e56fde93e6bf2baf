package engine

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/valyala/fasttemplate"
	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// MaxIntensity is the highest intensity level; bruteforce runs only there.
	MaxIntensity = 3

	// VulnerabilityIntensity is the lowest level that adds vulnerability checks.
	VulnerabilityIntensity = 2
)

var (
	// ErrMissingFact means a template referenced a fact that is unknown.
	ErrMissingFact = errors.New("missing fact")

	// ErrUnsafeFact means a fact value would need shell quoting to be
	// substituted safely.
	ErrUnsafeFact = errors.New("fact needs quoting")
)

// Template declares one catalog entry. Name and Command may reference
// facts as {host}, {port} and so on; if any referenced fact is unknown the
// entry is left out of the plan.
type Template struct {
	Name     string
	Command  string
	Category Category
	Shell    bool

	// Requires lists facts that must be known even though the command
	// does not reference them.
	Requires []string

	// MinIntensity raises the category's own intensity gate.
	MinIntensity int

	// Consecutive templates with the same non-empty Chain form a chain.
	Chain string
}

// Catalog accumulates commands per category for one target.
type Catalog struct {
	facts    Facts
	tags     map[string]string
	quoted   map[string]bool
	commands map[Category][]CommandSpec
	names    map[string]bool
	skipped  []Skip
}

// NewCatalog returns an empty catalog for the given facts.
func NewCatalog(facts Facts) *Catalog {
	return &Catalog{
		facts:    facts,
		tags:     facts.Tags(),
		quoted:   make(map[string]bool),
		commands: make(map[Category][]CommandSpec),
		names:    make(map[string]bool),
	}
}

// SetTag adds a derived template value. An empty value removes the tag.
func (c *Catalog) SetTag(name, value string) {
	delete(c.quoted, name)
	if value == "" {
		delete(c.tags, name)
		return
	}
	c.tags[name] = value
}

// SetQuotedTag adds a derived value that may contain shell
// metacharacters, such as the brackets of an IPv6 URL. The value is
// stored shell-quoted and substituted as is.
func (c *Catalog) SetQuotedTag(name, value string) error {
	if value == "" {
		c.SetTag(name, "")
		return nil
	}
	q, err := syntax.Quote(value, syntax.LangBash)
	if err != nil {
		delete(c.tags, name)
		delete(c.quoted, name)
		return fmt.Errorf("%w: %s", ErrUnsafeFact, name)
	}
	c.tags[name] = q
	c.quoted[name] = true
	return nil
}

// Tag returns a template value.
func (c *Catalog) Tag(name string) (string, bool) {
	v, ok := c.tags[name]
	return v, ok
}

// Add renders t and appends it to its category. It reports whether the
// command was added.
func (c *Catalog) Add(t Template) bool {
	spec, err := c.render(t)
	if err != nil {
		c.skip(t.Name, err)
		return false
	}
	c.append(spec)
	return true
}

// AddChain renders members in order and adds the ones whose facts are
// known. Every added member except the last is marked Chain. All members
// are placed in the first member's category so they stay adjacent.
func (c *Catalog) AddChain(members ...Template) int {
	if len(members) == 0 {
		return 0
	}
	cat := members[0].Category

	var specs []CommandSpec
	for _, m := range members {
		m.Category = cat
		spec, err := c.render(m)
		if err != nil {
			c.skip(m.Name, err)
			continue
		}
		if c.names[spec.Name] || containsName(specs, spec.Name) {
			c.skip(spec.Name, errors.New("duplicate name"))
			continue
		}
		specs = append(specs, spec)
	}
	for i := range specs {
		specs[i].Chain = i < len(specs)-1
	}
	for _, s := range specs {
		c.names[s.Name] = true
		c.commands[cat] = append(c.commands[cat], s)
	}
	return len(specs)
}

// AddAll adds templates in order, grouping runs that share a Chain key.
func (c *Catalog) AddAll(templates []Template) {
	for i := 0; i < len(templates); {
		t := templates[i]
		if t.Chain == "" {
			c.Add(t)
			i++
			continue
		}
		j := i + 1
		for j < len(templates) && templates[j].Chain == t.Chain {
			j++
		}
		c.AddChain(templates[i:j]...)
		i = j
	}
}

// Plan flattens the catalog in category order.
func (c *Catalog) Plan() Plan {
	plan := Plan{}
	for _, cat := range CategoryOrder {
		plan = append(plan, c.commands[cat]...)
	}
	return plan
}

// Skipped returns the entries left out so far.
func (c *Catalog) Skipped() []Skip {
	return append([]Skip(nil), c.skipped...)
}

func (c *Catalog) append(spec CommandSpec) {
	if c.names[spec.Name] {
		c.skip(spec.Name, errors.New("duplicate name"))
		return
	}
	c.names[spec.Name] = true
	c.commands[spec.Category] = append(c.commands[spec.Category], spec)
}

func (c *Catalog) skip(name string, err error) {
	c.skipped = append(c.skipped, Skip{Name: name, Reason: err.Error()})
}

func (c *Catalog) render(t Template) (CommandSpec, error) {
	if !t.Category.Valid() {
		return CommandSpec{}, fmt.Errorf("unknown category %q", t.Category)
	}
	if err := c.gate(t); err != nil {
		return CommandSpec{}, err
	}
	for _, fact := range t.Requires {
		if _, ok := c.tags[fact]; !ok {
			return CommandSpec{}, fmt.Errorf("%w: %s", ErrMissingFact, fact)
		}
	}

	name, err := expand(t.Name, c.tags, false, nil)
	if err != nil {
		return CommandSpec{}, err
	}
	cmd, err := expand(t.Command, c.tags, true, c.quoted)
	if err != nil {
		return CommandSpec{}, err
	}
	if strings.TrimSpace(name) == "" {
		return CommandSpec{}, errors.New("empty name")
	}
	if err := validateCommand(cmd, t.Shell); err != nil {
		return CommandSpec{}, err
	}

	return CommandSpec{
		Name:     name,
		Command:  cmd,
		Shell:    t.Shell,
		Category: t.Category,
	}, nil
}

func (c *Catalog) gate(t Template) error {
	level := c.facts.Intensity
	switch t.Category {
	case CategoryBruteforce:
		if level != MaxIntensity {
			return fmt.Errorf("intensity %d, bruteforce needs %d", level, MaxIntensity)
		}
	case CategoryVulnerability:
		if level < VulnerabilityIntensity {
			return fmt.Errorf("intensity %d, vulnerability checks need %d", level, VulnerabilityIntensity)
		}
	case CategoryIPv6:
		if c.facts.IPv6 == "" {
			return fmt.Errorf("%w: ipv6", ErrMissingFact)
		}
	}
	if t.MinIntensity > 0 && level < t.MinIntensity {
		return fmt.Errorf("intensity %d, command needs %d", level, t.MinIntensity)
	}
	return nil
}

// expand substitutes {tag} references. Unknown tags fail the whole
// expansion. With strict set, values that would need shell quoting fail
// too, unless they were quoted when set.
func expand(text string, tags map[string]string, strict bool, quoted map[string]bool) (string, error) {
	tpl, err := fasttemplate.NewTemplate(text, "{", "}")
	if err != nil {
		return "", fmt.Errorf("template %q: %w", text, err)
	}
	return tpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		v, ok := tags[tag]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingFact, tag)
		}
		if strict && !quoted[tag] && !shellSafe(v) {
			return 0, fmt.Errorf("%w: %s", ErrUnsafeFact, tag)
		}
		return io.WriteString(w, v)
	})
}

func shellSafe(v string) bool {
	q, err := syntax.Quote(v, syntax.LangBash)
	return err == nil && q == v
}

// validateCommand rejects commands that would not run: direct commands
// must split into a non-empty argv, shell commands must parse.
func validateCommand(cmd string, useShell bool) error {
	if strings.TrimSpace(cmd) == "" {
		return errors.New("empty command")
	}
	if useShell {
		if _, err := syntax.NewParser().Parse(strings.NewReader(cmd), ""); err != nil {
			return fmt.Errorf("shell command does not parse: %w", err)
		}
		return nil
	}
	argv, err := shell.Fields(cmd, nil)
	if err != nil {
		return fmt.Errorf("command does not split: %w", err)
	}
	if len(argv) == 0 {
		return errors.New("empty argv")
	}
	return nil
}

// Placeholders returns the tags referenced by text, in order of first use.
func Placeholders(text string) []string {
	tpl, err := fasttemplate.NewTemplate(text, "{", "}")
	if err != nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
		return 0, nil
	})
	return out
}

// Describe summarizes templates for protocol help.
func Describe(templates []Template) []CommandInfo {
	infos := make([]CommandInfo, 0, len(templates))
	for _, t := range templates {
		req := make(map[string]bool)
		for _, p := range Placeholders(t.Name) {
			req[p] = true
		}
		for _, p := range Placeholders(t.Command) {
			req[p] = true
		}
		for _, p := range t.Requires {
			req[p] = true
		}
		requires := make([]string, 0, len(req))
		for p := range req {
			requires = append(requires, p)
		}
		sort.Strings(requires)

		level := t.MinIntensity
		switch t.Category {
		case CategoryBruteforce:
			level = MaxIntensity
		case CategoryVulnerability:
			if level < VulnerabilityIntensity {
				level = VulnerabilityIntensity
			}
		}
		if level < 1 {
			level = 1
		}

		infos = append(infos, CommandInfo{
			Name:         t.Name,
			Category:     t.Category,
			Requires:     requires,
			MinIntensity: level,
			Shell:        t.Shell,
			Chain:        t.Chain,
		})
	}
	return infos
}

func containsName(specs []CommandSpec, name string) bool {
	for _, s := range specs {
		if s.Name == name {
			return true
		}
	}
	return false
}
