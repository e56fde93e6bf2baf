// Package warrior holds the per-protocol command catalogs and the
// registry that turns a protocol name into an engine.Warrior.
package warrior

import (
	"strings"

	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/internal/wordlist"
	"github.com/vulnverified/legion/pkg/ports"
)

// Protocol is the static description of one warrior: its templates and
// an optional hook that derives extra template values from the facts.
type Protocol struct {
	Name      string
	Summary   string
	Templates []engine.Template
	Derive    func(f engine.Facts, c *engine.Catalog)
}

// Warrior builds plans for one protocol against one target. It is not
// safe for concurrent BuildPlan calls; build separate warriors instead.
type Warrior struct {
	proto   Protocol
	facts   engine.Facts
	skipped []engine.Skip
}

// New returns a warrior for p. A zero port is replaced by the protocol's
// well-known port.
func New(p Protocol, facts engine.Facts) *Warrior {
	if facts.Port == 0 {
		facts.Port = ports.Default(p.Name)
	}
	facts.Extensions = append([]string(nil), facts.Extensions...)
	return &Warrior{proto: p, facts: facts}
}

// Name implements engine.Warrior.
func (w *Warrior) Name() string { return w.proto.Name }

// Facts implements engine.FactsProvider. The port default is applied.
func (w *Warrior) Facts() engine.Facts { return w.facts }

// BuildPlan implements engine.Warrior.
func (w *Warrior) BuildPlan() engine.Plan {
	c := engine.NewCatalog(w.facts)
	deriveCommon(w.facts, c)
	if w.proto.Derive != nil {
		w.proto.Derive(w.facts, c)
	}
	c.AddAll(w.proto.Templates)
	w.skipped = c.Skipped()
	return c.Plan()
}

// Describe implements engine.Warrior.
func (w *Warrior) Describe() []engine.CommandInfo {
	return engine.Describe(w.proto.Templates)
}

// Skipped implements engine.SkipProvider.
func (w *Warrior) Skipped() []engine.Skip {
	return append([]engine.Skip(nil), w.skipped...)
}

// deriveCommon sets the template values every protocol can use.
//
//	userlist  ulist, else the default usernames list under workdir
//	passlist  plist, else the default passwords list under workdir
//	ip_label  ip with dots replaced, for command names
func deriveCommon(f engine.Facts, c *engine.Catalog) {
	c.SetTag("userlist", listOrDefault(f.Ulist, f.Workdir, wordlist.Usernames))
	c.SetTag("passlist", listOrDefault(f.Plist, f.Workdir, wordlist.Passwords))
	c.SetTag("ip_label", strings.ReplaceAll(f.IP, ".", "_"))
}

func listOrDefault(given, workdir string, kind wordlist.Kind) string {
	if given != "" {
		return given
	}
	if workdir == "" {
		return ""
	}
	return wordlist.Path(workdir, kind)
}
