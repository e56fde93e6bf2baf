// Package recon derives target facts that the user did not supply.
package recon

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/vulnverified/legion/internal/engine"
)

// Gatherer implements engine.FactGatherer. It fills in the IPv4 address
// of the target and sanity-checks the domain. It never invents an IPv6
// address: that fact comes only from the user or an IPv6 literal host.
type Gatherer struct {
	Resolver AddressResolver
	Progress engine.ProgressReporter

	mu       sync.Mutex
	warnings []string
}

// GetWarnings implements engine.WarningProvider.
func (g *Gatherer) GetWarnings() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.warnings...)
}

// Gather implements engine.FactGatherer.
func (g *Gatherer) Gather(ctx context.Context, facts engine.Facts) (engine.Facts, error) {
	facts.Host = strings.TrimSpace(facts.Host)
	facts.Domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(facts.Domain)), ".")

	if facts.Domain != "" && !ValidDomain(facts.Domain) {
		g.warn(fmt.Sprintf("ignoring invalid domain %q", facts.Domain))
		facts.Domain = ""
	}

	if facts.Host == "" {
		return facts, nil
	}

	if ip := net.ParseIP(facts.Host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			if facts.IP == "" {
				facts.IP = v4.String()
			}
		} else if facts.IPv6 == "" {
			facts.IPv6 = ip.String()
		}
		return facts, nil
	}

	if facts.IP != "" || g.Resolver == nil {
		return facts, nil
	}

	ips, err := g.Resolver.LookupA(ctx, facts.Host)
	if err != nil {
		g.warn(fmt.Sprintf("could not resolve %s: %s", facts.Host, err))
		return facts, nil
	}
	if len(ips) == 0 {
		g.warn(fmt.Sprintf("no IPv4 address for %s", facts.Host))
		return facts, nil
	}
	facts.IP = ips[0]
	if g.Progress != nil && len(ips) > 1 {
		g.Progress.Detail(fmt.Sprintf("%s has %d addresses, using %s", facts.Host, len(ips), facts.IP))
	}
	return facts, nil
}

func (g *Gatherer) warn(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.warnings = append(g.warnings, msg)
}
