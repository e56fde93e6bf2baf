package recon

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	defaultResolvConf = "/etc/resolv.conf"
	defaultTimeout    = 3 * time.Second
)

// AddressResolver looks up the IPv4 addresses of a host name.
type AddressResolver interface {
	LookupA(ctx context.Context, host string) ([]string, error)
}

// DNSResolver queries A records directly with miekg/dns. With no Server
// set it uses the first nameserver from resolv.conf, and falls back to
// the system resolver when that file cannot be read.
type DNSResolver struct {
	Server     string // host:port
	Timeout    time.Duration
	ResolvConf string
}

// LookupA implements AddressResolver.
func (r *DNSResolver) LookupA(ctx context.Context, host string) ([]string, error) {
	server := r.Server
	if server == "" {
		server = r.systemServer()
	}
	if server == "" {
		return systemLookupA(ctx, host)
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: timeout}
	in, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("A query for %s via %s: %w", host, server, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("A query for %s via %s: %s", host, server, dns.RcodeToString[in.Rcode])
	}

	var ips []string
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no A records for %s", host)
	}
	return deduplicateStrings(ips), nil
}

func (r *DNSResolver) systemServer() string {
	path := r.ResolvConf
	if path == "" {
		path = defaultResolvConf
	}
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil || len(conf.Servers) == 0 {
		return ""
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

func systemLookupA(ctx context.Context, host string) ([]string, error) {
	addrs, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", host, err)
	}
	ips := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.String())
	}
	return deduplicateStrings(ips), nil
}

// ValidDomain reports whether name is a syntactically valid domain name.
func ValidDomain(name string) bool {
	if name == "" {
		return false
	}
	_, ok := dns.IsDomainName(name)
	return ok
}

func deduplicateStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
