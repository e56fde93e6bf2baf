package warrior

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vulnverified/legion/internal/engine"
)

func TestDNS_HostOnly(t *testing.T) {
	plan := New(DNS(), engine.Facts{Host: "10.0.0.53", Intensity: 1}).BuildPlan()

	want := []string{"nmap_dns_tcp_53", "nmap_dns_udp_53"}
	if got := plan.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan = %v, want %v", got, want)
	}
}

func TestDNS_NoDomainCommandsWithoutDomain(t *testing.T) {
	f := fullFacts(3)
	f.Domain = ""
	for _, cmd := range New(DNS(), f).BuildPlan() {
		if strings.Contains(cmd.Command, "example.com") || strings.HasPrefix(cmd.Name, "dig_A") {
			t.Errorf("%s planned without a domain", cmd.Name)
		}
		if cmd.Category == engine.CategoryTransfer || cmd.Category == engine.CategorySecurityExtension {
			t.Errorf("%s (%s) needs a domain", cmd.Name, cmd.Category)
		}
	}
}

func TestDNS_DigChain(t *testing.T) {
	plan := New(DNS(), fullFacts(1)).BuildPlan()

	var chain []engine.CommandSpec
	for _, cmd := range plan {
		if strings.HasPrefix(cmd.Name, "dig_") && cmd.Category == engine.CategoryBasicEnum {
			chain = append(chain, cmd)
		}
	}

	wantNames := []string{"dig_AXFR", "dig_ANY", "dig_A", "dig_AAAA", "dig_TXT", "dig_MX", "dig_NS", "dig_SOA"}
	gotNames := make([]string, len(chain))
	for i, c := range chain {
		gotNames[i] = c.Name
	}
	if !reflect.DeepEqual(gotNames, wantNames) {
		t.Fatalf("dig chain = %v, want %v", gotNames, wantNames)
	}
	for i, c := range chain {
		want := i < len(chain)-1
		if c.Chain != want {
			t.Errorf("%s chain = %v, want %v", c.Name, c.Chain, want)
		}
	}
	if chain[0].Command != "dig AXFR @10.0.0.53 -p 53 example.com" {
		t.Errorf("dig_AXFR = %q", chain[0].Command)
	}
}

func TestDNS_ReverseLookup(t *testing.T) {
	plan := New(DNS(), fullFacts(1)).BuildPlan()
	if findCommand(plan, "dig_PTR_ipv4_53") == nil {
		t.Error("missing dig_PTR_ipv4_53")
	}
	cmd := findCommand(plan, "dnsrecon_ip_range_10_0_0_53_24")
	if cmd == nil {
		t.Fatalf("missing dnsrecon range command in %v", plan.Names())
	}
	if cmd.Command != "dnsrecon -r 10.0.0.53/24 -n 10.0.0.53" {
		t.Errorf("range command = %q", cmd.Command)
	}
}

func TestDNS_IntensityLevels(t *testing.T) {
	tests := []struct {
		intensity int
		vuln      bool
		brute     bool
	}{
		{1, false, false},
		{2, true, false},
		{3, true, true},
	}
	for _, tt := range tests {
		plan := New(DNS(), fullFacts(tt.intensity)).BuildPlan()
		if got := findCommand(plan, "msf_dns_amp_53") != nil; got != tt.vuln {
			t.Errorf("intensity %d: msf_dns_amp_53 planned = %v, want %v", tt.intensity, got, tt.vuln)
		}
		if got := findCommand(plan, "dnsrecon_brute") != nil; got != tt.brute {
			t.Errorf("intensity %d: dnsrecon_brute planned = %v, want %v", tt.intensity, got, tt.brute)
		}
	}
}

func TestDNS_BruteWordlist(t *testing.T) {
	cmd := findCommand(New(DNS(), fullFacts(3)).BuildPlan(), "dnsrecon_brute")
	if cmd == nil {
		t.Fatal("dnsrecon_brute not planned")
	}
	want := "dnsrecon -D /tmp/legion/wordlists/subdomains.txt -d example.com -n 10.0.0.53 -t brt"
	if cmd.Command != want {
		t.Errorf("command = %q, want %q", cmd.Command, want)
	}

	f := fullFacts(3)
	f.Plist = "/lists/subs.txt"
	cmd = findCommand(New(DNS(), f).BuildPlan(), "dnsrecon_brute")
	if cmd == nil || !strings.HasPrefix(cmd.Command, "dnsrecon -D /lists/subs.txt ") {
		t.Errorf("command = %+v, want supplied list", cmd)
	}
}

func TestDNS_CustomPort(t *testing.T) {
	f := fullFacts(2)
	f.Port = 5353
	plan := New(DNS(), f).BuildPlan()
	for _, name := range []string{"nmap_dns_tcp_5353", "nmap_dns_udp_5353", "msf_dns_amp_5353"} {
		if findCommand(plan, name) == nil {
			t.Errorf("missing %s", name)
		}
	}
	cmd := findCommand(plan, "msf_dns_amp_5353")
	if cmd != nil && !strings.Contains(cmd.Command, "set RPORT 5353") {
		t.Errorf("command = %q", cmd.Command)
	}
}

func TestDNS_IPv6(t *testing.T) {
	plan := New(DNS(), fullFacts(1)).BuildPlan()
	cmd := findCommand(plan, "dig_PTR_ipv6")
	if cmd == nil {
		t.Fatal("dig_PTR_ipv6 not planned")
	}
	if cmd.Category != engine.CategoryIPv6 {
		t.Errorf("category = %s", cmd.Category)
	}
}

func TestDNS_FilterExample(t *testing.T) {
	plan := New(DNS(), fullFacts(1)).BuildPlan()
	filtered := engine.Filter(plan, []string{"dig_SOA"}, "")

	mx := findCommand(filtered, "dig_NS")
	if mx == nil {
		t.Fatal("dig_NS missing after filter")
	}
	if mx.Chain {
		t.Error("dig_NS must close the chain once dig_SOA is removed")
	}

	only := engine.Filter(plan, []string{"dig_A"}, "dig_A")
	if got := only.Names(); !reflect.DeepEqual(got, []string{"dig_A"}) {
		t.Errorf("execonly = %v, want [dig_A]", got)
	}
	if only[0].Chain {
		t.Error("lone survivor of a chain must not chain")
	}
}

func TestDNS_SecurityExtension(t *testing.T) {
	plan := New(DNS(), fullFacts(1)).BuildPlan()

	var got []string
	for _, cmd := range plan {
		if cmd.Category == engine.CategorySecurityExtension {
			got = append(got, cmd.Name)
		}
	}
	want := []string{"dig_DNSKEY", "dig_DS", "dig_DNSSEC_SOA", "dnssec_analyzer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("security extension = %v, want %v", got, want)
	}

	cmd := findCommand(plan, "dnssec_analyzer")
	if cmd.Command != "dnssec-analyzer example.com @10.0.0.53" {
		t.Errorf("dnssec_analyzer = %q", cmd.Command)
	}
}
