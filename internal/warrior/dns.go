package warrior

import (
	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/internal/wordlist"
)

const nmapDNSScripts = `"(*dns* and (default or (discovery and safe))) or dns-random-txid or dns-random-srcport"`

// DNS plans enumeration of a DNS server. {host} is the server queried,
// {domain} the zone of interest.
func DNS() Protocol {
	digChain := func(rtype string) engine.Template {
		return engine.Template{
			Name:     "dig_" + rtype,
			Command:  "dig " + rtype + " @{host} -p {port} {domain}",
			Category: engine.CategoryBasicEnum,
			Chain:    "dig",
		}
	}

	return Protocol{
		Name:    "dns",
		Summary: "DNS server enumeration, zone transfer, reverse lookups and DNSSEC",
		Derive: func(f engine.Facts, c *engine.Catalog) {
			c.SetTag("subdomain_list", listOrDefault(f.Plist, f.Workdir, wordlist.Subdomains))
		},
		Templates: []engine.Template{
			{
				Name:     "nmap_dns_tcp_{port}",
				Command:  "nmap -n -sV --script " + nmapDNSScripts + " -p {port} {host}",
				Category: engine.CategoryBasicEnum,
				Shell:    true,
			},
			{
				Name:     "nmap_dns_udp_{port}",
				Command:  "nmap -n -sU -sV --script " + nmapDNSScripts + " -p {port} {host}",
				Category: engine.CategoryBasicEnum,
				Shell:    true,
			},
			digChain("AXFR"),
			digChain("ANY"),
			digChain("A"),
			digChain("AAAA"),
			digChain("TXT"),
			digChain("MX"),
			digChain("NS"),
			digChain("SOA"),
			{
				Name:     "dnsrecon_domain",
				Command:  "dnsrecon -d {domain} -a -n {host}",
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "msf_enum_dns",
				Command:  msf("auxiliary/gather/enum_dns", map[string]string{"DOMAIN": "{domain}", "NS": "{host}"}),
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "dig_PTR_ipv4_{port}",
				Command:  "dig -x {ip} @{host} -p {port}",
				Category: engine.CategoryReverseLookup,
			},
			{
				Name:     "dnsrecon_ip_range_{ip_label}_24",
				Command:  "dnsrecon -r {ip}/24 -n {host}",
				Category: engine.CategoryReverseLookup,
			},
			{
				Name:     "dnsrecon_axfr",
				Command:  "dnsrecon -d {domain} -n {host} -t axfr",
				Category: engine.CategoryTransfer,
			},
			{
				Name:     "dnsrecon_brute",
				Command:  "dnsrecon -D {subdomain_list} -d {domain} -n {host} -t brt",
				Category: engine.CategoryBruteforce,
			},
			{
				Name:     "msf_dns_amp_{port}",
				Command:  msf("auxiliary/scanner/dns/dns_amp", map[string]string{"RHOSTS": "{host}", "RPORT": "{port}"}),
				Category: engine.CategoryVulnerability,
			},
			{
				Name:     "nmap_dns_recursion_{port}",
				Command:  "nmap -n -sU --script dns-recursion,dns-cache-snoop -p {port} {host}",
				Category: engine.CategoryVulnerability,
			},
			{
				Name:     "dig_PTR_ipv6",
				Command:  "dig -x {ipv6} @{host} -p {port}",
				Category: engine.CategoryIPv6,
			},
			{
				Name:     "dig_DNSKEY",
				Command:  "dig DNSKEY {domain} @{host} -p {port}",
				Category: engine.CategorySecurityExtension,
			},
			{
				Name:     "dig_DS",
				Command:  "dig DS {domain} @{host} -p {port}",
				Category: engine.CategorySecurityExtension,
			},
			{
				Name:     "dig_DNSSEC_SOA",
				Command:  "dig +dnssec SOA {domain} @{host} -p {port}",
				Category: engine.CategorySecurityExtension,
			},
			{
				Name:     "dnssec_analyzer",
				Command:  "dnssec-analyzer {domain} @{host}",
				Category: engine.CategorySecurityExtension,
			},
		},
	}
}
