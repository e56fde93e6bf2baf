package warrior

import (
	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/pkg/ports"
)

// Scanner is the protocol-agnostic default: port discovery across the
// most common services.
func Scanner() Protocol {
	return Protocol{
		Name:    "scanner",
		Summary: "Generic TCP/UDP port and service discovery",
		Derive: func(f engine.Facts, c *engine.Catalog) {
			c.SetTag("top_ports", ports.Join(ports.Top100))
		},
		Templates: []engine.Template{
			{
				Name:     "nmap_top100_tcp",
				Command:  "nmap -n -Pn -sV -p {top_ports} {host}",
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "nmap_port_{port}",
				Command:  "nmap -n -Pn -sV -sC -p {port} {host}",
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "nmap_top20_udp",
				Command:  "nmap -n -sU --top-ports 20 {host}",
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:         "nmap_full_tcp",
				Command:      "nmap -n -Pn -p- --min-rate 1000 {host}",
				Category:     engine.CategoryBasicEnum,
				MinIntensity: engine.MaxIntensity,
			},
			{
				Name:     "dig_PTR",
				Command:  "dig -x {ip}",
				Category: engine.CategoryReverseLookup,
			},
			{
				Name:     "nmap_vuln",
				Command:  "nmap -n -Pn -sV --script vuln -p {top_ports} {host}",
				Category: engine.CategoryVulnerability,
			},
			{
				Name:     "nmap_ipv6",
				Command:  "nmap -6 -n -Pn -sV {ipv6}",
				Category: engine.CategoryIPv6,
			},
		},
	}
}
