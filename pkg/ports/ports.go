// Package ports provides well-known service ports and common port lists.
package ports

import (
	"sort"
	"strconv"
	"strings"
)

// wellKnown maps a protocol name to the port its service usually listens on.
var wellKnown = map[string]int{
	"ftp":        21,
	"ssh":        22,
	"telnet":     23,
	"smtp":       25,
	"dns":        53,
	"http":       80,
	"pop3":       110,
	"rpcbind":    111,
	"ntp":        123,
	"msrpc":      135,
	"netbios":    139,
	"imap":       143,
	"snmp":       161,
	"ldap":       389,
	"https":      443,
	"smb":        445,
	"rsync":      873,
	"imaps":      993,
	"pop3s":      995,
	"mssql":      1433,
	"oracle":     1521,
	"nfs":        2049,
	"mysql":      3306,
	"rdp":        3389,
	"postgresql": 5432,
	"vnc":        5900,
	"winrm":      5985,
	"redis":      6379,
	"mongodb":    27017,
}

// Default returns the well-known port for proto, or 0 when none is known.
// Lookup is case-insensitive.
func Default(proto string) int {
	return wellKnown[strings.ToLower(proto)]
}

// Protocols returns every protocol with a known default port, sorted.
func Protocols() []string {
	out := make([]string, 0, len(wellKnown))
	for p := range wellKnown {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Top100 is the top 100 most common TCP ports based on nmap frequency data.
// Sorted ascending for consistent output.
var Top100 = dedupeSorted([]int{
	21, 22, 23, 25, 26, 53, 80, 81, 110, 111,
	113, 135, 139, 143, 179, 199, 443, 445, 465, 514,
	515, 548, 554, 587, 631, 636, 646, 993, 995, 1025,
	1026, 1027, 1028, 1029, 1110, 1433, 1720, 1723, 1755, 1900,
	2000, 2001, 2049, 2121, 2717, 3000, 3128, 3306, 3389, 3986,
	4899, 5000, 5009, 5051, 5060, 5101, 5190, 5357, 5432, 5631,
	5666, 5800, 5900, 6000, 6001, 6646, 7070, 8000, 8008, 8009,
	8080, 8081, 8443, 8888, 9090, 9100, 9999, 10000, 32768, 49152,
	49153, 49154, 49155, 49156, 49157, 1080, 1443, 2082, 2083, 2086,
	2087, 4443, 6379, 6443, 8880, 9200, 9443, 27017, 27018,
})

// Join renders ports as an nmap -p argument.
func Join(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func dedupeSorted(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, p := range in {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
