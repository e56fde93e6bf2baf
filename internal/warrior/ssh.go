package warrior

import "github.com/vulnverified/legion/internal/engine"

// SSH plans enumeration of an SSH service.
func SSH() Protocol {
	return Protocol{
		Name:    "ssh",
		Summary: "SSH algorithm and host key enumeration, user enumeration and password guessing",
		Templates: []engine.Template{
			{
				Name:     "nmap_ssh_{port}",
				Command:  `nmap -n -sV --script "ssh2-enum-algos or ssh-hostkey or ssh-auth-methods" -p {port} {host}`,
				Category: engine.CategoryBasicEnum,
				Shell:    true,
			},
			{
				Name:     "ssh_audit_{port}",
				Command:  "ssh-audit -p {port} {host}",
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "msf_ssh_version_{port}",
				Command:  msf("auxiliary/scanner/ssh/ssh_version", map[string]string{"RHOSTS": "{host}", "RPORT": "{port}"}),
				Category: engine.CategoryBasicEnum,
			},
			{
				Name:     "hydra_ssh_user_{port}",
				Command:  "hydra -l {username} -P {passlist} -s {port} -t 4 -f ssh://{host}",
				Category: engine.CategoryBruteforce,
			},
			{
				Name:     "hydra_ssh_{port}",
				Command:  "hydra -L {userlist} -P {passlist} -s {port} -t 4 -f ssh://{host}",
				Category: engine.CategoryBruteforce,
			},
			{
				Name: "msf_ssh_enumusers_{port}",
				Command: msf("auxiliary/scanner/ssh/ssh_enumusers", map[string]string{
					"RHOSTS":    "{host}",
					"RPORT":     "{port}",
					"USER_FILE": "{userlist}",
				}),
				Category: engine.CategoryVulnerability,
			},
			{
				Name:     "nmap_ssh_ipv6_{port}",
				Command:  "nmap -6 -n -sV --script ssh-hostkey -p {port} {ipv6}",
				Category: engine.CategoryIPv6,
			},
		},
	}
}
