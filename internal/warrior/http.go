package warrior

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/internal/wordlist"
)

// HTTP plans enumeration of a plain-text web server.
func HTTP() Protocol { return web("http", "http-get") }

// HTTPS plans enumeration of a TLS web server.
func HTTPS() Protocol {
	p := web("https", "https-get")
	p.Templates = append(p.Templates,
		engine.Template{
			Name:     "sslscan_{port}",
			Command:  "sslscan {host}:{port}",
			Category: engine.CategoryBasicEnum,
		},
		engine.Template{
			Name:     "nmap_ssl_vuln_{port}",
			Command:  `nmap -n --script "ssl-heartbleed or ssl-poodle or ssl-ccs-injection" -p {port} {host}`,
			Category: engine.CategoryVulnerability,
			Shell:    true,
		},
	)
	return p
}

func web(scheme, hydraModule string) Protocol {
	return Protocol{
		Name:    scheme,
		Summary: strings.ToUpper(scheme) + " fingerprinting, content discovery, scanning and login guessing",
		Derive: func(f engine.Facts, c *engine.Catalog) {
			if f.Host == "" || f.Port == 0 {
				return
			}
			// Bracketed IPv6 hosts need quoting on the command line. An
			// unquotable URL leaves base_url unset.
			url := fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(f.Host, strconv.Itoa(f.Port)), webPath(f.Path))
			_ = c.SetQuotedTag("base_url", url)
			c.SetTag("web_path", webPath(f.Path))
			c.SetTag("dir_list", listOrDefault("", f.Workdir, wordlist.Directories))
		},
		Templates: []engine.Template{
			{
				Name:     "nmap_http_{port}",
				Command:  `nmap -n -sV --script "http-enum or http-headers or http-methods or http-title" -p {port} {host}`,
				Category: engine.CategoryBasicEnum,
				Shell:    true,
			},
			{
				Name:     "curl_headers_{port}",
				Command:  "curl -skI {base_url}",
				Category: engine.CategoryBasicEnum,
				Chain:    "fingerprint",
			},
			{
				Name:     "whatweb_{port}",
				Command:  "whatweb -a 3 {base_url}",
				Category: engine.CategoryBasicEnum,
				Chain:    "fingerprint",
			},
			{
				Name:         "gobuster_dir_{port}",
				Command:      "gobuster dir -k -q -u {base_url} -w {dir_list} -x {extensions}",
				Category:     engine.CategoryBasicEnum,
				Requires:     []string{"extensions"},
				MinIntensity: engine.VulnerabilityIntensity,
			},
			{
				Name:     "hydra_" + scheme + "_{port}",
				Command:  "hydra -L {userlist} -P {passlist} -s {port} -f {host} " + hydraModule + " {web_path}",
				Category: engine.CategoryBruteforce,
			},
			{
				Name:     "nikto_{port}",
				Command:  "nikto -h {base_url} -nointeractive",
				Category: engine.CategoryVulnerability,
			},
			{
				Name:     "nmap_http_vuln_{port}",
				Command:  `nmap -n -sV --script "http-vuln-* and safe" -p {port} {host}`,
				Category: engine.CategoryVulnerability,
				Shell:    true,
			},
			{
				Name:     "nmap_http_ipv6_{port}",
				Command:  "nmap -6 -n -sV --script http-title -p {port} {ipv6}",
				Category: engine.CategoryIPv6,
			},
		},
	}
}

func webPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
