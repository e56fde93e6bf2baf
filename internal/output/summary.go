package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vulnverified/legion/internal/engine"
)

// Version is set via ldflags at build time.
var Version = "dev"

// WriteHeader prints the legion banner.
func WriteHeader(w io.Writer, noColor bool) {
	if noColor {
		fmt.Fprintf(w, "legion %s\n\n", Version)
	} else {
		fmt.Fprintf(w, "\033[1mlegion %s\033[0m\n\n", Version)
	}
}

// WriteSummary prints the post-plan summary.
func WriteSummary(w io.Writer, result *engine.PlanResult, noColor bool) {
	s := result.Summary
	f := result.Facts

	target := f.Host
	if f.Port > 0 {
		target = fmt.Sprintf("%s:%d", f.Host, f.Port)
	}
	extra := make([]string, 0, 3)
	if f.IP != "" && f.IP != f.Host {
		extra = append(extra, "ip "+f.IP)
	}
	if f.IPv6 != "" && f.IPv6 != f.Host {
		extra = append(extra, "ipv6 "+f.IPv6)
	}
	if f.Domain != "" {
		extra = append(extra, "domain "+f.Domain)
	}
	if len(extra) > 0 {
		target += " (" + strings.Join(extra, ", ") + ")"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", bold("Target:", noColor), target)
	fmt.Fprintf(w, "%s %s at intensity %d\n", bold("Protocol:", noColor), result.Protocol, f.Intensity)
	fmt.Fprintf(w, "%s %d commands, %d chains (%d filtered out, %d not applicable)\n",
		bold("Plan:", noColor), len(result.Commands), s.Chains, s.Filtered, s.Omitted)

	if len(result.Outcomes) > 0 {
		fmt.Fprintf(w, "%s %d run, %d failed, %d skipped\n",
			bold("Executed:", noColor), s.Executed, s.Failed, len(result.Outcomes)-s.Executed)
		for _, o := range result.Outcomes {
			switch {
			case o.Skipped:
				fmt.Fprintf(w, "  - %s skipped: %s\n", o.Name, o.Error)
			case !o.Succeeded():
				msg := fmt.Sprintf("exit %d", o.ExitCode)
				if o.Error != "" {
					msg = o.Error
				}
				fmt.Fprintf(w, "  %s %s failed: %s\n", warnMark(noColor), o.Name, msg)
			}
		}
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnMark(noColor), warning)
	}
}

func bold(s string, noColor bool) string {
	if noColor {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func warnMark(noColor bool) string {
	if noColor {
		return "!"
	}
	return "\033[33m!\033[0m"
}
