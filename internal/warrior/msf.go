package warrior

import (
	"fmt"
	"sort"
	"strings"
)

// msf builds a non-interactive msfconsole invocation for module with the
// given options. Options are set in key order so output is stable.
//
//	msfconsole -q -x "use <module>; set K V; ...; run; exit"
func msf(module string, opts map[string]string) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	steps := make([]string, 0, len(keys)+3)
	steps = append(steps, "use "+module)
	for _, k := range keys {
		steps = append(steps, fmt.Sprintf("set %s %s", k, opts[k]))
	}
	steps = append(steps, "run", "exit")
	return fmt.Sprintf(`msfconsole -q -x "%s"`, strings.Join(steps, "; "))
}
