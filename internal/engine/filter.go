package engine

// Filter applies the user's selection to a plan. A non-empty execOnly
// keeps only the command with exactly that name and ignores notUse
// entirely; otherwise every command named in notUse is dropped. Names
// match exactly and case-sensitively. Order is preserved and the result
// may be empty.
//
// When part of a chain is removed, the last surviving member of that
// chain is re-terminated so the plan never ends a chain on Chain=true.
func Filter(plan Plan, notUse []string, execOnly string) Plan {
	var keep func(name string) bool
	if execOnly != "" {
		keep = func(name string) bool { return name == execOnly }
	} else {
		drop := toSet(notUse)
		keep = func(name string) bool { return !drop[name] }
	}

	groups := chainGroups(plan)

	out := Plan{}
	var outGroups []int
	for i, c := range plan {
		if !keep(c.Name) {
			continue
		}
		out = append(out, c)
		outGroups = append(outGroups, groups[i])
	}

	for i := range out {
		if !out[i].Chain {
			continue
		}
		if i == len(out)-1 || outGroups[i+1] != outGroups[i] {
			out[i].Chain = false
		}
	}
	return out
}

// chainGroups assigns each command the index of the chain it belongs to.
// A command continues its predecessor's group when the predecessor has
// Chain set.
func chainGroups(plan Plan) []int {
	groups := make([]int, len(plan))
	g := 0
	for i := range plan {
		if i > 0 && !plan[i-1].Chain {
			g++
		}
		groups[i] = g
	}
	return groups
}

// CountChains returns the number of chains with at least two members.
func CountChains(plan Plan) int {
	n := 0
	for i, c := range plan {
		if c.Chain && (i == 0 || !plan[i-1].Chain) {
			n++
		}
	}
	return n
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
