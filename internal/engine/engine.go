package engine

import (
	"context"
	"fmt"
)

// Config holds the runtime configuration for a legion run.
type Config struct {
	Protocol string
	Facts    Facts
	NotUse   []string
	ExecOnly string
	Execute  bool
}

// Stages holds the injectable stage implementations. Gatherer and
// Executor are optional.
type Stages struct {
	Gatherer FactGatherer
	Warriors WarriorFactory
	Executor Executor
}

// ProgressReporter is called by the engine to report stage progress.
type ProgressReporter interface {
	Stage(num, total int, msg string)
	Detail(msg string)
	Warn(msg string)
}

// Run gathers facts, builds and filters the plan for cfg.Protocol and,
// when cfg.Execute is set, hands the plan to the executor.
func Run(ctx context.Context, cfg Config, stages Stages, progress ProgressReporter) (*PlanResult, error) {
	if stages.Warriors == nil {
		return nil, fmt.Errorf("no warrior factory configured")
	}

	totalStages := 3
	if cfg.Execute && stages.Executor != nil {
		totalStages = 4
	}

	result := &PlanResult{Protocol: cfg.Protocol}
	facts := cfg.Facts

	// Stage 1: Fact gathering.
	progress.Stage(1, totalStages, fmt.Sprintf("Gathering facts for %s...", facts.Host))
	if stages.Gatherer != nil {
		gathered, err := stages.Gatherer.Gather(ctx, facts)
		if err != nil {
			progress.Warn(fmt.Sprintf("fact gathering: %s", err))
		} else {
			facts = gathered
		}
		if wp, ok := stages.Gatherer.(WarningProvider); ok {
			for _, w := range wp.GetWarnings() {
				progress.Warn(w)
				result.Warnings = append(result.Warnings, w)
			}
		}
	}
	if facts.IP != "" {
		progress.Detail(fmt.Sprintf("ip=%s", facts.IP))
	}

	// Stage 2: Plan generation.
	progress.Stage(2, totalStages, fmt.Sprintf("Building %s plan...", cfg.Protocol))
	warrior, err := stages.Warriors.New(cfg.Protocol, facts)
	if err != nil {
		return nil, err
	}
	plan := warrior.BuildPlan()
	if fp, ok := warrior.(FactsProvider); ok {
		facts = fp.Facts()
	}
	if sp, ok := warrior.(SkipProvider); ok {
		result.Omitted = sp.Skipped()
		for _, s := range result.Omitted {
			progress.Detail(fmt.Sprintf("omitted %s: %s", s.Name, s.Reason))
		}
	}
	progress.Detail(fmt.Sprintf("%d commands planned, %d omitted", len(plan), len(result.Omitted)))

	// Stage 3: Filtering.
	progress.Stage(3, totalStages, "Applying command filters...")
	filtered := Filter(plan, cfg.NotUse, cfg.ExecOnly)
	result.Facts = facts
	result.Commands = filtered
	result.Summary = Summary{
		Planned:  len(plan),
		Filtered: len(plan) - len(filtered),
		Omitted:  len(result.Omitted),
		Chains:   CountChains(filtered),
	}
	if len(filtered) == 0 {
		msg := "plan is empty after filtering"
		progress.Warn(msg)
		result.Warnings = append(result.Warnings, msg)
		return result, nil
	}

	// Stage 4: Execution.
	if totalStages == 4 {
		progress.Stage(4, totalStages, fmt.Sprintf("Executing %d commands...", len(filtered)))
		outcomes, err := stages.Executor.Execute(ctx, filtered.Clone())
		if err != nil {
			progress.Warn(fmt.Sprintf("execution: %s", err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("execution: %s", err))
		}
		result.Outcomes = outcomes
		for _, o := range outcomes {
			if o.Skipped {
				continue
			}
			result.Summary.Executed++
			if !o.Succeeded() {
				result.Summary.Failed++
			}
		}
	}

	return result, nil
}
