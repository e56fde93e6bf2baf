package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// Mock implementations for testing.

type mockGatherer struct {
	ip       string
	err      error
	warnings []string
}

func (m *mockGatherer) Gather(ctx context.Context, facts Facts) (Facts, error) {
	if m.err != nil {
		return facts, m.err
	}
	facts.IP = m.ip
	return facts, nil
}

func (m *mockGatherer) GetWarnings() []string {
	return m.warnings
}

type mockWarrior struct {
	facts       Facts
	plan        Plan
	skipped     []Skip
	defaultPort int
}

func (m *mockWarrior) Name() string            { return "mock" }
func (m *mockWarrior) BuildPlan() Plan         { return m.plan.Clone() }
func (m *mockWarrior) Describe() []CommandInfo { return nil }
func (m *mockWarrior) Skipped() []Skip         { return m.skipped }
func (m *mockWarrior) Facts() Facts            { return m.facts }

type mockFactory struct {
	warrior *mockWarrior
	seen    Facts
}

func (m *mockFactory) New(protocol string, facts Facts) (Warrior, error) {
	if protocol != "mock" {
		return nil, fmt.Errorf("unknown protocol %q", protocol)
	}
	m.seen = facts
	if facts.Port == 0 {
		facts.Port = m.warrior.defaultPort
	}
	m.warrior.facts = facts
	return m.warrior, nil
}

type mockExecutor struct {
	got      Plan
	outcomes []Outcome
	err      error
}

func (m *mockExecutor) Execute(ctx context.Context, plan Plan) ([]Outcome, error) {
	m.got = plan
	return m.outcomes, m.err
}

type noopProgress struct{}

func (p *noopProgress) Stage(num, total int, msg string) {}
func (p *noopProgress) Detail(msg string)                {}
func (p *noopProgress) Warn(msg string)                  {}

type recordingProgress struct {
	stages []string
	warns  []string
}

func (p *recordingProgress) Stage(num, total int, msg string) {
	p.stages = append(p.stages, fmt.Sprintf("%d/%d %s", num, total, msg))
}
func (p *recordingProgress) Detail(msg string) {}
func (p *recordingProgress) Warn(msg string)   { p.warns = append(p.warns, msg) }

func samplePlan() Plan {
	return Plan{
		{Name: "a", Command: "echo a", Category: CategoryBasicEnum},
		{Name: "b", Command: "echo b", Category: CategoryBasicEnum, Chain: true},
		{Name: "c", Command: "echo c", Category: CategoryBasicEnum},
		{Name: "d", Command: "echo d", Category: CategoryVulnerability},
	}
}

func TestEngine_FullPipeline(t *testing.T) {
	factory := &mockFactory{warrior: &mockWarrior{
		plan:    samplePlan(),
		skipped: []Skip{{Name: "x", Reason: "missing fact: domain"}},
	}}
	exec := &mockExecutor{outcomes: []Outcome{
		{Name: "a"},
		{Name: "c", ExitCode: 1},
		{Name: "d", Skipped: true},
	}}

	cfg := Config{
		Protocol: "mock",
		Facts:    Facts{Host: "example.com", Intensity: 2},
		NotUse:   []string{"b"},
		Execute:  true,
	}
	stages := Stages{
		Gatherer: &mockGatherer{ip: "10.0.0.5"},
		Warriors: factory,
		Executor: exec,
	}

	progress := &recordingProgress{}
	result, err := Run(context.Background(), cfg, stages, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if factory.seen.IP != "10.0.0.5" {
		t.Errorf("warrior facts ip = %q, want %q", factory.seen.IP, "10.0.0.5")
	}
	if result.Facts.IP != "10.0.0.5" {
		t.Errorf("result facts ip = %q, want %q", result.Facts.IP, "10.0.0.5")
	}
	if got := result.Commands.Names(); fmt.Sprint(got) != "[a c d]" {
		t.Errorf("commands = %v, want [a c d]", got)
	}
	if len(exec.got) != 3 {
		t.Errorf("executor received %d commands, want 3", len(exec.got))
	}
	if len(progress.stages) != 4 {
		t.Errorf("stages = %v, want 4", progress.stages)
	}

	s := result.Summary
	if s.Planned != 4 {
		t.Errorf("planned = %d, want 4", s.Planned)
	}
	if s.Filtered != 1 {
		t.Errorf("filtered = %d, want 1", s.Filtered)
	}
	if s.Omitted != 1 {
		t.Errorf("omitted = %d, want 1", s.Omitted)
	}
	if s.Executed != 2 {
		t.Errorf("executed = %d, want 2", s.Executed)
	}
	if s.Failed != 1 {
		t.Errorf("failed = %d, want 1", s.Failed)
	}
}

func TestEngine_ResultReportsWarriorFacts(t *testing.T) {
	stages := Stages{
		Warriors: &mockFactory{warrior: &mockWarrior{plan: samplePlan(), defaultPort: 22}},
	}
	cfg := Config{Protocol: "mock", Facts: Facts{Host: "10.0.0.5", Intensity: 1}}

	result, err := Run(context.Background(), cfg, stages, &noopProgress{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Facts.Port != 22 {
		t.Errorf("facts port = %d, want 22 from the warrior", result.Facts.Port)
	}
	if result.Facts.Host != "10.0.0.5" {
		t.Errorf("facts host = %q, want 10.0.0.5", result.Facts.Host)
	}
}

func TestEngine_NoExecuteSkipsStageFour(t *testing.T) {
	exec := &mockExecutor{}
	stages := Stages{
		Warriors: &mockFactory{warrior: &mockWarrior{plan: samplePlan()}},
		Executor: exec,
	}
	progress := &recordingProgress{}

	result, err := Run(context.Background(), Config{Protocol: "mock"}, stages, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.got != nil {
		t.Error("executor should not run without Execute")
	}
	if len(progress.stages) != 3 {
		t.Errorf("stages = %v, want 3", progress.stages)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("outcomes = %v, want none", result.Outcomes)
	}
}

func TestEngine_UnknownProtocol(t *testing.T) {
	stages := Stages{Warriors: &mockFactory{warrior: &mockWarrior{}}}
	_, err := Run(context.Background(), Config{Protocol: "gopher"}, stages, &noopProgress{})
	if err == nil {
		t.Fatal("expected error for unknown protocol")
	}
}

func TestEngine_GatherErrorIsWarning(t *testing.T) {
	stages := Stages{
		Gatherer: &mockGatherer{err: errors.New("no route"), warnings: []string{"lookup failed"}},
		Warriors: &mockFactory{warrior: &mockWarrior{plan: samplePlan()}},
	}
	progress := &recordingProgress{}

	result, err := Run(context.Background(), Config{Protocol: "mock", Facts: Facts{Host: "h"}}, stages, progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Facts.Host != "h" {
		t.Errorf("host = %q, want %q", result.Facts.Host, "h")
	}
	if len(progress.warns) != 2 {
		t.Errorf("warnings = %v, want 2", progress.warns)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "lookup failed" {
		t.Errorf("result warnings = %v", result.Warnings)
	}
}

func TestEngine_EmptyPlanAfterFilter(t *testing.T) {
	exec := &mockExecutor{}
	stages := Stages{
		Warriors: &mockFactory{warrior: &mockWarrior{plan: samplePlan()}},
		Executor: exec,
	}
	cfg := Config{Protocol: "mock", ExecOnly: "zzz", Execute: true}

	result, err := Run(context.Background(), cfg, stages, &noopProgress{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Commands) != 0 {
		t.Errorf("commands = %v, want none", result.Commands.Names())
	}
	if result.Commands == nil {
		t.Error("empty plan should be non-nil so it encodes as []")
	}
	if exec.got != nil {
		t.Error("executor should not run on an empty plan")
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", result.Warnings)
	}
}

func TestEngine_ExecutorError(t *testing.T) {
	stages := Stages{
		Warriors: &mockFactory{warrior: &mockWarrior{plan: samplePlan()}},
		Executor: &mockExecutor{err: errors.New("workdir not writable")},
	}
	result, err := Run(context.Background(), Config{Protocol: "mock", Execute: true}, stages, &noopProgress{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", result.Warnings)
	}
}

func TestEngine_NoFactory(t *testing.T) {
	if _, err := Run(context.Background(), Config{}, Stages{}, &noopProgress{}); err == nil {
		t.Fatal("expected error without a warrior factory")
	}
}
