// Package runner is a minimal sequential executor for command plans.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"

	"github.com/vulnverified/legion/internal/engine"
)

const defaultShell = "/bin/sh"

// Runner executes plan entries one at a time. Each command's combined
// output is written to <OutputDir>/<name>.out. When a command with
// Chain set fails, the rest of its chain is skipped.
type Runner struct {
	OutputDir string
	Shell     string
	Echo      io.Writer // optional copy of every command's output
	Progress  engine.ProgressReporter
	Logger    zerolog.Logger
}

// OutputDir returns <workdir>/<host>/<protocol>.
func OutputDir(workdir, host, protocol string) string {
	return filepath.Join(workdir, safeName(host), safeName(protocol))
}

// Execute implements engine.Executor.
func (r *Runner) Execute(ctx context.Context, plan engine.Plan) ([]engine.Outcome, error) {
	if r.OutputDir == "" {
		return nil, errors.New("no output directory")
	}
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.OutputDir, err)
	}

	outcomes := make([]engine.Outcome, 0, len(plan))
	brokenBy := ""
	for i, cmd := range plan {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		if brokenBy != "" {
			outcomes = append(outcomes, engine.Outcome{
				Name:    cmd.Name,
				Skipped: true,
				Error:   "chain broken by " + brokenBy,
			})
			if !cmd.Chain {
				brokenBy = ""
			}
			continue
		}

		if r.Progress != nil {
			r.Progress.Detail(fmt.Sprintf("[%d/%d] %s", i+1, len(plan), cmd.Name))
		}
		out := r.run(ctx, cmd)
		outcomes = append(outcomes, out)

		if !out.Succeeded() {
			r.Logger.Warn().Str("command", cmd.Name).Int("exit_code", out.ExitCode).Str("error", out.Error).Msg("command failed")
			if cmd.Chain {
				brokenBy = cmd.Name
			}
		}
	}
	return outcomes, nil
}

func (r *Runner) run(ctx context.Context, spec engine.CommandSpec) engine.Outcome {
	outcome := engine.Outcome{Name: spec.Name}
	start := time.Now()

	argv, err := r.argv(spec)
	if err != nil {
		outcome.Error = err.Error()
		outcome.ExitCode = -1
		outcome.DurationSecs = time.Since(start).Seconds()
		return outcome
	}

	path := filepath.Join(r.OutputDir, safeName(spec.Name)+".out")
	f, err := os.Create(path)
	if err != nil {
		outcome.Error = fmt.Sprintf("create output: %s", err)
		outcome.ExitCode = -1
		outcome.DurationSecs = time.Since(start).Seconds()
		return outcome
	}
	defer f.Close()
	outcome.OutputPath = path

	var w io.Writer = f
	if r.Echo != nil {
		w = io.MultiWriter(f, r.Echo)
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout = w
	c.Stderr = w

	r.Logger.Debug().Str("command", spec.Name).Strs("argv", argv).Msg("running")
	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			outcome.ExitCode = -1
			outcome.Error = err.Error()
		}
	}
	outcome.DurationSecs = time.Since(start).Seconds()
	return outcome
}

func (r *Runner) argv(spec engine.CommandSpec) ([]string, error) {
	if spec.Shell {
		sh := r.Shell
		if sh == "" {
			sh = defaultShell
		}
		return []string{sh, "-c", spec.Command}, nil
	}
	argv, err := shell.Fields(spec.Command, nil)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", spec.Command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
