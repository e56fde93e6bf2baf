package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vulnverified/legion/internal/config"
	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/internal/logging"
	"github.com/vulnverified/legion/internal/output"
	"github.com/vulnverified/legion/internal/recon"
	"github.com/vulnverified/legion/internal/runner"
	"github.com/vulnverified/legion/internal/warrior"
	"github.com/vulnverified/legion/internal/wordlist"
	"github.com/vulnverified/legion/pkg/ports"
)

// Set via ldflags at build time.
var version = "dev"

// options holds the flags that steer the CLI itself rather than a run.
type options struct {
	configPath string
	profile    string
	jsonOutput bool
	yamlOutput bool
	noColor    bool
	silent     bool
	logLevel   string
}

// app is the state shared by the root command and its subcommands once
// the configuration has been resolved.
type app struct {
	opts     *options
	home     string
	out      io.Writer
	errOut   io.Writer
	color    bool
	log      zerolog.Logger
	resolved *config.Resolved
	registry *warrior.Registry
}

func main() {
	output.Version = version

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "legion",
		Short: "Plan and run protocol enumeration commands",
		Long: "Legion builds an ordered list of enumeration commands for one protocol and target.\n" +
			"Settings come from the command line, a named profile, the DEFAULT profile, and built-in defaults, in that order.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd, opts, home)
			if a.resolved.Bool(config.Protohelp) {
				return a.protocolHelp()
			}
			return a.plan(cmd.Context())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(home), "Path to the INI configuration file")
	pf.StringVar(&opts.profile, "profile", config.DefaultProfile, "Configuration profile to use")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output structured JSON to stdout")
	pf.BoolVar(&opts.yamlOutput, "yaml", false, "Output YAML to stdout")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable terminal colors")
	pf.BoolVar(&opts.silent, "silent", false, "Results only, no progress output")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	registerSettings(pf, home)

	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(newConfigCmd(opts, home), newProtocolsCmd(opts, home))

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("legion {{.Version}}\n")
	return rootCmd
}

func newConfigCmd(opts *options, home string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show every resolved setting and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd, opts, home)
			switch {
			case opts.jsonOutput:
				return output.WriteJSON(a.out, settingsView(a.resolved))
			case opts.yamlOutput:
				return output.WriteYAML(a.out, settingsView(a.resolved))
			}
			output.WriteSettingsTable(a.out, a.resolved, !a.color)
			for _, w := range a.resolved.Warnings() {
				fmt.Fprintf(a.errOut, "! %s\n", w)
			}
			return nil
		},
	}
}

func newProtocolsCmd(opts *options, home string) *cobra.Command {
	return &cobra.Command{
		Use:   "protocols",
		Short: "List the protocols legion can plan for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd, opts, home)
			var rows []output.ProtocolRow
			for _, p := range a.registry.List() {
				rows = append(rows, output.ProtocolRow{
					Name:        p.Name,
					DefaultPort: ports.Default(p.Name),
					Commands:    len(p.Templates),
					Summary:     p.Summary,
				})
			}
			switch {
			case opts.jsonOutput:
				return output.WriteJSON(a.out, rows)
			case opts.yamlOutput:
				return output.WriteYAML(a.out, rows)
			}
			output.WriteProtocols(a.out, rows, !a.color)
			return nil
		},
	}
}

// newApp resolves the configuration for cmd. Resolution never fails;
// problems end up in a.resolved.Warnings().
func newApp(cmd *cobra.Command, opts *options, home string) *app {
	a := &app{
		opts:   opts,
		home:   home,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	a.color = !opts.noColor && !opts.jsonOutput && !opts.yamlOutput
	if f, ok := a.out.(*os.File); ok {
		a.color = a.color && output.ColorEnabled(f, opts.noColor)
	} else {
		a.color = false
	}
	if opts.jsonOutput || opts.yamlOutput {
		a.log = logging.NewJSONLogger(a.errOut, opts.logLevel)
	} else {
		a.log = logging.NewLogger(a.errOut, opts.logLevel, !a.color)
	}

	a.resolved = config.NewResolver(a.log).Resolve(config.Source{
		Overrides:  collectOverrides(cmd.Flags()),
		ConfigPath: opts.configPath,
		Profile:    opts.profile,
		HomeDir:    home,
	})
	a.registry = warrior.NewDefaultRegistry(a.log)
	return a
}

func (a *app) structured() bool {
	return a.opts.jsonOutput || a.opts.yamlOutput
}

func (a *app) protocolHelp() error {
	name := a.resolved.String(config.Proto)
	p, ok := a.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", warrior.ErrUnknownProtocol, name)
	}
	infos := warrior.New(p, factsFrom(a.resolved)).Describe()
	switch {
	case a.opts.jsonOutput:
		return output.WriteJSON(a.out, infos)
	case a.opts.yamlOutput:
		return output.WriteYAML(a.out, infos)
	}
	output.WriteProtocolHelp(a.out, p.Name, p.Summary, infos, !a.color)
	return nil
}

func (a *app) plan(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt)
	defer cancel()

	res := a.resolved
	facts := factsFrom(res)
	protocol := res.String(config.Proto)
	execute := res.Bool(config.Run)

	showProgress := !a.structured() && !a.opts.silent
	progress := output.NewProgress(a.errOut, a.log, res.Bool(config.Verbose), !showProgress)
	if showProgress {
		output.WriteHeader(a.errOut, !a.color)
	}

	warnings := res.Warnings()
	if facts.Workdir != "" {
		created, err := wordlist.Ensure(facts.Workdir)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot prepare default wordlists: %v", err))
		}
		for _, path := range created {
			progress.Detail("wrote " + path)
		}
	}

	stages := engine.Stages{
		Gatherer: &recon.Gatherer{Resolver: &recon.DNSResolver{}, Progress: progress},
		Warriors: a.registry,
	}
	if execute {
		r := &runner.Runner{
			OutputDir: runner.OutputDir(facts.Workdir, facts.Host, protocol),
			Progress:  progress,
			Logger:    a.log,
		}
		if res.Bool(config.Verbose) {
			// Keep stdout clean for structured output.
			r.Echo = a.out
			if a.structured() {
				r.Echo = a.errOut
			}
		}
		stages.Executor = r
	}

	result, err := engine.Run(ctx, engine.Config{
		Protocol: protocol,
		Facts:    facts,
		NotUse:   res.Strings(config.Notuse),
		ExecOnly: res.String(config.Execonly),
		Execute:  execute,
	}, stages, progress)
	if err != nil {
		return err
	}
	result.Warnings = append(warnings, result.Warnings...)

	if showProgress {
		progress.Complete()
	}

	switch {
	case a.opts.jsonOutput:
		return output.WriteJSON(a.out, result)
	case a.opts.yamlOutput:
		return output.WriteYAML(a.out, result)
	}
	output.WritePlanTable(a.out, result, !a.color)
	output.WriteSummary(a.out, result, !a.color)
	return nil
}

// settingView is the structured form of one resolved setting.
type settingView struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Origin string `json:"origin" yaml:"origin"`
}

type settingsDoc struct {
	Profile  string        `json:"profile" yaml:"profile"`
	Settings []settingView `json:"settings" yaml:"settings"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func settingsView(res *config.Resolved) settingsDoc {
	doc := settingsDoc{Profile: res.Profile(), Warnings: res.Warnings()}
	for _, s := range res.Settings() {
		doc.Settings = append(doc.Settings, settingView{
			Name:   s.Name,
			Value:  logging.Field(s.Name, s.Value.String()),
			Origin: s.Origin.String(),
		})
	}
	for _, name := range res.ExtraNames() {
		v, _ := res.Extra(name)
		doc.Settings = append(doc.Settings, settingView{Name: name, Value: logging.Field(name, v), Origin: "extra"})
	}
	return doc
}
