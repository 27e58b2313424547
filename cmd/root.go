// Package cmd wires up the CLI flags and runs the composite builder
// against the sample capabilities.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"cibuild/composite"
	"cibuild/config"
	"cibuild/internal/demo"
	"cibuild/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X cibuild/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args, builds the sample composite, and runs the
// requested calls, writing results to stdout.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cibuild", flag.ContinueOnError)

	// ── builder ──────────────────────────────────────────────────
	var component string
	var cacheSize int
	fs.StringVar(&component, "component", "", "Component name (random if empty)")
	fs.IntVar(&cacheSize, "cache-size", config.DefaultCacheSize, "Composite type cache size (0 disables)")

	// ── harness ──────────────────────────────────────────────────
	var calls []string
	var format, configPath string
	var stats bool
	fs.StringArrayVarP(&calls, "call", "c", nil, "Invoke a synthesized method, e.g. 'Greeter_Greet(Sam)' (repeatable)")
	fs.StringVarP(&format, "format", "f", config.DefaultFormat, "Descriptor format: text or yaml")
	fs.StringVarP(&configPath, "config", "C", "", "YAML config file")
	fs.BoolVar(&stats, "stats", false, "Print builder statistics")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "cibuild %s\n", version)
		return nil
	}

	// ── layered config: file < env < flags ───────────────────────
	if err := config.LoadDotEnv(config.DefaultEnvFile); err != nil {
		return err
	}
	cfg := config.Default()
	if configPath != "" {
		if err := config.LoadFile(cfg, configPath); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	if fs.Changed("component") {
		cfg.ComponentName = component
	}
	if fs.Changed("cache-size") {
		cfg.CacheSize = cacheSize
	}
	if fs.Changed("format") {
		cfg.Format = format
	}
	if fs.Changed("stats") {
		cfg.Stats = stats
	}
	if fs.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if fs.Changed("call") {
		cfg.Calls = calls
	}
	// Positional arguments are additional call specs.
	cfg.Calls = append(cfg.Calls, fs.Args()...)

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build ────────────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	builder, err := composite.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	inst, desc, err := builder.Build(demo.Binding())
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := printDescriptor(stdout, cfg.Format, desc); err != nil {
		return err
	}

	// ── calls ────────────────────────────────────────────────────
	parsed, err := cfg.ParsedCalls()
	if err != nil {
		return err
	}
	for _, call := range parsed {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := invoke(inst, call)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s = %s\n", call, formatResults(out))
	}

	if cfg.Stats {
		data, err := yaml.Marshal(map[string]interface{}{"stats": builder.Stats()})
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, string(data))
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func printDescriptor(w io.Writer, format string, desc *composite.Descriptor) error {
	if format == config.FormatYAML {
		data, err := yaml.Marshal(desc)
		if err != nil {
			return fmt.Errorf("descriptor: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", desc.Name, desc.Type)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if isTerminal(w) {
		fmt.Fprintln(tw, "  METHOD\tSIGNATURE\tSLOT")
	}
	for _, m := range desc.Methods {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", m.Name, m.Func, m.Slot)
	}
	return tw.Flush()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatResults(out []interface{}) string {
	if len(out) == 0 {
		return "()"
	}
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `cibuild – composite capability builder v%s

Builds one composite from the sample Greeter and Counter capabilities
and invokes its synthesized methods by name.

Usage:
  cibuild [options] [call...]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  cibuild                                      Print the descriptor
  cibuild 'Greeter_Greet(Sam)'                 Call one method
  cibuild -c Counter_Increment -c Counter_Increment
  cibuild -f yaml --stats                      YAML output with statistics
  CIBUILD_COMPONENT=__demo cibuild -v          Named component, verbose
`)
}
