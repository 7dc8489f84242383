package cli

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"hooklint/internal/engine/lint"
)

// maxWarningsUnset marks -max-warnings as not given, so the config value
// stays in effect.
const maxWarningsUnset = -2

type cliOptions struct {
	configPath    string
	fix           bool
	fixDryRun     bool
	format        string
	outputFile    string
	maxWarnings   int
	rules         ruleFlag
	printRules    bool
	watch         bool
	ui            bool
	history       bool
	historyReport bool
	since         string
	historyWindow string
	historyLimit  int
	verbose       bool
	version       bool
	args          []string
}

// ruleFlag collects repeated -rule name=severity values.
type ruleFlag map[string]lint.Severity

func (r *ruleFlag) String() string {
	if r == nil || len(*r) == 0 {
		return ""
	}
	parts := make([]string, 0, len(*r))
	for name, sev := range *r {
		parts = append(parts, name+"="+sev.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (r *ruleFlag) Set(value string) error {
	name, raw, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("rule must be formatted as <name>=<severity>, got %q", value)
	}
	sev, err := lint.ParseSeverity(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("rule %s: %w", name, err)
	}
	if *r == nil {
		*r = make(ruleFlag)
	}
	(*r)[name] = sev
	return nil
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("hooklint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./hooklint.toml when present)")
	fs.BoolVar(&opts.fix, "fix", false, "Write automatic fixes back to the source files")
	fs.BoolVar(&opts.fixDryRun, "fix-dry-run", false, "Compute fixes without writing them (pair with -format diff)")
	fs.StringVar(&opts.format, "format", "", "Output format: stylish, json, sarif, diff")
	fs.StringVar(&opts.outputFile, "output-file", "", "Write the report to this file instead of stdout")
	fs.IntVar(&opts.maxWarnings, "max-warnings", maxWarningsUnset, "Fail when more than this many warnings are reported (-1 disables)")
	fs.Var(&opts.rules, "rule", "Override a rule severity as <name>=<off|warn|error> (repeatable)")
	fs.BoolVar(&opts.printRules, "print-rules", false, "Print the active rules with their severities and exit")
	fs.BoolVar(&opts.watch, "watch", false, "Re-lint files as they change")
	fs.BoolVar(&opts.ui, "ui", false, "Show a terminal dashboard in watch mode")
	fs.BoolVar(&opts.history, "history", false, "Record run summaries in the local history store")
	fs.BoolVar(&opts.historyReport, "history-report", false, "Print the recorded run trend and exit (requires -history)")
	fs.StringVar(&opts.since, "since", "", "Only include runs at/after this time in -history-report (RFC3339 or YYYY-MM-DD)")
	fs.StringVar(&opts.historyWindow, "history-window", "24h", "Moving-average window for -history-report")
	fs.IntVar(&opts.historyLimit, "history-limit", 0, "Only include the most recent N runs in -history-report")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
