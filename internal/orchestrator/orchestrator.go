// Package orchestrator coordinates a full report run: configuration loading,
// the per-folder summary walk, the tree-level overview pass, and the optional
// report index.
package orchestrator

import (
	"fmt"
	"time"

	"callreport/internal/config"
	"callreport/internal/nameparser"
	"callreport/internal/output"
	"callreport/internal/overview"
	"callreport/internal/reportdb"
	"callreport/internal/sidecar"
	"callreport/internal/summary"
)

// RunSummary contains statistics from one report run.
type RunSummary struct {
	TotalRows int           // Recording rows across the whole tree
	Folders   int           // Folders that produced a summary.csv
	Indexed   bool          // Whether the run was written to the report DB
	Duration  time.Duration // Total processing time
}

// PrintSummary returns a formatted one-line summary.
func (s *RunSummary) PrintSummary() string {
	line := fmt.Sprintf("Processed %d recordings across %d folders in %s",
		s.TotalRows, s.Folders, s.Duration.Round(time.Millisecond))
	if s.Indexed {
		line += " (indexed)"
	}
	return line
}

// Run executes a full report run from a configuration file.
func Run(configPath string) (*RunSummary, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	outCfg := output.DefaultConfig()
	outCfg.Verbose = cfg.Verbose
	return RunWithConfig(cfg, output.New(outCfg))
}

// RunWithConfig executes a full report run with an already-loaded
// configuration.
func RunWithConfig(cfg *config.Configuration, out *output.Output) (*RunSummary, error) {
	started := time.Now()

	resolver := BuildResolver(cfg, out)
	summaryAgg := &summary.Aggregator{
		Config: cfg,
		Builder: &summary.Builder{
			Resolver:  resolver,
			Durations: sidecar.FileDurationProvider{},
			Out:       out,
		},
		Out: out,
	}

	acc := &summary.Accumulator{}
	if _, err := summaryAgg.Aggregate(cfg.BaseDirectory, acc); err != nil {
		return nil, err
	}

	overviewAgg := &overview.Aggregator{Resolver: resolver, Out: out}
	result, err := overviewAgg.Aggregate(cfg.BaseDirectory)
	if err != nil {
		return nil, err
	}

	runSummary := &RunSummary{
		TotalRows: len(acc.Rows),
		Folders:   len(result.Stats),
	}

	// Index failures never fail the run: the filesystem artifacts are the
	// primary output.
	if cfg.ReportDB != "" {
		if err := indexRun(cfg.ReportDB, acc.Rows, result, started); err != nil {
			out.Warn("failed to index run in %s: %v", cfg.ReportDB, err)
		} else {
			runSummary.Indexed = true
		}
	}

	runSummary.Duration = time.Since(started)
	return runSummary, nil
}

// BuildResolver assembles the filename parser chain from the configuration:
// configured prefix strategies plus the built-in chain, with an optional
// forced override.
func BuildResolver(cfg *config.Configuration, out *output.Output) *nameparser.Resolver {
	resolver := nameparser.NewResolver(cfg.PrefixParsers...)
	if cfg.ParserOverride != "" {
		s := resolver.FindStrategy(cfg.ParserOverride)
		if s == nil {
			if out != nil {
				out.Warn("parser_override %q does not name a registered strategy, using the chain", cfg.ParserOverride)
			}
		} else {
			resolver.SetOverride(s)
		}
	}
	return resolver
}

func indexRun(path string, rows []*summary.Row, result *overview.Result, started time.Time) error {
	db, err := reportdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.RecordRun(rows, result, started, time.Now())
}
