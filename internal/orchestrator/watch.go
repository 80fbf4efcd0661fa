package orchestrator

import (
	"fmt"

	"callreport/internal/config"
	"callreport/internal/output"
	"callreport/internal/watcher"
)

// Watch performs one full report run and then keeps the artifacts current as
// the tree changes, until stop is closed. It returns the watch session
// summary.
func Watch(configPath string, stop <-chan struct{}) (*watcher.WatchSummary, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	outCfg := output.DefaultConfig()
	outCfg.Verbose = cfg.Verbose
	out := output.New(outCfg)

	// Initial pass so the artifacts exist before the first change arrives.
	runSummary, err := RunWithConfig(cfg, out)
	if err != nil {
		return nil, err
	}
	out.Info("%s", runSummary.PrintSummary())

	w := watcher.New(cfg.BaseDirectory, cfg.Watch, func() error {
		s, err := RunWithConfig(cfg, out)
		if err != nil {
			return err
		}
		out.Info("%s", s.PrintSummary())
		return nil
	}, out)

	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	out.Info("Watching %s for changes", cfg.BaseDirectory)

	<-stop
	return w.Stop(), nil
}
