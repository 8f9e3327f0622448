package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadwood-dev/deadwood/internal/classify"
	"github.com/deadwood-dev/deadwood/internal/config"
	"github.com/deadwood-dev/deadwood/internal/graph"
	"github.com/deadwood-dev/deadwood/internal/output"
	"github.com/deadwood-dev/deadwood/internal/progress"
	"github.com/deadwood-dev/deadwood/internal/report"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan a repository for dead-file candidates",
		ArgsUsage: "[path]",
		Action:    runScan,
	}
}

func runScan(c *cli.Context) error {
	path := getPath(c)
	cfg := loadConfig(c)
	verbose := c.Bool("verbose") || cfg.Output.Verbose

	var opts []walker.Option
	if verbose {
		opts = append(opts, walker.WithSkipFunc(func(rel, reason string) {
			fmt.Fprintf(os.Stderr, "skip %s: %s\n", rel, reason)
		}))
	}

	spinner := progress.NewSpinner("Scanning repository...")
	snap, err := walker.New(cfg, opts...).Walk(path)
	spinner.FinishSuccess()
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}
	if err := c.Context.Err(); err != nil {
		return err
	}

	scannable := snap.Scannable()
	tracker := progress.NewTracker("Extracting references...", len(scannable))
	builderOpts := []graph.Option{graph.WithProgress(tracker.Tick)}
	if verbose {
		builderOpts = append(builderOpts, graph.WithErrorFunc(func(p string, err error) {
			fmt.Fprintf(os.Stderr, "extract %s: %v\n", p, err)
		}))
	}

	g, err := graph.NewBuilder(cfg, builderOpts...).Build(c.Context, snap)
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	result, err := classify.Classify(snap, g, cfg)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rep := report.New(snap.Root, len(snap.Files), g.ReferencedCount(), result)
	if err := formatter.Output(rep); err != nil {
		return err
	}

	if result.Total() > 0 {
		return cli.Exit("", exitFindings)
	}
	return nil
}

// loadConfig resolves the --config flag. A broken or missing override
// file warns and falls back to defaults, never fails the run.
func loadConfig(c *cli.Context) *config.Config {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			color.Yellow("Warning: %v, using default configuration", err)
			return config.DefaultConfig()
		}
		return cfg
	}
	return config.LoadOrDefault()
}
