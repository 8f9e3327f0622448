package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/deadwood-dev/deadwood/internal/dupes"
	"github.com/deadwood-dev/deadwood/internal/output"
	"github.com/deadwood-dev/deadwood/internal/progress"
	"github.com/deadwood-dev/deadwood/internal/walker"
)

func dupesCmd() *cli.Command {
	return &cli.Command{
		Name:      "dupes",
		Usage:     "Find byte-identical files",
		ArgsUsage: "[path]",
		Action:    runDupes,
	}
}

func runDupes(c *cli.Context) error {
	path := getPath(c)
	cfg := loadConfig(c)

	spinner := progress.NewSpinner("Scanning repository...")
	snap, err := walker.New(cfg).Walk(path)
	spinner.FinishSuccess()
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}

	tracker := progress.NewTracker("Hashing files...", len(snap.Files))
	analysis, err := dupes.Analyze(c.Context, snap, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(analysis.Groups) == 0 {
		if formatter.Format() == output.FormatJSON {
			return formatter.Output(analysis)
		}
		color.Green("No duplicate files found (%d files hashed)", analysis.FilesHashed)
		return nil
	}

	var rows [][]string
	for _, g := range analysis.Groups {
		for i, p := range g.Paths {
			hash := g.Hash
			if i > 0 {
				hash = ""
			}
			rows = append(rows, []string{hash, fmt.Sprintf("%d", g.Size), p})
		}
	}

	table := output.NewTable(
		fmt.Sprintf("Duplicate Files (%d groups)", len(analysis.Groups)),
		[]string{"Hash", "Size", "Path"},
		rows,
		nil,
		analysis,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	return cli.Exit("", exitFindings)
}
