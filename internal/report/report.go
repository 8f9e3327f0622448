// Package report renders a scan's classification.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/deadwood-dev/deadwood/internal/classify"
	"github.com/deadwood-dev/deadwood/internal/output"
)

// Report is the renderable result of one scan.
type Report struct {
	Root            string
	TotalFiles      int
	ReferencedFiles int
	Result          *classify.Result
}

// New creates a report for a completed scan.
func New(root string, totalFiles, referencedFiles int, result *classify.Result) *Report {
	return &Report{
		Root:            root,
		TotalFiles:      totalFiles,
		ReferencedFiles: referencedFiles,
		Result:          result,
	}
}

// Summary holds the scan counters.
type Summary struct {
	Repository      string `json:"repository"`
	TotalFiles      int    `json:"total_files"`
	ReferencedFiles int    `json:"referenced_files"`
	TotalDead       int    `json:"total_dead"`
}

// jsonReport is the structured document shape.
type jsonReport struct {
	Unreferenced []string `json:"unreferenced"`
	Orphaned     []string `json:"orphaned"`
	Suspicious   []string `json:"suspicious"`
	Summary      Summary  `json:"summary"`
}

var _ output.Renderable = (*Report)(nil)

func (r *Report) summary() Summary {
	return Summary{
		Repository:      r.Root,
		TotalFiles:      r.TotalFiles,
		ReferencedFiles: r.ReferencedFiles,
		TotalDead:       r.Result.Total(),
	}
}

// RenderData returns the structured document for JSON serialization.
func (r *Report) RenderData() any {
	return jsonReport{
		Unreferenced: r.Result.Unreferenced,
		Orphaned:     r.Result.Orphaned,
		Suspicious:   r.Result.Suspicious,
		Summary:      r.summary(),
	}
}

// category pairs a section title with its paths and advice line.
type category struct {
	name   string
	paths  []string
	advice string
	color  *color.Color
}

func (r *Report) categories() []category {
	return []category{
		{
			name:   "UNREFERENCED",
			paths:  r.Result.Unreferenced,
			advice: "Review unreferenced files - they may be safe to remove",
			color:  color.New(color.FgYellow, color.Bold),
		},
		{
			name:   "ORPHANED",
			paths:  r.Result.Orphaned,
			advice: "Check orphaned files - they might be leftover from refactoring",
			color:  color.New(color.FgRed, color.Bold),
		},
		{
			name:   "SUSPICIOUS",
			paths:  r.Result.Suspicious,
			advice: "Investigate suspicious files - they may need explicit references",
			color:  color.New(color.FgMagenta, color.Bold),
		},
	}
}

// RenderText writes the human-readable report.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	if colored {
		color.New(color.Bold).Fprintln(w, "DEAD FILE DETECTION REPORT")
	} else {
		fmt.Fprintln(w, "DEAD FILE DETECTION REPORT")
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Repository: %s\n\n", r.Root)

	summaryTable := output.NewTable("",
		[]string{"Metric", "Count"},
		[][]string{
			{"Files tracked", fmt.Sprintf("%d", r.TotalFiles)},
			{"Files with inbound references", fmt.Sprintf("%d", r.ReferencedFiles)},
			{"Dead candidates", fmt.Sprintf("%d", r.Result.Total())},
		},
		nil, nil)
	if err := summaryTable.RenderText(w, colored); err != nil {
		return err
	}

	for _, cat := range r.categories() {
		if len(cat.paths) == 0 {
			continue
		}
		title := fmt.Sprintf("%s FILES (%d):", cat.name, len(cat.paths))
		if colored {
			cat.color.Fprintln(w, title)
		} else {
			fmt.Fprintln(w, title)
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, p := range cat.paths {
			fmt.Fprintf(w, "  - %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if r.Result.Total() == 0 {
		if colored {
			color.New(color.FgGreen).Fprintln(w, "No dead files detected. Repository looks clean.")
		} else {
			fmt.Fprintln(w, "No dead files detected. Repository looks clean.")
		}
		return nil
	}

	fmt.Fprintln(w, "RECOMMENDATIONS:")
	fmt.Fprintln(w, strings.Repeat("-", 15))
	for _, cat := range r.categories() {
		if len(cat.paths) > 0 {
			fmt.Fprintf(w, "  - %s\n", cat.advice)
		}
	}
	return nil
}

// RenderMarkdown writes the report as markdown sections.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "# Dead File Detection Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Repository: `%s`\n\n", r.Root)

	fmt.Fprintf(w, "- Files tracked: %d\n", r.TotalFiles)
	fmt.Fprintf(w, "- Files with inbound references: %d\n", r.ReferencedFiles)
	fmt.Fprintf(w, "- Dead candidates: %d\n\n", r.Result.Total())

	for _, cat := range r.categories() {
		if len(cat.paths) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s files (%d)\n\n", cat.name[:1]+strings.ToLower(cat.name[1:]), len(cat.paths))
		for _, p := range cat.paths {
			fmt.Fprintf(w, "- `%s`\n", p)
		}
		fmt.Fprintln(w)
	}

	if r.Result.Total() == 0 {
		fmt.Fprintln(w, "No dead files detected.")
	}
	return nil
}
