// Package cli provides CLI output rendering and interactive parameter prompts for kluster.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kluster/internal/models"
)

// OutputFormat is the format for run report output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is a single summary line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteRunReport writes report to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRunReport(w io.Writer, report *models.RunReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case OutputCompact:
		_, err := fmt.Fprintf(w, "%s\tk=%d\tpoints=%d\t%s\titerations=%d\tinertia=%.6g\n",
			report.RunID, report.K, report.NumPoints, report.State, report.Iterations, report.Inertia)
		return err
	default:
		writeRunReportText(w, report)
		return nil
	}
}

func writeRunReportText(w io.Writer, report *models.RunReport) {
	if report.InputPath != "" {
		fmt.Fprintf(w, "Read %d data points from '%s'.\n", report.NumPoints, report.InputPath)
	}
	fmt.Fprintf(w, "Number of clusters (k): %d\n", report.K)
	fmt.Fprintln(w, "Initial centroids:")
	writeCentroids(w, report.Initial, nil)

	switch report.State {
	case "converged":
		fmt.Fprintf(w, "Converged after %d iterations.\n", report.Iterations)
	default:
		fmt.Fprintf(w, "Reached maximum iterations (%d).\n", report.Iterations)
	}
	if report.OutputPath != "" {
		fmt.Fprintf(w, "K-Means clustering completed. Results are in '%s'.\n", report.OutputPath)
	}
	fmt.Fprintln(w, "Final centroids:")
	writeCentroids(w, report.Centroids, report.Sizes)
	fmt.Fprintf(w, "Inertia: %.6g\n", report.Inertia)
	if report.PlotPath != "" {
		fmt.Fprintf(w, "Plot written to '%s'.\n", report.PlotPath)
	}
	fmt.Fprintf(w, "Run ID: %s (%s)\n", report.RunID, report.Duration)
}

func writeCentroids(w io.Writer, centroids []models.Point, sizes []int) {
	for i, c := range centroids {
		if i < len(sizes) {
			fmt.Fprintf(w, "  Centroid %d: %s  [%d points]\n", i+1, c, sizes[i])
			continue
		}
		fmt.Fprintf(w, "  Centroid %d: %s\n", i+1, c)
	}
}
