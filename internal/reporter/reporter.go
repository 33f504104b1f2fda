// Package reporter renders a discard plan for the user.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erkanisik1/Pisilinux-tools/internal/retention"
	"github.com/erkanisik1/Pisilinux-tools/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat maps a --output flag value to an OutputFormat, defaulting
// to the summary view.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "table":
		return FormatTable
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	default:
		return FormatSummary
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the discard plan in the reporter's format.
func (r *Reporter) Report(plan *retention.Plan) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(plan)
	case FormatJSON:
		return r.reportJSON(plan)
	case FormatYAML:
		return r.reportYAML(plan)
	case FormatSummary:
		return r.reportSummary(plan)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(plan *retention.Plan) error {
	fmt.Fprintf(r.writer, "=== Repository Cleanup Plan ===\n")
	fmt.Fprintf(r.writer, "Packages: %d\n", len(plan.Groups))
	fmt.Fprintf(r.writer, "Versions kept: %d (newest %d per package)\n", plan.KeptCount, plan.Keep)
	fmt.Fprintf(r.writer, "Redundant archives: %d (%s)\n", len(plan.Discard), utils.FormatBytes(plan.DiscardSize))

	if plan.Empty() {
		return nil
	}

	fmt.Fprintf(r.writer, "\nBreakdown by package:\n")
	for _, g := range plan.Groups {
		if len(g.Discard) == 0 {
			continue
		}
		fmt.Fprintf(r.writer, "  %s: keep %d, discard %d\n",
			g.Name, len(g.Kept), len(g.Discard))
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(plan *retention.Plan) error {
	fmt.Fprintf(r.writer, "%-30s | %-20s | %-8s | %-10s | %s\n",
		"Package", "Version", "Arch", "Size", "Path")

	for _, g := range plan.Groups {
		for _, e := range g.Discard {
			fmt.Fprintf(r.writer, "%-30s | %-20s | %-8s | %-10s | %s\n",
				e.Name,
				e.Comparable.String(),
				e.Arch,
				utils.FormatBytes(e.Size),
				e.Path())
		}
	}

	fmt.Fprintf(r.writer, "\nTotal: %d redundant archives, %s\n",
		len(plan.Discard), utils.FormatBytes(plan.DiscardSize))

	return nil
}

// planReport is the serialized report shape shared by JSON and YAML.
type planReport struct {
	Timestamp          string        `json:"timestamp" yaml:"timestamp"`
	KeepCount          int           `json:"keep_count" yaml:"keep_count"`
	Packages           int           `json:"packages" yaml:"packages"`
	KeptVersions       int           `json:"kept_versions" yaml:"kept_versions"`
	RedundantArchives  int           `json:"redundant_archives" yaml:"redundant_archives"`
	ReclaimableSize    int64         `json:"reclaimable_size" yaml:"reclaimable_size"`
	ReclaimableSizeFmt string        `json:"reclaimable_size_formatted" yaml:"reclaimable_size_formatted"`
	Discard            []discardItem `json:"discard" yaml:"discard"`
}

type discardItem struct {
	Package string `json:"package" yaml:"package"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
	Build   string `json:"build" yaml:"build"`
	Arch    string `json:"arch" yaml:"arch"`
	Path    string `json:"path" yaml:"path"`
	Size    int64  `json:"size" yaml:"size"`
}

func buildPlanReport(plan *retention.Plan) planReport {
	report := planReport{
		Timestamp:          time.Now().Format(time.RFC3339),
		KeepCount:          plan.Keep,
		Packages:           len(plan.Groups),
		KeptVersions:       plan.KeptCount,
		RedundantArchives:  len(plan.Discard),
		ReclaimableSize:    plan.DiscardSize,
		ReclaimableSizeFmt: utils.FormatBytes(plan.DiscardSize),
		Discard:            []discardItem{},
	}
	for _, e := range plan.Discard {
		report.Discard = append(report.Discard, discardItem{
			Package: e.Name,
			Version: e.Comparable.String(),
			Release: e.Release,
			Build:   e.Build,
			Arch:    e.Arch,
			Path:    e.Path(),
			Size:    e.Size,
		})
	}
	return report
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(plan *retention.Plan) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildPlanReport(plan))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(plan *retention.Plan) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildPlanReport(plan))
}

// SaveToFile saves the report to a file
func SaveToFile(plan *retention.Plan, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return New(file, format).Report(plan)
}
