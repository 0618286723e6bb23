// Package plot renders TikZ/pgfplots bar charts from the aggregated datasets
// into the analysis results directory, one .tikz file plus a LaTeX wrapper
// per chart. Charts whose metric column is absent from the dataset are
// skipped.
package plot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"sniper-sweep/internal/aggregate"
	"sniper-sweep/internal/logging"
	"sniper-sweep/internal/plot/templates"
	"sniper-sweep/internal/report"
)

type chartSpec struct {
	Name    string
	Title   string
	YLabel  string
	Columns []string
	Legends []string
}

var perfCharts = []chartSpec{
	{
		Name:    "cycles_comparison",
		Title:   "Cycles by Architecture",
		YLabel:  "Cycles",
		Columns: []string{report.ColCycles},
	},
	{
		Name:    "ipc_comparison",
		Title:   "Instructions Per Cycle (IPC) by Architecture",
		YLabel:  "IPC",
		Columns: []string{report.ColIPC},
	},
	{
		Name:    "cache_miss_rates",
		Title:   "Cache Miss Rates by Architecture",
		YLabel:  "Miss Rate (\\%)",
		Columns: []string{report.ColL1DMissRate, report.ColL2MissRate, report.ColL3MissRate},
		Legends: []string{"L1-D Miss Rate", "L2 Miss Rate", "L3 Miss Rate"},
	},
}

var powerCharts = []chartSpec{
	{
		Name:    "power_total",
		Title:   "Total Power Consumption by Architecture",
		YLabel:  "Power (W)",
		Columns: []string{report.ColTotalPower},
	},
	{
		Name:    "power_breakdown",
		Title:   "Power Breakdown by Component",
		YLabel:  "Power (W)",
		Columns: []string{report.ColCorePower, report.ColCachePower, report.ColDRAMPower},
		Legends: []string{"Core Power", "Cache Power", "DRAM Power"},
	},
	{
		Name:    "energy_total",
		Title:   "Total Energy Consumption by Architecture",
		YLabel:  "Energy (J)",
		Columns: []string{report.ColTotalEnergy},
	},
}

// GenerateCharts renders every chart whose data is present, for both
// datasets, into <workspace>/analysis_results.
func GenerateCharts(workspace, sweepID string, result *aggregate.Result) error {
	outputDir := filepath.Join(workspace, aggregate.ResultsDirName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	if !result.Performance.Empty() {
		for _, spec := range perfCharts {
			if err := generateChart(outputDir, sweepID, result.Performance, spec); err != nil {
				return err
			}
		}
	}

	if !result.Power.Empty() {
		for _, spec := range powerCharts {
			if err := generateChart(outputDir, sweepID, result.Power, spec); err != nil {
				return err
			}
		}
	}

	return nil
}

func generateChart(outputDir, sweepID string, dataset *aggregate.Dataset, spec chartSpec) error {
	logger := logging.GetLogger()

	series := buildSeries(dataset, spec)
	if len(series) == 0 {
		logger.WithField("chart", spec.Name).Info("Chart data not available, skipping")
		return nil
	}

	generated := time.Now().Format("2006-01-02 15:04:05")

	chartData := &templates.BarChartData{
		GeneratedDate:  generated,
		SweepID:        sweepID,
		Name:           spec.Name,
		Title:          spec.Title,
		XLabel:         "Architecture",
		YLabel:         spec.YLabel,
		SymbolicCoords: strings.Join(architectures(dataset), ","),
		Legend:         len(spec.Legends) > 0,
		Series:         series,
	}

	chart, err := render("chart", templates.BarChartTemplate, chartData)
	if err != nil {
		return fmt.Errorf("failed to render chart %s: %w", spec.Name, err)
	}

	plotFileName := spec.Name + ".tikz"
	wrapperData := &templates.WrapperData{
		GeneratedDate: generated,
		SweepID:       sweepID,
		Name:          spec.Name,
		PlotFileName:  plotFileName,
		ShortCaption:  spec.Title,
		Caption:       fmt.Sprintf("%s over all explored configurations", spec.Title),
	}

	wrapper, err := render("wrapper", templates.WrapperTemplate, wrapperData)
	if err != nil {
		return fmt.Errorf("failed to render wrapper %s: %w", spec.Name, err)
	}

	plotPath := filepath.Join(outputDir, plotFileName)
	if err := os.WriteFile(plotPath, []byte(chart), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", plotPath, err)
	}
	logger.WithField("file", plotPath).Info("Chart saved")

	wrapperPath := filepath.Join(outputDir, spec.Name+"-wrapper.tex")
	if err := os.WriteFile(wrapperPath, []byte(wrapper), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", wrapperPath, err)
	}
	logger.WithField("file", wrapperPath).Info("Chart wrapper saved")

	return nil
}

// buildSeries collects one bar series per configured column, skipping columns
// absent from the dataset and rows missing the value.
func buildSeries(dataset *aggregate.Dataset, spec chartSpec) []templates.BarSeries {
	var series []templates.BarSeries
	for i, column := range spec.Columns {
		if !dataset.HasColumn(column) {
			continue
		}

		var coords []string
		for _, row := range dataset.Rows {
			if v, ok := row.Get(column); ok {
				coords = append(coords, fmt.Sprintf("(%s,%s)", texLabel(row.Architecture), strconv.FormatFloat(v, 'f', -1, 64)))
			}
		}
		if len(coords) == 0 {
			continue
		}

		legend := ""
		if len(spec.Legends) > i {
			legend = spec.Legends[i]
		}
		series = append(series, templates.BarSeries{
			LegendEntry: legend,
			Coordinates: coords,
		})
	}
	return series
}

func architectures(dataset *aggregate.Dataset) []string {
	seen := make(map[string]bool)
	var archs []string
	for _, row := range dataset.Rows {
		if !seen[row.Architecture] {
			seen[row.Architecture] = true
			archs = append(archs, texLabel(row.Architecture))
		}
	}
	return archs
}

var texSpecials = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"_", "\\_",
	"%", "\\%",
	"&", "\\&",
	"#", "\\#",
	"$", "\\$",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

// texLabel renders an architecture name as a LaTeX-safe symbolic coordinate.
// The same escaping is applied to the axis coordinate list and to every bar
// coordinate, so the names still match. A name containing a comma is
// brace-grouped to keep pgfplots from splitting it.
func texLabel(name string) string {
	escaped := texSpecials.Replace(name)
	if strings.Contains(escaped, ",") {
		return "{" + escaped + "}"
	}
	return escaped
}

func render(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
