package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sniper-sweep/internal/logging"
)

// ResultsDirName is the directory under the workspace root that receives all
// exported tables and charts.
const ResultsDirName = "analysis_results"

const bannerWidth = 80

// Export writes the CSV and text renderings of both datasets into the
// analysis_results directory and prints the text tables. Empty datasets are
// skipped. Output is byte-identical across repeated passes over an unchanged
// tree.
func Export(workspace string, result *Result) error {
	logger := logging.GetLogger()

	outputDir := filepath.Join(workspace, ResultsDirName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	if !result.Performance.Empty() {
		if err := exportDataset(outputDir, result.Performance, "SIMULATION METRICS SUMMARY", "metrics_summary"); err != nil {
			return err
		}
	}

	if !result.Power.Empty() {
		if err := exportDataset(outputDir, result.Power, "POWER METRICS SUMMARY", "power_summary"); err != nil {
			return err
		}
	}

	logger.WithField("dir", outputDir).Info("Results exported")
	return nil
}

func exportDataset(outputDir string, dataset *Dataset, title, baseName string) error {
	logger := logging.GetLogger()

	rendered := renderSummary(dataset, title)
	fmt.Print(rendered)

	csvPath := filepath.Join(outputDir, baseName+".csv")
	if err := writeCSV(csvPath, dataset); err != nil {
		return fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	logger.WithField("file", csvPath).Info("Summary table saved")

	txtPath := filepath.Join(outputDir, baseName+".txt")
	if err := os.WriteFile(txtPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", txtPath, err)
	}
	logger.WithField("file", txtPath).Info("Summary table saved")

	return nil
}

// writeCSV exports the dataset with identity columns first and the metric
// union after, one row per record. Absent metrics become empty cells.
func writeCSV(path string, dataset *Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{"Architecture", "File Path"}, dataset.MetricColumns()...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range dataset.Rows {
		record := []string{row.Architecture, row.Path}
		for _, column := range dataset.MetricColumns() {
			if v, ok := row.Get(column); ok {
				record = append(record, formatValue(v))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// renderSummary produces the banner-framed fixed-width text table. The file
// path column is dropped from the human-readable rendering; absent metrics
// show as NaN.
func renderSummary(dataset *Dataset, title string) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	b.WriteString(title + "\n")
	b.WriteString(banner + "\n")
	b.WriteString(renderTable(dataset))
	b.WriteString(banner + "\n")
	return b.String()
}

func renderTable(dataset *Dataset) string {
	headers := append([]string{"Architecture"}, dataset.MetricColumns()...)

	rows := make([][]string, 0, len(dataset.Rows))
	for _, record := range dataset.Rows {
		cells := []string{record.Architecture}
		for _, column := range dataset.MetricColumns() {
			if v, ok := record.Get(column); ok {
				cells = append(cells, formatValue(v))
			} else {
				cells = append(cells, "NaN")
			}
		}
		rows = append(rows, cells)
	}

	return renderAligned(headers, rows)
}

// renderAligned right-aligns every column to its widest cell, pandas-style.
func renderAligned(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// formatValue renders a metric with the shortest exact decimal form, so
// integer-valued metrics ("Cycles") print without a fraction.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
