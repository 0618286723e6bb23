package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var statRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe renders per-column descriptive statistics over the dataset's
// metric columns, one statistic per row. Absent cells do not contribute to a
// column's statistics; a column present on no row is skipped entirely.
func Describe(dataset *Dataset) string {
	var columns []string
	for _, column := range dataset.MetricColumns() {
		if len(dataset.Column(column)) > 0 {
			columns = append(columns, column)
		}
	}
	if len(columns) == 0 {
		return ""
	}

	headers := append([]string{""}, columns...)
	rows := make([][]string, 0, len(statRows))
	for _, stat := range statRows {
		cells := []string{stat}
		for _, column := range columns {
			values := dataset.Column(column)
			cells = append(cells, formatStat(stat, values))
		}
		rows = append(rows, cells)
	}

	return renderAligned(headers, rows)
}

// PrintStatistics writes the statistical summaries of both datasets to
// stdout, banner-framed the same way as the summary tables.
func PrintStatistics(result *Result) {
	banner := strings.Repeat("=", bannerWidth)

	if !result.Performance.Empty() {
		if table := Describe(result.Performance); table != "" {
			fmt.Println(banner)
			fmt.Println("SIMULATION METRICS - STATISTICAL SUMMARY")
			fmt.Println(banner)
			fmt.Print(table)
			fmt.Println(banner)
		}
	}

	if !result.Power.Empty() {
		if table := Describe(result.Power); table != "" {
			fmt.Println(banner)
			fmt.Println("POWER METRICS - STATISTICAL SUMMARY")
			fmt.Println(banner)
			fmt.Print(table)
			fmt.Println(banner)
		}
	}
}

func formatStat(stat string, values []float64) string {
	switch stat {
	case "count":
		return strconv.Itoa(len(values))
	case "mean":
		return formatFloat(mean(values))
	case "std":
		return formatFloat(stddev(values))
	case "min":
		return formatFloat(minimum(values))
	case "max":
		return formatFloat(maximum(values))
	case "25%":
		return formatFloat(quantile(values, 0.25))
	case "50%":
		return formatFloat(quantile(values, 0.50))
	case "75%":
		return formatFloat(quantile(values, 0.75))
	}
	return ""
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation; a single observation has none.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minimum(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maximum(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// quantile interpolates linearly between order statistics, matching the
// convention of the tables this aggregator replaces.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
