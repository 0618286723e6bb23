package aggregate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sniper-sweep/internal/report"
)

func writeReport(t *testing.T, workspace, relPath, content string) {
	t.Helper()
	path := filepath.Join(workspace, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindReports_RecursiveSortedDeduplicated(t *testing.T) {
	workspace := t.TempDir()
	writeReport(t, workspace, "configuration_2/sim.out", "Cycles | 2\n")
	writeReport(t, workspace, "configuration_1/sim.out", "Cycles | 1\n")
	writeReport(t, workspace, "configuration_1/nested/sim(deep).out", "Cycles | 3\n")
	writeReport(t, workspace, "configuration_1/notes.txt", "not a report\n")
	writeReport(t, workspace, "configuration_1/powerstack.txt", "total 1.0 W\n")

	perfFiles, err := FindPerformanceReports(workspace)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(workspace, "configuration_1", "nested", "sim(deep).out"),
		filepath.Join(workspace, "configuration_1", "sim.out"),
		filepath.Join(workspace, "configuration_2", "sim.out"),
	}
	if len(perfFiles) != len(want) {
		t.Fatalf("found %d files, want %d: %v", len(perfFiles), len(want), perfFiles)
	}
	for i := range want {
		if perfFiles[i] != want[i] {
			t.Fatalf("file %d = %q, want %q", i, perfFiles[i], want[i])
		}
	}

	powerFiles, err := FindPowerReports(workspace)
	if err != nil {
		t.Fatal(err)
	}
	if len(powerFiles) != 1 {
		t.Fatalf("found %d power files, want 1", len(powerFiles))
	}
}

func TestAnalyze_CorrelatedIdentities(t *testing.T) {
	workspace := t.TempDir()
	writeReport(t, workspace, "configuration_1/sim.out", "Cycles | 100\nIPC | 1.5\n")
	writeReport(t, workspace, "configuration_1/powerstack.txt", "total 10.0 W 20.0 J\n")
	writeReport(t, workspace, "configuration_2/sim.out", "Cycles | 200\n")
	writeReport(t, workspace, "configuration_2/powerstack.txt", "total 12.0 W 24.0 J\n")

	result, err := Analyze(workspace)
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasData() {
		t.Fatal("expected data")
	}
	if len(result.Performance.Rows) != 2 || len(result.Power.Rows) != 2 {
		t.Fatalf("rows: perf=%d power=%d", len(result.Performance.Rows), len(result.Power.Rows))
	}
	for i := range result.Performance.Rows {
		perf := result.Performance.Rows[i].Architecture
		power := result.Power.Rows[i].Architecture
		if perf != power {
			t.Fatalf("row %d identity mismatch: perf=%q power=%q", i, perf, power)
		}
	}

	if v, ok := result.Performance.Rows[1].Get(report.ColCycles); !ok || v != 200 {
		t.Fatalf("configuration_2 Cycles = %v, present=%v", v, ok)
	}
	if _, ok := result.Performance.Rows[1].Get(report.ColIPC); ok {
		t.Fatal("configuration_2 has no IPC, must stay absent")
	}
}

func TestAnalyze_EmptyWorkspaceIsNotAnError(t *testing.T) {
	result, err := Analyze(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if result.HasData() {
		t.Fatal("expected no data")
	}
	if !result.Performance.Empty() || !result.Power.Empty() {
		t.Fatal("expected both datasets empty")
	}
}

func TestDataset_ColumnUnionFirstSeenOrder(t *testing.T) {
	d := NewDataset("performance")

	a := report.NewRecord("a", "a/sim.out")
	a.Set("Cycles", 1)
	a.Set("IPC", 0.5)
	d.Append(a)

	b := report.NewRecord("b", "b/sim.out")
	b.Set("IPC", 0.7)
	b.Set("L2 Miss Rate (%)", 3)
	d.Append(b)

	cols := d.MetricColumns()
	want := []string{"Cycles", "IPC", "L2 Miss Rate (%)"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v", cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}

	values := d.Column("Cycles")
	if len(values) != 1 || values[0] != 1 {
		t.Fatalf("Cycles column = %v, absent cells must be skipped", values)
	}
}

func TestExport_CSVContentAndAbsentCells(t *testing.T) {
	workspace := t.TempDir()
	writeReport(t, workspace, "configuration_1/sim.out", "Cycles | 100\nIPC | 1.5\n")
	writeReport(t, workspace, "configuration_2/sim.out", "Cycles | 200\n")

	result, err := Analyze(workspace)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(workspace, result); err != nil {
		t.Fatal(err)
	}

	csvPath := filepath.Join(workspace, ResultsDirName, "metrics_summary.csv")
	content, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), content)
	}
	if lines[0] != "Architecture,File Path,Cycles,IPC" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",100,1.5") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	// Absent IPC is an empty cell, never zero.
	if !strings.HasSuffix(lines[2], ",200,") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestExport_TextTableRendersAbsentAsNaN(t *testing.T) {
	workspace := t.TempDir()
	writeReport(t, workspace, "configuration_1/powerstack.txt", "total 10.5 W 21.0 J\n")
	writeReport(t, workspace, "configuration_2/powerstack.txt", "  core 4.2 W\n")

	result, err := Analyze(workspace)
	if err != nil {
		t.Fatal(err)
	}
	if err := Export(workspace, result); err != nil {
		t.Fatal(err)
	}

	txtPath := filepath.Join(workspace, ResultsDirName, "power_summary.txt")
	content, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "POWER METRICS SUMMARY") {
		t.Fatalf("missing title:\n%s", text)
	}
	if !strings.Contains(text, strings.Repeat("=", 80)) {
		t.Fatalf("missing banner:\n%s", text)
	}
	if !strings.Contains(text, "NaN") {
		t.Fatalf("absent metrics must render as NaN:\n%s", text)
	}
	if strings.Contains(text, "File Path") {
		t.Fatalf("text rendering must drop the file path column:\n%s", text)
	}
}

func TestExport_Idempotent(t *testing.T) {
	workspace := t.TempDir()
	writeReport(t, workspace, "configuration_1/sim.out", "Cycles | 100\n")
	writeReport(t, workspace, "configuration_2/sim.out", "Cycles | 200\nIPC | 0.9\n")

	read := func() (string, string) {
		result, err := Analyze(workspace)
		if err != nil {
			t.Fatal(err)
		}
		if err := Export(workspace, result); err != nil {
			t.Fatal(err)
		}
		csvContent, err := os.ReadFile(filepath.Join(workspace, ResultsDirName, "metrics_summary.csv"))
		if err != nil {
			t.Fatal(err)
		}
		txtContent, err := os.ReadFile(filepath.Join(workspace, ResultsDirName, "metrics_summary.txt"))
		if err != nil {
			t.Fatal(err)
		}
		return string(csvContent), string(txtContent)
	}

	csv1, txt1 := read()
	csv2, txt2 := read()
	if csv1 != csv2 {
		t.Fatal("CSV export changed between identical passes")
	}
	if txt1 != txt2 {
		t.Fatal("text export changed between identical passes")
	}
}

func TestDescribe_Statistics(t *testing.T) {
	d := NewDataset("performance")
	for _, v := range []float64{1, 2, 3, 4} {
		r := report.NewRecord("a", "p")
		r.Set("IPC", v)
		d.Append(r)
	}

	table := Describe(d)
	tests := []struct {
		stat string
		want string
	}{
		{"count", "4"},
		{"mean", "2.500000"},
		{"std", "1.290994"},
		{"min", "1.000000"},
		{"25%", "1.750000"},
		{"50%", "2.500000"},
		{"75%", "3.250000"},
		{"max", "4.000000"},
	}
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != len(statRows)+1 {
		t.Fatalf("expected %d lines, got %d:\n%s", len(statRows)+1, len(lines), table)
	}
	for _, tt := range tests {
		found := false
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) == 2 && fields[0] == tt.stat && fields[1] == tt.want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("stat %s: expected value %s in table:\n%s", tt.stat, tt.want, table)
		}
	}
}

func TestDescribe_SingleValueStdIsNaN(t *testing.T) {
	d := NewDataset("power")
	r := report.NewRecord("a", "p")
	r.Set("Total Power (W)", 5)
	d.Append(r)

	table := Describe(d)
	if !strings.Contains(table, "NaN") {
		t.Fatalf("sample std of one observation must be NaN:\n%s", table)
	}
}

func TestDescribe_EmptyDataset(t *testing.T) {
	if table := Describe(NewDataset("performance")); table != "" {
		t.Fatalf("expected empty table, got %q", table)
	}
}
