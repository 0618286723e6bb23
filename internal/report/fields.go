package report

import "regexp"

// Performance report columns.
const (
	ColCycles      = "Cycles"
	ColIPC         = "IPC"
	ColL1DMissRate = "L1-D Miss Rate (%)"
	ColL2MissRate  = "L2 Miss Rate (%)"
	ColL3MissRate  = "L3 Miss Rate (%)"
)

// Power report columns. Energy is parsed and carried in Joules throughout.
const (
	ColTotalPower  = "Total Power (W)"
	ColTotalEnergy = "Total Energy (J)"
	ColCorePower   = "Core Power (W)"
	ColCachePower  = "Cache Power (W)"
	ColDRAMPower   = "DRAM Power (W)"
)

// Field binds a dataset column to the pattern extracting it from report text.
// The first capture group is the numeric value. Fields are evaluated
// independently: an unmatched pattern leaves the column absent.
type Field struct {
	Column  string
	Pattern *regexp.Regexp
}

// The report format is not a formal grammar; each field is located by pattern
// search over the whole text. The miss-rate patterns span from the cache
// section label to its "miss rate" row non-greedily across lines, since the
// report interleaves arbitrary rows between the two.
var perfFields = []Field{
	{ColCycles, regexp.MustCompile(`Cycles\s*\|\s*(\d+)`)},
	{ColIPC, regexp.MustCompile(`IPC\s*\|\s*([\d.]+)`)},
	{ColL1DMissRate, regexp.MustCompile(`(?s)Cache L1-D\s*\|.*?miss rate\s*\|\s*([\d.]+)%`)},
	{ColL2MissRate, regexp.MustCompile(`(?s)Cache L2\s*\|.*?miss rate\s*\|\s*([\d.]+)%`)},
	{ColL3MissRate, regexp.MustCompile(`(?s)Cache L3\s*\|.*?miss rate\s*\|\s*([\d.]+)%`)},
}

var powerFields = []Field{
	{ColTotalPower, regexp.MustCompile(`total\s+([\d.]+)\s*W`)},
	{ColTotalEnergy, regexp.MustCompile(`total\s+[\d.]+\s*W\s+([\d.]+)\s*J`)},
	{ColCorePower, regexp.MustCompile(`(?m)^\s*core\s+([\d.]+)\s*W`)},
	{ColCachePower, regexp.MustCompile(`(?m)^\s*cache\s+([\d.]+)\s*W`)},
	{ColDRAMPower, regexp.MustCompile(`(?m)^\s*dram\s+([\d.]+)\s*W`)},
}
