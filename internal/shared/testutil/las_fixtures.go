package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleLAS is a small well-formed LAS file with one null reading and one malformed token.
const SampleLAS = `~Version Information
 VERS.                 2.0 : CWLS LOG ASCII STANDARD
 WRAP.                  NO : ONE LINE PER DEPTH STEP
~Well Information
 STRT.F             8665.0 : START DEPTH
 STOP.F             8669.0 : STOP DEPTH
 STEP.F                1.0 : STEP
 NULL.             -9999.0 : NULL VALUE
 WELL.            ALPHA-7 : WELL NAME
~Curve Information
 DEPT     .F              : DEPTH
 GR       .GAPI           : GAMMA RAY
 RT       .OHMM           : DEEP RESISTIVITY
~ASCII
8665.0  45.2  12.1
8666.0  47.9  -9999
8667.0  51.3  11.4
8668.0  abc   10.9
8669.0  49.0  12.6
`

// SampleWellName is the WELL value in SampleLAS.
const SampleWellName = "ALPHA-7"

// BuildLAS renders a minimal LAS document with a DEPT curve followed by the given curves,
// all with unit UNIT.
// Each row is depth first, then one value per curve.
func BuildLAS(well string, curves []string, rows [][]float64) string {
	var b strings.Builder
	b.WriteString("~Well Information\n")
	fmt.Fprintf(&b, " WELL. %s : WELL NAME\n", well)
	if len(rows) > 0 {
		fmt.Fprintf(&b, " STRT.M %g : START\n", rows[0][0])
		fmt.Fprintf(&b, " STOP.M %g : STOP\n", rows[len(rows)-1][0])
	}
	b.WriteString("~Curve Information\n DEPT .M : DEPTH\n")
	for _, c := range curves {
		fmt.Fprintf(&b, " %s .UNIT : %s\n", c, c)
	}
	b.WriteString("~ASCII\n")
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = fmt.Sprintf("%g", v)
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteLASFile writes content into dir/name and returns the path.
func WriteLASFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write LAS fixture: %v", err)
	}
	return path
}
