package las

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	sectionMarker = "~"
	commentMarker = "#"

	sectionWell  = "WELL"
	sectionCurve = "CURVE"
	sectionASCII = "ASCII"

	maxLineBytes = 4 * 1024 * 1024
)

// parser carries the state of one parse. It is not shared between calls.
type parser struct {
	section string
	result  Result
}

// Parse converts LAS text into well metadata, curve definitions and data rows.
// It never fails; unparseable content yields partial or empty structures.
func Parse(text string) *Result {
	p := &parser{}
	for _, line := range strings.Split(text, "\n") {
		p.feed(line)
	}
	return p.finish()
}

// ParseReader is Parse over a stream. The only errors it returns come from reading r.
func ParseReader(r io.Reader) (*Result, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read LAS content: %w", err)
	}
	return p.finish(), nil
}

func (p *parser) finish() *Result {
	res := p.result
	return &res
}

// feed advances the state machine by one raw line.
func (p *parser) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, commentMarker) {
		return
	}

	if strings.HasPrefix(line, sectionMarker) {
		p.section = strings.ToUpper(line)
		return
	}

	if strings.Contains(p.section, sectionWell) {
		p.wellLine(line)
	}
	if strings.Contains(p.section, sectionCurve) {
		p.curveLine(line)
	}
	if strings.Contains(p.section, sectionASCII) {
		p.dataLine(line)
	}
}

// wellLine handles "MNEM.UNIT  VALUE : DESCRIPTION".
func (p *parser) wellLine(line string) {
	parts := strings.Fields(beforeColon(line))
	if len(parts) < 2 {
		return
	}

	mnemonic, _, _ := strings.Cut(parts[0], ".")
	value := parts[1]
	if value == "" {
		return
	}

	well := &p.result.Well
	switch mnemonic {
	case "WELL":
		name := value
		well.Name = &name
	case "STRT":
		well.StartDepth = metadataNumber(value)
	case "STOP":
		well.StopDepth = metadataNumber(value)
	case "STEP":
		well.Step = metadataNumber(value)
	}
}

// curveLine handles "MNEM  .UNIT : DESCRIPTION". The mnemonic is kept verbatim.
func (p *parser) curveLine(line string) {
	parts := strings.Fields(beforeColon(line))
	if len(parts) == 0 {
		return
	}

	unit := ""
	if len(parts) > 1 {
		unit = strings.ReplaceAll(parts[1], ".", "")
	}

	p.result.Curves = append(p.result.Curves, CurveDefinition{
		Name: parts[0],
		Unit: unit,
	})
}

// dataLine handles one row of the ~ASCII block.
func (p *parser) dataLine(line string) {
	tokens := strings.Fields(line)
	if len(tokens) != len(p.result.Curves) {
		p.result.DroppedRows++
		return
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		values[i] = parseNumber(tok)
	}

	p.result.Rows = append(p.result.Rows, LogRow{
		Depth:  values[0],
		Values: values,
	})
}

func beforeColon(line string) string {
	head, _, _ := strings.Cut(line, ":")
	return strings.TrimSpace(head)
}

// parseNumber returns NaN for anything that is not a decimal number.
func parseNumber(tok string) float64 {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// metadataNumber drops malformed or non-finite values so they surface as absent fields.
func metadataNumber(tok string) *float64 {
	v := parseNumber(tok)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
