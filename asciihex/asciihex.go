// Package asciihex parses the line-oriented ASCII-hex framing used by
// external RDS demodulators: one group per line, "AAAABBBBCCCCDDDD"
// or "AAAABBBBCCCCDDDDEE" with a trailing packed error byte. It is a
// thin wrapper around the same decoding rds.Parser
// uses internally for ParseString, kept as its own package so callers
// that only need the wire format (e.g. serialsource, or a consumer
// piping lines to a remote decoder) don't need to pull in a Parser.
package asciihex

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fmrds/rds"
)

// Decode parses a single line into a Group/Errors pair. See rds.DecodeLine
// for the exact wire format.
func Decode(line string) (rds.Group, rds.Errors, bool) {
	return rds.DecodeLine(strings.TrimSpace(line))
}

// Line is one decoded wire line, paired with its 1-based source line
// number for diagnostics.
type Line struct {
	Num    int
	Group  rds.Group
	Errors rds.Errors
}

// ScanLines reads newline-delimited hex lines from r, calling fn for
// each successfully decoded line. Blank lines are skipped silently;
// malformed non-blank lines are reported via onError (if non-nil) but
// do not stop the scan. Returns the first read error from the scanner,
// if any.
func ScanLines(r io.Reader, fn func(Line), onError func(lineNum int, raw string)) error {
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		g, e, ok := Decode(raw)
		if !ok {
			if onError != nil {
				onError(num, raw)
			}
			continue
		}
		fn(Line{Num: num, Group: g, Errors: e})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("asciihex: scanning input: %w", err)
	}
	return nil
}
