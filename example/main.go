// This example program decodes a file of ASCII-hex RDS group lines and
// prints each field as it's decoded, until the file is exhausted.
package main

import (
	"fmt"
	"os"

	"fmrds/asciihex"
	"fmrds/rds"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <hexlines-file>\n", os.Args[0])
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer f.Close()

	parser := rds.New()

	parser.OnPI(func(pi uint16) { fmt.Printf("PI:  0x%04X\n", pi) })
	parser.OnPTY(func(pty uint8) { fmt.Printf("PTY: %d\n", pty) })
	parser.OnTP(func(tp bool) { fmt.Printf("TP:  %t\n", tp) })
	parser.OnTA(func(ta bool) { fmt.Printf("TA:  %t\n", ta) })
	parser.OnMS(func(ms bool) { fmt.Printf("MS:  %t\n", ms) })
	parser.OnECC(func(ecc uint8) { fmt.Printf("ECC: 0x%02X\n", ecc) })
	parser.OnAF(func(af uint8) { fmt.Printf("AF:  %d\n", af) })
	parser.OnPS(func(ps string, _ []rds.StringErrorLevel) { fmt.Printf("PS:  %q\n", ps) })
	parser.OnRT(func(rt string, _ []rds.StringErrorLevel, flag rds.RTFlag) {
		fmt.Printf("RT%d: %q\n", flag, rt)
	})

	err = asciihex.ScanLines(f, func(line asciihex.Line) {
		parser.Parse(line.Group, line.Errors)
	}, func(lineNum int, raw string) {
		fmt.Fprintf(os.Stderr, "line %d: malformed: %q\n", lineNum, raw)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
