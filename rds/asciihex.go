package rds

import "strconv"

// DecodeLine parses the "AAAABBBBCCCCDDDD[EE]" ASCII-hex wire line: 16
// hex digits give the four 16-bit blocks, an optional trailing byte
// packs the four 2-bit block-error levels as (eA<<6)|(eB<<4)|(eC<<2)|eD.
// A missing error byte means all blocks are errorless. Hex letters are
// accepted case-insensitively; a malformed line reports ok=false and
// leaves data and errs unspecified.
func DecodeLine(line string) (g Group, errs Errors, ok bool) {
	switch len(line) {
	case 16:
		a, okA := parseBlock(line[0:4])
		b, okB := parseBlock(line[4:8])
		c, okC := parseBlock(line[8:12])
		d, okD := parseBlock(line[12:16])
		if !(okA && okB && okC && okD) {
			return Group{}, Errors{}, false
		}
		return Group{A: a, B: b, C: c, D: d}, Errors{}, true

	case 18:
		a, okA := parseBlock(line[0:4])
		b, okB := parseBlock(line[4:8])
		c, okC := parseBlock(line[8:12])
		d, okD := parseBlock(line[12:16])
		eb, okE := parseByte(line[16:18])
		if !(okA && okB && okC && okD && okE) {
			return Group{}, Errors{}, false
		}
		return Group{A: a, B: b, C: c, D: d}, Errors{
			A: BlockError(eb>>6) & 0x3,
			B: BlockError(eb>>4) & 0x3,
			C: BlockError(eb>>2) & 0x3,
			D: BlockError(eb) & 0x3,
		}, true

	default:
		return Group{}, Errors{}, false
	}
}

func parseBlock(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err == nil
}

func parseByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	return uint8(v), err == nil
}
