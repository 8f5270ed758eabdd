package rds

// The scalar fields (PI, PTY, TP, TA, MS, ECC) share one shape: a sentinel
// "unknown" value until the first admitted observation, and a callback
// fired only when an admitted observation changes the held value. Ternary
// fields (TP/TA/MS) hold -1/0/1 rather than a separate bool-plus-known
// pair, mirroring the signed accessor types of the reference decoder.

type ternary int8

const ternaryUnknown ternary = -1

func ternaryOf(b bool) ternary {
	if b {
		return 1
	}
	return 0
}

func (t ternary) known() bool { return t != ternaryUnknown }
func (t ternary) bool() bool  { return t == 1 }

// setTernary stores b if it differs from the held value (or none is
// held yet), returning true iff the value changed.
func setTernary(cur *ternary, b bool) bool {
	n := ternaryOf(b)
	if *cur == n {
		return false
	}
	*cur = n
	return true
}
