package rds

// Text names one of the two destination texts that carry a configurable
// admission threshold: PS (the 8-character station name) or RT (either
// of the two 64-character RadioText buffers).
type Text uint8

const (
	TextPS Text = iota
	TextRT
	textCount
)

const (
	psLength = 8
	rtLength = 64
)

// Parser is the decode engine's context: it holds the current scalar
// fields, AF bitmap, PS and RT reconstructions, per-text configuration,
// and the registered callbacks. A zero Parser is not ready for use;
// call Init or use New.
type Parser struct {
	pi  int32
	pty ternary8
	tp  ternary
	ta  ternary
	ms  ternary
	ecc int16

	af afTracker
	ps *ReconstructedString
	rt [2]*ReconstructedString

	lastRTFlag ternary

	correction  [textCount][2]BlockError
	progressive [textCount]bool

	onPI  func(uint16)
	onPTY func(uint8)
	onTP  func(bool)
	onTA  func(bool)
	onMS  func(bool)
	onECC func(uint8)
	onAF  func(uint8)
	onPS  func(string, []StringErrorLevel)
	onRT  func(string, []StringErrorLevel, RTFlag)

	dispatching bool
}

// ternary8 behaves like ternary but widens to carry an 8-bit payload
// (PTY's 0-31 code) alongside its "known" bit, so a pty value of 0 is
// distinguishable from "no PTY observed yet".
type ternary8 struct {
	value uint8
	known bool
}

// New returns a ready-to-use Parser.
func New() *Parser {
	p := &Parser{}
	p.Init()
	return p
}

// Init (re)allocates the PS/RT buffers and resets all state, as if the
// Parser were newly constructed. Safe to call once on a zero Parser.
func (p *Parser) Init() {
	*p = Parser{}
	p.ps = newReconstructedString(psLength, false)
	p.rt[RTFlagA] = newReconstructedString(rtLength, true)
	p.rt[RTFlagB] = newReconstructedString(rtLength, true)
	p.Clear()
}

// Clear resets all decoded state (scalars, AF, PS, RT) back to unknown
// without touching configuration (correction thresholds, progressive
// flags) or registered callbacks. Returns false if called re-entrantly
// from within a callback.
func (p *Parser) Clear() bool {
	if !p.enter() {
		return false
	}
	defer p.exit()

	p.pi = -1
	p.pty = ternary8{}
	p.tp = ternaryUnknown
	p.ta = ternaryUnknown
	p.ms = ternaryUnknown
	p.ecc = -1
	p.af.clear()
	p.ps.clear()
	p.rt[RTFlagA].clear()
	p.rt[RTFlagB].clear()
	p.lastRTFlag = ternaryUnknown
	return true
}

func (p *Parser) enter() bool {
	if p.dispatching {
		return false
	}
	p.dispatching = true
	return true
}

func (p *Parser) exit() { p.dispatching = false }

// Accessors. Scalars use the sentinel conventions of the reference
// decoder: -1 means "not yet observed".

func (p *Parser) PI() int32 {
	return p.pi
}

func (p *Parser) PTY() int8 {
	if !p.pty.known {
		return -1
	}
	return int8(p.pty.value)
}

func (p *Parser) TP() int8 { return int8(p.tp) }
func (p *Parser) TA() int8 { return int8(p.ta) }
func (p *Parser) MS() int8 { return int8(p.ms) }
func (p *Parser) ECC() int16 {
	return p.ecc
}

// AF returns a copy of the 208-bit alternative-frequency bitmap.
func (p *Parser) AF() [AFBufferSize]byte {
	return p.af.bitmapCopy()
}

// PS returns the reconstructed station name.
func (p *Parser) PS() *ReconstructedString {
	return p.ps
}

// RT returns one of the two reconstructed RadioText buffers.
func (p *Parser) RT(flag RTFlag) *ReconstructedString {
	return p.rt[flag]
}

// SetTextCorrection sets the maximum block-error level admitted for the
// given destination text and block role. The value is clamped below
// UNCORRECTABLE: a block classified UNCORRECTABLE is never admitted,
// regardless of configuration.
func (p *Parser) SetTextCorrection(text Text, bt BlockType, e BlockError) {
	const maxErr = ErrorUncorrectable - 1
	if e > maxErr {
		e = maxErr
	}
	p.correction[text][bt] = e
}

func (p *Parser) GetTextCorrection(text Text, bt BlockType) BlockError {
	return p.correction[text][bt]
}

func (p *Parser) SetTextProgressive(text Text, state bool) {
	p.progressive[text] = state
	switch text {
	case TextPS:
		p.ps.SetProgressive(state)
	case TextRT:
		p.rt[RTFlagA].SetProgressive(state)
		p.rt[RTFlagB].SetProgressive(state)
	}
}

func (p *Parser) GetTextProgressive(text Text) bool {
	return p.progressive[text]
}

// Callback registration. Each returns false if called re-entrantly from
// within a dispatched callback.

func (p *Parser) OnPI(cb func(uint16)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onPI = cb
	return true
}

func (p *Parser) OnPTY(cb func(uint8)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onPTY = cb
	return true
}

func (p *Parser) OnTP(cb func(bool)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onTP = cb
	return true
}

func (p *Parser) OnTA(cb func(bool)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onTA = cb
	return true
}

func (p *Parser) OnMS(cb func(bool)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onMS = cb
	return true
}

func (p *Parser) OnECC(cb func(uint8)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onECC = cb
	return true
}

func (p *Parser) OnAF(cb func(uint8)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onAF = cb
	return true
}

func (p *Parser) OnPS(cb func(string, []StringErrorLevel)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onPS = cb
	return true
}

func (p *Parser) OnRT(cb func(string, []StringErrorLevel, RTFlag)) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()
	p.onRT = cb
	return true
}

// Parse routes one decoded group through the engine, updating scalar
// fields, the AF bitmap and the PS/RT reconstructions and firing any
// callbacks whose value changed. Returns false if called re-entrantly
// from within a callback already being dispatched.
func (p *Parser) Parse(g Group, e Errors) bool {
	if !p.enter() {
		return false
	}
	defer p.exit()

	var fire []func()
	fire = p.route(g, e, fire)
	for _, cb := range fire {
		cb()
	}
	return true
}

// route applies the frame-routing rules and appends any callbacks that
// should fire to fire, in dispatch order: scalars (PI, PTY, TP, TA, MS,
// ECC), then AF, then PS, then RT.
func (p *Parser) route(g Group, e Errors, fire []func()) []func() {
	// A block classified UNCORRECTABLE on either of the two blocks that
	// carry routing information (PI/group-type in A/B) makes the whole
	// group untrustworthy.
	if e.A == ErrorUncorrectable || e.B == ErrorUncorrectable {
		return fire
	}

	if e.A <= ErrorNone {
		newPI := pi(g)
		if p.pi == -1 || uint16(p.pi) != newPI {
			p.pi = int32(newPI)
			if cb := p.onPI; cb != nil {
				fire = append(fire, func() { cb(newPI) })
			}
		}
	}

	gt := groupType(g)
	ver := version(g)

	if e.B <= ErrorNone {
		newPTY := pty(g)
		if !p.pty.known || p.pty.value != newPTY {
			p.pty = ternary8{value: newPTY, known: true}
			if cb := p.onPTY; cb != nil {
				fire = append(fire, func() { cb(newPTY) })
			}
		}

		newTP := tp(g)
		if setTernary(&p.tp, newTP) {
			if cb := p.onTP; cb != nil {
				fire = append(fire, func() { cb(newTP) })
			}
		}
	}

	switch {
	case gt == 0:
		fire = p.routeGroup0(g, e, ver, fire)
	case gt == 1 && ver == 0:
		fire = p.routeGroup1A(g, e, fire)
	case gt == 2:
		fire = p.routeGroup2(g, e, ver, fire)
	}

	return fire
}

func (p *Parser) routeGroup0(g Group, e Errors, ver uint8, fire []func()) []func() {
	if e.B <= ErrorNone {
		newTA := group0TA(g)
		if setTernary(&p.ta, newTA) {
			if cb := p.onTA; cb != nil {
				fire = append(fire, func() { cb(newTA) })
			}
		}

		newMS := group0MS(g)
		if setTernary(&p.ms, newMS) {
			if cb := p.onMS; cb != nil {
				fire = append(fire, func() { cb(newMS) })
			}
		}
	}

	// AF is a fixed-threshold field (no configurable correction): it
	// requires both the info block (B, carrying group type/version) and
	// the AF-bearing block (C) to be clean.
	if ver == 0 && e.B <= ErrorNone && e.C <= ErrorNone {
		for _, b := range [2]uint8{group0AF1(g), group0AF2(g)} {
			if code, ok := p.af.observe(b); ok {
				if cb := p.onAF; cb != nil {
					c := code
					fire = append(fire, func() { cb(c) })
				}
			}
		}
	}

	infoErr := e.B
	dataErr := e.D
	if infoErr <= p.correction[TextPS][BlockTypeInfo] && dataErr <= p.correction[TextPS][BlockTypeData] {
		chars := group0PSChars(g)
		pos := int(group0PSPos(g)) * 2
		se := stringError(dataErr)
		p.ps.acceptSegment(pos, chars[:], se)
		if content, errs, ok := p.ps.publish(); ok {
			if cb := p.onPS; cb != nil {
				fire = append(fire, func() { cb(content, errs) })
			}
		}
	}

	return fire
}

func (p *Parser) routeGroup1A(g Group, e Errors, fire []func()) []func() {
	if e.B <= ErrorNone && e.C <= ErrorNone {
		if ecc, ok := group1AECC(g); ok {
			if p.ecc == -1 || uint8(p.ecc) != ecc {
				p.ecc = int16(ecc)
				if cb := p.onECC; cb != nil {
					fire = append(fire, func() { cb(ecc) })
				}
			}
		}
	}
	return fire
}

func (p *Parser) routeGroup2(g Group, e Errors, ver uint8, fire []func()) []func() {
	var infoErr, dataErr BlockError
	var pos int
	var chars []byte

	flag := group2RTFlag(g)
	if ver == 0 {
		infoErr = e.B
		dataErr = max(e.C, e.D)
		pos = int(group2RTPos(g)) * 4
		c := group2AChars(g)
		chars = c[:]
	} else {
		infoErr = e.B
		dataErr = e.D
		pos = int(group2RTPos(g)) * 2
		c := group2BChars(g)
		chars = c[:]
	}

	if infoErr > p.correction[TextRT][BlockTypeInfo] || dataErr > p.correction[TextRT][BlockTypeData] {
		return fire
	}

	// Toggling the broadcaster's RT flag clears only the buffer being
	// toggled away from, and only once a segment for the new flag is
	// actually admitted.
	if p.lastRTFlag.known() && RTFlag(p.lastRTFlag) != flag {
		p.rt[1-flag].clear()
	}
	p.lastRTFlag = ternaryOf(flag == RTFlagB)

	se := stringError(dataErr)
	buf := p.rt[flag]
	buf.acceptSegment(pos, chars, se)
	if content, errs, ok := buf.publish(); ok {
		if cb := p.onRT; cb != nil {
			f := flag
			fire = append(fire, func() { cb(content, errs, f) })
		}
	}

	return fire
}

// ParseString decodes one ASCII-hex wire-format line and routes it
// exactly as Parse would. Returns false for a malformed line (no state
// is mutated) or a re-entrant call.
func (p *Parser) ParseString(line string) bool {
	g, e, ok := DecodeLine(line)
	if !ok {
		return false
	}
	return p.Parse(g, e)
}
