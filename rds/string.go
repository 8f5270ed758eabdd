package rds

// StringErrorLevel is the fine-grained per-position confidence exposed
// to consumers, mapped from the coarser BlockError at admission time.
type StringErrorLevel uint8

const (
	StringErrorNone StringErrorLevel = iota
	StringErrorSmallest
	StringErrorXSmall
	StringErrorSmall
	StringErrorMediumSmall
	StringErrorMedium
	StringErrorMediumLarge
	StringErrorLarge
	StringErrorXLarge
	StringErrorLargest
	StringErrorUncorrectable
)

func stringError(e BlockError) StringErrorLevel {
	switch e {
	case ErrorNone:
		return StringErrorNone
	case ErrorSmall:
		return StringErrorSmall
	case ErrorLarge:
		return StringErrorLarge
	default:
		return StringErrorUncorrectable
	}
}

func minStringError(a, b StringErrorLevel) StringErrorLevel {
	if a < b {
		return a
	}
	return b
}

// position holds the confidence state of a single character slot in a
// reconstructed string. A position not yet touched accepts its first
// observation directly as validated: there is nothing yet to protect.
// Only a validated character that is later contradicted drops to a
// tentative challenger, which must be observed twice in a row before
// it is allowed to replace the validated one.
type position struct {
	tentativeChar  byte
	tentativeError StringErrorLevel
	hasTentative   bool

	validatedChar  byte
	validatedError StringErrorLevel
	hasValidated   bool

	touched bool
}

// accept applies one observation of character c at this position.
func (p *position) accept(c byte, e StringErrorLevel) {
	if !p.touched {
		p.touched = true
		p.validatedChar = c
		p.validatedError = e
		p.hasValidated = true
		return
	}

	if p.hasValidated {
		if p.validatedChar == c {
			p.validatedError = minStringError(p.validatedError, e)
			return
		}
		// Contradicts the validated character: downgrade to tentative.
		// A second, consistent contradicting observation is required
		// before the position is allowed to flip.
		p.hasValidated = false
		p.tentativeChar = c
		p.tentativeError = e
		p.hasTentative = true
		return
	}

	if p.tentativeChar == c {
		p.validatedChar = c
		p.validatedError = minStringError(p.tentativeError, e)
		p.hasValidated = true
		p.hasTentative = false
		return
	}
	p.tentativeChar = c
	p.tentativeError = e
}

func (p *position) clear() {
	*p = position{}
}

// render returns the byte to show for this position: the validated
// character if present, else, when progressive is true, the contested
// tentative character, else a space.
func (p *position) render(progressive bool) (byte, StringErrorLevel) {
	if p.hasValidated {
		return p.validatedChar, p.validatedError
	}
	if progressive && p.hasTentative {
		return p.tentativeChar, p.tentativeError
	}
	return ' ', StringErrorNone
}

// ReconstructedString is the incrementally-rebuilt view of the PS name
// or one of the two RT buffers: a fixed-length array of positions, each
// independently validated on its first observation and subsequently
// protected from a lone contradicting one.
type ReconstructedString struct {
	positions   []position
	isRT        bool
	progressive bool
	lastContent string
	lastErrors  []StringErrorLevel
	available   bool
}

func newReconstructedString(length int, isRT bool) *ReconstructedString {
	s := &ReconstructedString{
		positions: make([]position, length),
		isRT:      isRT,
	}
	s.lastContent, s.lastErrors = s.render()
	return s
}

// Length returns the total number of character positions.
func (s *ReconstructedString) Length() int {
	return len(s.positions)
}

// SetProgressive controls whether render() surfaces a contested,
// not-yet-reconfirmed tentative character instead of a space.
func (s *ReconstructedString) SetProgressive(v bool) {
	s.progressive = v
}

// Progressive reports the current progressive setting.
func (s *ReconstructedString) Progressive() bool {
	return s.progressive
}

// Available reports whether every displayed position (the whole string
// for PS; up to the first validated terminator for RT) has, at some
// point, held a validated character simultaneously. The flag is
// sticky: once set, it is only cleared by clear() (or, for RT, an A/B
// flag toggle), even if a later contradiction un-validates a position.
func (s *ReconstructedString) Available() bool {
	return s.available
}

// cutIndex returns the number of positions actually displayed: the
// full length for PS, or the index of the first validated 0x0D
// terminator for RT (RadioText is explicitly allowed to end early).
func (s *ReconstructedString) cutIndex() int {
	if s.isRT {
		for i := range s.positions {
			if s.positions[i].hasValidated && s.positions[i].validatedChar == 0x0D {
				return i
			}
		}
	}
	return len(s.positions)
}

// refreshAvailable checks whether the displayed range has just reached
// full validation, latching s.available if so.
func (s *ReconstructedString) refreshAvailable() {
	if s.available {
		return
	}
	cut := s.cutIndex()
	for i := 0; i < cut; i++ {
		if !s.positions[i].hasValidated {
			return
		}
	}
	s.available = true
}

// acceptSegment feeds a contiguous run of characters into the string
// starting at offset, each carrying the same admitted error level.
func (s *ReconstructedString) acceptSegment(offset int, chars []byte, e StringErrorLevel) {
	for i, c := range chars {
		pos := offset + i
		if pos < 0 || pos >= len(s.positions) {
			continue
		}
		s.positions[pos].accept(c, e)
	}
}

func (s *ReconstructedString) clear() {
	for i := range s.positions {
		s.positions[i].clear()
	}
	s.available = false
	s.lastContent, s.lastErrors = s.render()
}

// render computes the current rendered view under the string's
// progressive setting, truncated at the first validated 0x0D for RT
// buffers.
func (s *ReconstructedString) render() (string, []StringErrorLevel) {
	cut := s.cutIndex()
	buf := make([]byte, cut)
	errs := make([]StringErrorLevel, cut)
	for i := 0; i < cut; i++ {
		buf[i], errs[i] = s.positions[i].render(s.progressive)
	}
	return string(buf), errs
}

// Content returns the current rendering of the string.
func (s *ReconstructedString) Content() string {
	content, _ := s.render()
	return content
}

// Errors returns the per-position StringErrorLevel of the current
// rendering returned by Content.
func (s *ReconstructedString) Errors() []StringErrorLevel {
	_, errs := s.render()
	return errs
}

// publish fires whenever the rendered view has changed since the last
// publication (or, before the first one, since the blank rendering of
// an empty string), and returns (content, errors, true) in that case.
// Since render already hides a contested, unconfirmed character in
// non-progressive mode, a lone contradicting character never appears
// here: its position is published as a space until reconfirmed.
func (s *ReconstructedString) publish() (string, []StringErrorLevel, bool) {
	s.refreshAvailable()
	content, errs := s.render()
	if content == s.lastContent {
		return "", nil, false
	}
	s.lastContent = content
	s.lastErrors = errs
	return content, errs, true
}
