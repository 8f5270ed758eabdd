package rds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestRapidPositionTwoStepPromotion checks the core invariant behind
// string.go's confirmation machine: in non-progressive mode, the
// rendered character at a position only ever changes to a new value
// when the two most recent observations at that position agree on it.
func TestRapidPositionTwoStepPromotion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		feed := rapid.SliceOfN(rapid.SampledFrom([]byte("ABCD")), 1, 20).Draw(t, "feed")

		s := newReconstructedString(1, false)
		prevContent := s.Content()
		for i, c := range feed {
			s.acceptSegment(0, []byte{c}, StringErrorNone)
			content := s.Content()
			if content != prevContent {
				assert.GreaterOrEqual(t, i, 1, "content cannot change on the very first observation without having been touched before")
				assert.Equal(t, feed[i-1], feed[i], "a position only flips to a new character after two consecutive matching observations")
			}
			prevContent = content
		}
	})
}

// TestRapidPositionFirstTouchAlwaysVisible checks that a never-touched
// position always renders its very first observed character immediately,
// regardless of progressive mode.
func TestRapidPositionFirstTouchAlwaysVisible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.Byte().Draw(t, "c")
		progressive := rapid.Bool().Draw(t, "progressive")

		s := newReconstructedString(1, false)
		s.SetProgressive(progressive)
		s.acceptSegment(0, []byte{c}, StringErrorNone)
		assert.Equal(t, string([]byte{c}), s.Content())
	})
}

// TestRapidPositionIdempotence checks that repeating the exact same
// observation never changes the rendered content.
func TestRapidPositionIdempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.Byte().Draw(t, "c")
		e := StringErrorLevel(rapid.IntRange(0, int(StringErrorUncorrectable)).Draw(t, "e"))

		s := newReconstructedString(1, false)
		s.acceptSegment(0, []byte{c}, e)
		before := s.Content()
		s.acceptSegment(0, []byte{c}, e)
		assert.Equal(t, before, s.Content())
	})
}

// TestRapidParserPSAdmissionMonotonicity checks that a group 0 PS
// segment whose error levels exceed the configured correction
// threshold never changes PS content, regardless of what it carries.
func TestRapidParserPSAdmissionMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New()
		infoThresh := BlockError(rapid.IntRange(0, int(ErrorLarge)).Draw(t, "infoThresh"))
		dataThresh := BlockError(rapid.IntRange(0, int(ErrorLarge)).Draw(t, "dataThresh"))
		p.SetTextCorrection(TextPS, BlockTypeInfo, infoThresh)
		p.SetTextCorrection(TextPS, BlockTypeData, dataThresh)

		a := rapid.Uint16().Draw(t, "a")
		pos := rapid.IntRange(0, 3).Draw(t, "pos")
		c1 := rapid.Byte().Draw(t, "c1")
		c2 := rapid.Byte().Draw(t, "c2")
		infoErr := BlockError(rapid.IntRange(0, int(ErrorUncorrectable)).Draw(t, "infoErr"))
		dataErr := BlockError(rapid.IntRange(0, int(ErrorUncorrectable)).Draw(t, "dataErr"))

		// Group type 0, version A, TA/MS both 0, PS position pos.
		b := uint16(0x0000) | uint16(pos)
		c := uint16(0)
		d := uint16(c1)<<8 | uint16(c2)

		before := p.PS().Content()
		p.Parse(Group{A: a, B: b, C: c, D: d}, Errors{A: ErrorNone, B: infoErr, C: ErrorNone, D: dataErr})
		after := p.PS().Content()

		if infoErr > infoThresh || dataErr > dataThresh {
			assert.Equal(t, before, after, "a segment exceeding the correction threshold must never be admitted")
		}
	})
}
