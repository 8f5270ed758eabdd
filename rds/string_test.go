package rds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructedStringFirstTouchValidatesImmediately(t *testing.T) {
	s := newReconstructedString(4, false)
	assert.Equal(t, "    ", s.Content())

	s.acceptSegment(0, []byte("AB"), StringErrorNone)
	assert.Equal(t, "AB  ", s.Content())
}

func TestReconstructedStringContestedRequiresReconfirmation(t *testing.T) {
	s := newReconstructedString(1, false)
	s.acceptSegment(0, []byte("A"), StringErrorNone)
	assert.Equal(t, "A", s.Content())

	// A single contradicting observation does not flip a validated
	// position, and stays invisible in non-progressive mode.
	s.acceptSegment(0, []byte("B"), StringErrorNone)
	assert.Equal(t, " ", s.Content())

	// A second, consistent contradicting observation flips it.
	s.acceptSegment(0, []byte("B"), StringErrorNone)
	assert.Equal(t, "B", s.Content())
}

func TestReconstructedStringProgressiveShowsContestedChar(t *testing.T) {
	s := newReconstructedString(1, false)
	s.SetProgressive(true)

	s.acceptSegment(0, []byte("A"), StringErrorNone)
	assert.Equal(t, "A", s.Content())

	s.acceptSegment(0, []byte("B"), StringErrorNone)
	assert.Equal(t, "B", s.Content(), "progressive mode surfaces the contested character before reconfirmation")
}

func TestReconstructedStringRepeatedMatchingObservationLowersError(t *testing.T) {
	s := newReconstructedString(1, false)
	s.acceptSegment(0, []byte{'A'}, StringErrorLarge)
	errs := s.Errors()
	assert.Equal(t, StringErrorLarge, errs[0])

	s.acceptSegment(0, []byte{'A'}, StringErrorNone)
	errs = s.Errors()
	assert.Equal(t, StringErrorNone, errs[0])
}

func TestReconstructedStringAvailableIsSticky(t *testing.T) {
	s := newReconstructedString(2, false)
	assert.False(t, s.Available())

	s.acceptSegment(0, []byte("AB"), StringErrorNone)
	s.publish()
	assert.True(t, s.Available())

	// Contradicting one position (not yet reconfirmed) must not un-latch.
	s.acceptSegment(0, []byte("X"), StringErrorNone)
	s.publish()
	assert.True(t, s.Available())
}

func TestReconstructedStringClearResetsEverything(t *testing.T) {
	s := newReconstructedString(2, false)
	s.acceptSegment(0, []byte("AB"), StringErrorNone)
	s.publish()
	assert.True(t, s.Available())

	s.clear()
	assert.Equal(t, "  ", s.Content())
	assert.False(t, s.Available())
}

func TestReconstructedStringRTCutsAtFirstValidatedTerminator(t *testing.T) {
	s := newReconstructedString(8, true)
	s.acceptSegment(0, []byte{0x0D}, StringErrorNone)
	assert.Equal(t, "", s.Content())
	s.publish()
	assert.True(t, s.Available(), "availability is scoped to the displayed range, not the full buffer")
}

func TestReconstructedStringRTUntouchedTailDoesNotBlockAvailability(t *testing.T) {
	s := newReconstructedString(8, true)
	s.acceptSegment(0, []byte("HI"), StringErrorNone)
	s.acceptSegment(2, []byte{0x0D}, StringErrorNone)
	assert.Equal(t, "HI", s.Content())
	s.publish()
	assert.True(t, s.Available())
}

func TestReconstructedStringPublishFiresOnlyOnContentChange(t *testing.T) {
	s := newReconstructedString(2, false)

	_, _, ok := s.publish()
	assert.False(t, ok, "no content yet: nothing to publish")

	s.acceptSegment(0, []byte("AB"), StringErrorNone)
	content, _, ok := s.publish()
	assert.True(t, ok)
	assert.Equal(t, "AB", content)

	// Re-touching with the same characters doesn't change content.
	s.acceptSegment(0, []byte("AB"), StringErrorNone)
	_, _, ok = s.publish()
	assert.False(t, ok)
}

func TestReconstructedStringOutOfRangeSegmentIgnored(t *testing.T) {
	s := newReconstructedString(4, false)
	s.acceptSegment(3, []byte("XY"), StringErrorNone)
	assert.Equal(t, "   X", s.Content())
}
