package asciihex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrds/rds"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		wantOK  bool
		wantErr rds.BlockError
	}{
		{name: "valid no error byte", line: "1234567890123458", wantOK: true},
		{name: "valid with error byte", line: "3566100000E2000010", wantOK: true, wantErr: rds.ErrorSmall},
		{name: "leading/trailing space trimmed", line: "  1234567890123458  ", wantOK: true},
		{name: "wrong length", line: "1234", wantOK: false},
		{name: "non-hex digit in a block", line: "12GH567890123458", wantOK: false},
		{name: "non-hex error byte", line: "1234567890123458ZZ", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, e, ok := Decode(c.line)
			assert.Equal(t, c.wantOK, ok)
			if c.wantOK && c.name == "valid with error byte" {
				assert.Equal(t, c.wantErr, e.B)
			}
		})
	}
}

func TestScanLines(t *testing.T) {
	input := strings.Join([]string{
		"1234567890123458",
		"",
		"not-a-valid-line",
		"1234054C01203A3B",
		"   ",
	}, "\n")

	var lines []Line
	var malformed []struct {
		num int
		raw string
	}

	err := ScanLines(strings.NewReader(input), func(l Line) {
		lines = append(lines, l)
	}, func(num int, raw string) {
		malformed = append(malformed, struct {
			num int
			raw string
		}{num, raw})
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Num)
	assert.Equal(t, 4, lines[1].Num)

	require.Len(t, malformed, 1)
	assert.Equal(t, 3, malformed[0].num)
	assert.Equal(t, "not-a-valid-line", malformed[0].raw)
}

func TestScanLinesNilOnError(t *testing.T) {
	input := "garbage\n1234567890123458"
	var got []Line
	err := ScanLines(strings.NewReader(input), func(l Line) {
		got = append(got, l)
	}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
