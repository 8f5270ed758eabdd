// Package serialsource reads ASCII-hex RDS group lines from a serial-
// attached demodulator front-end (an Si4703/TEF668x-class tuner paired
// with a microcontroller that streams one decoded group per line) and
// feeds them to an rds.Parser.
package serialsource

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"fmrds/asciihex"
	"fmrds/rds"
)

// Source reads newline-delimited hex lines from a serial port.
type Source struct {
	device string
	baud   int
	port   serial.Port
}

// New returns a Source bound to the given device path and baud rate.
// Open must be called before Run.
func New(device string, baud int) *Source {
	return &Source{device: device, baud: baud}
}

// Open opens the serial port if not already open.
func (s *Source) Open() error {
	if s.port != nil {
		return nil
	}
	mode := &serial.Mode{BaudRate: s.baud}
	p, err := serial.Open(s.device, mode)
	if err != nil {
		return fmt.Errorf("serialsource: opening %s: %w", s.device, err)
	}
	if err := p.SetReadTimeout(time.Second); err != nil {
		p.Close()
		return fmt.Errorf("serialsource: setting read timeout: %w", err)
	}
	s.port = p
	return nil
}

// Close closes the port if open.
func (s *Source) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// OnMalformed is called, if set, with the raw text of any line that
// fails to parse as a wire-format group.
type OnMalformed func(raw string)

// Run blocks, decoding lines from the open port and routing each one
// through parser, until the port is closed or a read error occurs. The
// returned error is nil on a clean Close.
func (s *Source) Run(parser *rds.Parser, onMalformed OnMalformed) error {
	if s.port == nil {
		return fmt.Errorf("serialsource: port not open")
	}
	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		line := scanner.Text()
		g, e, ok := asciihex.Decode(line)
		if !ok {
			if onMalformed != nil {
				onMalformed(line)
			}
			continue
		}
		parser.Parse(g, e)
	}
	if err := scanner.Err(); err != nil {
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
			return nil
		}
		return err
	}
	return nil
}
