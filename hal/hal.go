// Package hal isolates the scheduler demos from the machine they run on.
// A Board is either the real microcontroller (tinygo build), a host board
// that logs to the terminal, or an in-memory board used by tests.
package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNoSuchLED = errors.New("no such led")

// Board is the only contact point between the demo tasks and the outside
// world.
type Board interface {
	Logger() Logger
	// LED returns the i'th LED. Out-of-range indices return a pin that
	// drops writes, so tasks never need to range-check.
	LED(i int) LED
	LEDCount() int
}

// nullLED drops all writes.
type nullLED struct{}

func (nullLED) High() {}
func (nullLED) Low()  {}
