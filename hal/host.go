//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

type hostBoard struct {
	logger Logger
	leds   []*hostLED
}

// New returns a host board implementation with the given number of LEDs.
// LED state changes are written through the logger.
func New(leds int) Board {
	logger := &hostLogger{w: os.Stdout}
	return newHostBoard(logger, leds)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(logger Logger, leds int) Board {
	return newHostBoard(logger, leds)
}

func newHostBoard(logger Logger, leds int) *hostBoard {
	if leds < 1 {
		leds = 1
	}
	b := &hostBoard{logger: logger}
	for i := 0; i < leds; i++ {
		b.leds = append(b.leds, &hostLED{index: i, logger: logger})
	}
	return b
}

func (b *hostBoard) Logger() Logger { return b.logger }
func (b *hostBoard) LEDCount() int  { return len(b.leds) }

func (b *hostBoard) LED(i int) LED {
	if i < 0 || i >= len(b.leds) {
		return nullLED{}
	}
	return b.leds[i]
}

// on reports the current LED state for the window renderer.
func (b *hostBoard) on(i int) bool {
	if i < 0 || i >= len(b.leds) {
		return false
	}
	l := b.leds[i]
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	index  int
	on     bool
	logger Logger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.on = true
		l.logger.WriteLineString(fmt.Sprintf("led%d: HIGH", l.index))
	}
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.on = false
		l.logger.WriteLineString(fmt.Sprintf("led%d: LOW", l.index))
	}
}

// ZapLogger adapts a zap logger to the board Logger interface.
type ZapLogger struct {
	L *zap.Logger
}

func (z ZapLogger) WriteLineString(s string) { z.L.Info(s) }
func (z ZapLogger) WriteLineBytes(b []byte)  { z.L.Info(string(b)) }
