package hal

import "sync"

// MemoryBoard records log lines and LED transitions. Tests drive the demo
// tasks against it and assert on the recorded history.
type MemoryBoard struct {
	mu    sync.Mutex
	lines []string
	leds  []*memoryLED
}

// NewMemory returns a board with the given number of LEDs that records
// everything written to it.
func NewMemory(leds int) *MemoryBoard {
	if leds < 1 {
		leds = 1
	}
	b := &MemoryBoard{}
	for i := 0; i < leds; i++ {
		b.leds = append(b.leds, &memoryLED{board: b, index: i})
	}
	return b
}

func (b *MemoryBoard) Logger() Logger { return (*memoryLogger)(b) }
func (b *MemoryBoard) LEDCount() int  { return len(b.leds) }

func (b *MemoryBoard) LED(i int) LED {
	if i < 0 || i >= len(b.leds) {
		return nullLED{}
	}
	return b.leds[i]
}

// Lines returns a copy of all log lines written so far.
func (b *MemoryBoard) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Transitions returns the recorded on/off history of the i'th LED.
func (b *MemoryBoard) Transitions(i int) []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.leds) {
		return nil
	}
	out := make([]bool, len(b.leds[i].history))
	copy(out, b.leds[i].history)
	return out
}

// LEDOn reports the current state of the i'th LED.
func (b *MemoryBoard) LEDOn(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.leds) {
		return false
	}
	return b.leds[i].on
}

type memoryLogger MemoryBoard

func (l *memoryLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *memoryLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type memoryLED struct {
	board   *MemoryBoard
	index   int
	on      bool
	history []bool
}

func (l *memoryLED) set(on bool) {
	l.board.mu.Lock()
	defer l.board.mu.Unlock()
	if l.on == on {
		return
	}
	l.on = on
	l.history = append(l.history, on)
}

func (l *memoryLED) High() { l.set(true) }
func (l *memoryLED) Low()  { l.set(false) }
