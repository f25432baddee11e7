//go:build tinygo

package hal

import (
	"machine"
)

type tinyGoBoard struct {
	logger *uartLogger
	led    *pinLED
}

// New returns a Pico 2 (RP2350) board implementation. The on-board LED is
// LED 0; there are no others.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New(leds int) Board {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoBoard{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
	}
}

func (b *tinyGoBoard) Logger() Logger { return b.logger }
func (b *tinyGoBoard) LEDCount() int  { return 1 }

func (b *tinyGoBoard) LED(i int) LED {
	if i != 0 {
		return nullLED{}
	}
	return b.led
}

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	l.uart.Write([]byte(s))
	l.uart.Write([]byte("\r\n"))
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.uart.Write(b)
	l.uart.Write([]byte("\r\n"))
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
