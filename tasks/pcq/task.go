// Package pcq is the producer/consumer demo: a bounded queue of uint32
// counters, a producer that tolerates a full queue, a consumer that
// reports gaps in service, and a monitor watching queue depth.
package pcq

import (
	"encoding/binary"
	"fmt"

	"rtkern/hal"
	"rtkern/kernel"
)

const (
	Capacity = 5
	ItemSize = 4

	producePeriod  = 500
	sendTimeout    = 100
	receiveTimeout = 1000
	monitorPeriod  = 2000
)

// ProducerTask sends an incrementing counter. The counter only advances
// on a successful send, so consumers never see gaps, only delays.
type ProducerTask struct {
	logger hal.Logger
	q      *kernel.Queue
}

func NewProducer(board hal.Board, q *kernel.Queue) *ProducerTask {
	return &ProducerTask{logger: board.Logger(), q: q}
}

func (t *ProducerTask) Run(c *kernel.Context) {
	var item [ItemSize]byte
	var count uint32
	for {
		binary.LittleEndian.PutUint32(item[:], count)
		switch err := t.q.Send(c, item[:], sendTimeout); err {
		case nil:
			count++
		case kernel.ErrTimedOut:
			t.logger.WriteLineString(fmt.Sprintf("producer: queue full at %d, dropping %d", c.Now(), count))
		default:
			t.logger.WriteLineString("producer: send failed: " + err.Error())
			return
		}
		c.Delay(producePeriod)
	}
}

// ConsumerTask receives counters, pulses an LED on each one, and logs a
// warning when the producer goes quiet for longer than receiveTimeout.
type ConsumerTask struct {
	logger hal.Logger
	led    hal.LED
	q      *kernel.Queue
}

func NewConsumer(board hal.Board, led int, q *kernel.Queue) *ConsumerTask {
	return &ConsumerTask{logger: board.Logger(), led: board.LED(led), q: q}
}

func (t *ConsumerTask) Run(c *kernel.Context) {
	var buf [ItemSize]byte
	ledOn := false
	for {
		_, err := t.q.Receive(c, buf[:], receiveTimeout)
		switch err {
		case nil:
			v := binary.LittleEndian.Uint32(buf[:])
			t.logger.WriteLineString(fmt.Sprintf("consumer: got %d at %d", v, c.Now()))
			if ledOn {
				t.led.Low()
			} else {
				t.led.High()
			}
			ledOn = !ledOn
		case kernel.ErrTimedOut:
			t.logger.WriteLineString(fmt.Sprintf("consumer: starved at %d", c.Now()))
		default:
			t.logger.WriteLineString("consumer: receive failed: " + err.Error())
			return
		}
	}
}

// MonitorTask samples queue occupancy on a slow cadence.
type MonitorTask struct {
	logger hal.Logger
	q      *kernel.Queue
}

func NewMonitor(board hal.Board, q *kernel.Queue) *MonitorTask {
	return &MonitorTask{logger: board.Logger(), q: q}
}

func (t *MonitorTask) Run(c *kernel.Context) {
	ref := c.Now()
	for {
		c.DelayUntil(&ref, monitorPeriod)
		t.logger.WriteLineString(fmt.Sprintf("monitor: depth=%d/%d at %d", t.q.Len(), t.q.Cap(), c.Now()))
	}
}

// Spawn creates the queue and its three tasks. The consumer runs above
// the producer so delivery is immediate when both are ready.
func Spawn(k *kernel.Kernel, board hal.Board) (q *kernel.Queue, handles []kernel.Handle, err error) {
	q = k.NewQueue(Capacity, ItemSize)

	consumer, err := k.Create(kernel.TaskConfig{Name: "consumer", Priority: 6}, NewConsumer(board, 0, q).Run)
	if err != nil {
		return nil, nil, err
	}
	producer, err := k.Create(kernel.TaskConfig{Name: "producer", Priority: 5}, NewProducer(board, q).Run)
	if err != nil {
		return nil, nil, err
	}
	monitor, err := k.Create(kernel.TaskConfig{Name: "monitor", Priority: 2}, NewMonitor(board, q).Run)
	if err != nil {
		return nil, nil, err
	}
	return q, []kernel.Handle{consumer, producer, monitor}, nil
}
