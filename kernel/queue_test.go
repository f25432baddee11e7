package kernel

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"testing"
)

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestQueuePollOnEmptyAndFull(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(1, 4)

	runBody(t, k, func(c *Context) {
		buf := make([]byte, 4)
		if _, err := q.Receive(c, buf, 0); err != ErrTimedOut {
			t.Errorf("Receive(empty, 0) error = %v, want ErrTimedOut", err)
		}
		if err := q.Send(c, le32(1), 0); err != nil {
			t.Errorf("Send() error = %v", err)
		}
		if err := q.Send(c, le32(2), 0); err != ErrTimedOut {
			t.Errorf("Send(full, 0) error = %v, want ErrTimedOut", err)
		}
		if n, err := q.Receive(c, buf, 0); err != nil || n != 4 {
			t.Errorf("Receive() = %d, %v, want 4, nil", n, err)
		} else if got := binary.LittleEndian.Uint32(buf); got != 1 {
			t.Errorf("Receive() value = %d, want 1", got)
		}
	})
}

func TestQueueItemSizeChecks(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(2, 4)

	runBody(t, k, func(c *Context) {
		if err := q.Send(c, make([]byte, 5), 0); err != ErrItemTooLarge {
			t.Errorf("Send(oversize) error = %v, want ErrItemTooLarge", err)
		}
		if _, err := q.Receive(c, make([]byte, 2), 0); err != ErrItemTooLarge {
			t.Errorf("Receive(small buf) error = %v, want ErrItemTooLarge", err)
		}
	})
}

func TestQueueFIFOAndCapacity(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(5, 4)

	runBody(t, k, func(c *Context) {
		for i := uint32(0); i < 5; i++ {
			if err := q.Send(c, le32(i), 0); err != nil {
				t.Errorf("Send(%d) error = %v", i, err)
			}
		}
		if got := q.Len(); got != 5 {
			t.Errorf("Len() = %d, want 5", got)
		}
		if err := q.Send(c, le32(99), 0); err != ErrTimedOut {
			t.Errorf("Send beyond capacity error = %v, want ErrTimedOut", err)
		}
		buf := make([]byte, 4)
		for i := uint32(0); i < 5; i++ {
			if _, err := q.Receive(c, buf, 0); err != nil {
				t.Errorf("Receive(%d) error = %v", i, err)
			}
			if got := binary.LittleEndian.Uint32(buf); got != i {
				t.Errorf("Receive order: got %d, want %d", got, i)
			}
		}
	})
}

func TestQueueReceiveTimeoutFiresOnTime(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(1, 4)
	tr := &tracer{}

	_, err := k.Create(TaskConfig{Name: "receiver", Priority: 5}, func(c *Context) {
		buf := make([]byte, 4)
		_, err := q.Receive(c, buf, 3)
		tr.addf("%v@%d", err == ErrTimedOut, c.Now())
		c.Suspend(c.Self())
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	k.WaitIdle()

	step(k, 2)
	if got := tr.events(); len(got) != 0 {
		t.Fatalf("timed out early: %v", got)
	}
	step(k, 1)
	want := []string{"true@3"}
	if got := tr.events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
}

func TestQueueSenderWakeupIsFIFO(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(1, 4)
	tr := &tracer{}

	_, err := k.Create(TaskConfig{Name: "driver", Priority: 5}, func(c *Context) {
		if err := q.Send(c, le32(0), 0); err != nil {
			tr.addf("fill error: %v", err)
		}
		c.Delay(10)
		buf := make([]byte, 4)
		for i := 0; i < 3; i++ {
			if _, err := q.Receive(c, buf, Forever); err != nil {
				tr.addf("receive error: %v", err)
				return
			}
			tr.addf("got %d", binary.LittleEndian.Uint32(buf))
		}
	})
	if err != nil {
		t.Fatalf("Create(driver) error = %v", err)
	}
	k.WaitIdle() // driver filled the queue and sleeps

	for i, name := range []string{"s1", "s2"} {
		v := uint32(i + 1)
		_, err := k.Create(TaskConfig{Name: name, Priority: 5}, func(c *Context) {
			q.Send(c, le32(v), Forever)
		})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
		k.WaitIdle() // sender blocks on the full queue
	}

	step(k, 10)

	// The first-blocked sender deposits first.
	want := []string{"got 0", "got 1", "got 2"}
	if got := tr.events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
}

func TestDeleteBlockedSenderLeavesQueueConsistent(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(1, 4)
	tr := &tracer{}

	runBody(t, k, func(c *Context) {
		q.Send(c, le32(0), 0)
	})

	var doomed Handle
	var err error
	doomed, err = k.Create(TaskConfig{Name: "doomed", Priority: 5}, func(c *Context) {
		q.Send(c, le32(1), Forever)
		tr.addf("doomed sent")
	})
	if err != nil {
		t.Fatalf("Create(doomed) error = %v", err)
	}
	k.WaitIdle()

	survivor, err := k.Create(TaskConfig{Name: "survivor", Priority: 5}, func(c *Context) {
		q.Send(c, le32(2), Forever)
		tr.addf("survivor sent")
	})
	if err != nil {
		t.Fatalf("Create(survivor) error = %v", err)
	}
	k.WaitIdle()
	_ = survivor

	if err := k.Delete(doomed); err != nil {
		t.Fatalf("Delete(doomed) error = %v", err)
	}
	k.WaitIdle()

	runBody(t, k, func(c *Context) {
		buf := make([]byte, 4)
		for i := 0; i < 2; i++ {
			if _, err := q.Receive(c, buf, Forever); err != nil {
				t.Errorf("Receive() error = %v", err)
				return
			}
			tr.addf("got %d", binary.LittleEndian.Uint32(buf))
		}
	})

	// The deleted sender's item never arrives; the survivor's does.
	want := []string{"got 0", "survivor sent", "got 2"}
	if got := tr.events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
}

// Steady-state hand-off: capacity 5, producer every 500 ticks
// with a 100-tick send timeout, consumer with a 1000-tick receive timeout.
// The consumer sees a gap-free increasing sequence and never times out
// while the producer runs; suspending the producer longer than the receive
// timeout surfaces ErrTimedOut, and the sequence continues after resume.
func TestProducerConsumerScenario(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(5, 4)
	tr := &tracer{}

	producer, err := k.Create(TaskConfig{Name: "producer", Priority: 5}, func(c *Context) {
		var count uint32
		for {
			if err := q.Send(c, le32(count), 100); err == nil {
				count++
			}
			c.Delay(500)
		}
	})
	if err != nil {
		t.Fatalf("Create(producer) error = %v", err)
	}
	_, err = k.Create(TaskConfig{Name: "consumer", Priority: 5}, func(c *Context) {
		buf := make([]byte, 4)
		for {
			if _, err := q.Receive(c, buf, 1000); err == ErrTimedOut {
				tr.addf("timeout@%d", c.Now())
				continue
			}
			tr.addf("recv %d@%d", binary.LittleEndian.Uint32(buf), c.Now())
		}
	})
	if err != nil {
		t.Fatalf("Create(consumer) error = %v", err)
	}
	k.WaitIdle()
	step(k, 5000)

	if err := k.Suspend(producer); err != nil {
		t.Fatalf("Suspend(producer) error = %v", err)
	}
	step(k, 2000)
	if err := k.Resume(producer); err != nil {
		t.Fatalf("Resume(producer) error = %v", err)
	}
	k.WaitIdle()

	want := []string{"recv 0@0"}
	for i := 1; i <= 10; i++ {
		want = append(want, fmt.Sprintf("recv %d@%d", i, i*500))
	}
	want = append(want, "timeout@6000", "timeout@7000", "recv 11@7000")
	if got := tr.events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
}

// Backpressure: a fast producer polling a full queue observes ErrTimedOut
// while occupancy never exceeds capacity.
func TestQueueBackpressure(t *testing.T) {
	k := newTestKernel(t, Config{})
	q := k.NewQueue(5, 4)
	tr := &tracer{}

	_, err := k.Create(TaskConfig{Name: "producer", Priority: 5}, func(c *Context) {
		var count uint32
		for {
			if err := q.Send(c, le32(count), 0); err == ErrTimedOut {
				tr.addf("full@%d", c.Now())
			} else {
				count++
			}
			c.Delay(10)
		}
	})
	if err != nil {
		t.Fatalf("Create(producer) error = %v", err)
	}
	k.WaitIdle()

	maxLen := 0
	for i := 0; i < 10; i++ {
		step(k, 10)
		if l := q.Len(); l > maxLen {
			maxLen = l
		}
	}
	if maxLen > 5 {
		t.Fatalf("occupancy reached %d, capacity is 5", maxLen)
	}
	if got := tr.events(); len(got) == 0 {
		t.Fatal("producer never observed backpressure")
	}
}
