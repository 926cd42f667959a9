package outbox

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_BasicSendReceive(t *testing.T) {
	q := New[int]()

	for i := 0; i < 5; i++ {
		if !q.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}

	for i := 0; i < 5; i++ {
		val, ok := q.TryReceive()
		if !ok {
			t.Fatalf("TryReceive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueue_Unbounded(t *testing.T) {
	q := New[int]()

	for i := 0; i < 10000; i++ {
		if !q.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	stats := q.Stats()
	if stats.Count != 10000 {
		t.Errorf("Count = %d, want 10000", stats.Count)
	}
	if stats.HighWater != 10000 {
		t.Errorf("HighWater = %d, want 10000", stats.HighWater)
	}

	for i := 0; i < 10000; i++ {
		val, ok := q.TryReceive()
		if !ok || val != i {
			t.Fatalf("item %d: got (%d, %v)", i, val, ok)
		}
	}
}

func TestQueue_TryReceiveEmpty(t *testing.T) {
	q := New[string]()

	val, ok := q.TryReceive()
	if ok {
		t.Errorf("TryReceive() on empty queue returned true")
	}
	if val != "" {
		t.Errorf("TryReceive() returned %q, want zero value", val)
	}
}

func TestQueue_SendAfterClose(t *testing.T) {
	q := New[int]()
	q.Close()

	if q.Send(1) {
		t.Error("Send() after Close() returned true")
	}
	if !q.Closed() {
		t.Error("Closed() = false after Close()")
	}

	// Second close is a no-op.
	q.Close()
}

func TestQueue_DrainAfterClose(t *testing.T) {
	q := New[int]()
	q.Send(1)
	q.Send(2)
	q.Close()

	for _, want := range []int{1, 2} {
		got, ok := q.Receive()
		if !ok {
			t.Fatalf("Receive() returned false before drained")
		}
		if got != want {
			t.Errorf("Receive() = %d, want %d", got, want)
		}
	}

	if _, ok := q.Receive(); ok {
		t.Error("Receive() on closed empty queue returned true")
	}
}

func TestQueue_ReceiveBlocksUntilSend(t *testing.T) {
	q := New[string]()

	got := make(chan string, 1)
	go func() {
		v, _ := q.Receive()
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("Receive() returned before Send()")
	case <-time.After(20 * time.Millisecond):
	}

	q.Send("hello")

	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("Receive() = %q, want %q", v, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("Receive() did not wake up")
	}
}

func TestQueue_CloseWakesReceiver(t *testing.T) {
	q := New[int]()

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Receive()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Receive() returned true after Close() on empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Close() did not wake blocked receiver")
	}
}

func TestQueue_ConcurrentSendersPreserveCount(t *testing.T) {
	q := New[int]()

	var wg sync.WaitGroup
	for s := 0; s < 8; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				q.Send(i)
			}
		}()
	}

	received := 0
	done := make(chan struct{})
	go func() {
		for {
			if _, ok := q.Receive(); !ok {
				close(done)
				return
			}
			received++
		}
	}()

	wg.Wait()
	q.Close()
	<-done

	if received != 4000 {
		t.Errorf("received = %d, want 4000", received)
	}

	stats := q.Stats()
	if stats.TotalReceived != 4000 || stats.TotalSent != 4000 {
		t.Errorf("Stats = %+v, want 4000 in and out", stats)
	}
}
