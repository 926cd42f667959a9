package registry

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/rickgao/servctl/internal/outbox"
)

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id := NewID()
		if !re.MatchString(id) {
			t.Fatalf("NewID() = %q, want 32 hex chars", id)
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestRegistry_SendDelivers(t *testing.T) {
	r := New()
	out := outbox.New[string]()
	r.Insert("a", NewEntry(out, "127.0.0.1:1"))

	if !r.Send("a", "hello") {
		t.Fatal("Send() returned false for live entry")
	}

	got, ok := out.TryReceive()
	if !ok || got != "hello" {
		t.Errorf("outbox got (%q, %v), want (hello, true)", got, ok)
	}
}

func TestRegistry_SendUnknown(t *testing.T) {
	r := New()

	if r.Send("missing", "hello") {
		t.Error("Send() to unknown id returned true")
	}
}

func TestRegistry_SendAfterRemove(t *testing.T) {
	r := New()
	out := outbox.New[string]()
	r.Insert("a", NewEntry(out, ""))

	if !r.Remove("a") {
		t.Fatal("Remove() returned false for registered id")
	}
	if r.Send("a", "late") {
		t.Error("Send() after Remove() returned true")
	}
	if !out.Closed() {
		t.Error("Remove() did not close the outbox")
	}
	if r.Remove("a") {
		t.Error("second Remove() returned true")
	}
}

func TestRegistry_SendToClosedOutbox(t *testing.T) {
	r := New()
	out := outbox.New[string]()
	r.Insert("a", NewEntry(out, ""))

	// Forwarder died and closed its side.
	out.Close()

	if r.Send("a", "dropped") {
		t.Error("Send() to closed outbox returned true")
	}
	if !r.Contains("a") {
		t.Error("closed outbox should not remove the entry")
	}
}

func TestRegistry_Isolation(t *testing.T) {
	r := New()
	outs := make(map[string]*outbox.Queue[string])
	for _, id := range []string{"a", "b", "c"} {
		outs[id] = outbox.New[string]()
		r.Insert(id, NewEntry(outs[id], ""))
	}

	r.Send("b", "only-b")

	for id, out := range outs {
		want := 0
		if id == "b" {
			want = 1
		}
		if out.Len() != want {
			t.Errorf("outbox %s Len() = %d, want %d", id, out.Len(), want)
		}
	}
}

func TestRegistry_RemoveOnlyTarget(t *testing.T) {
	r := New()
	for _, id := range []string{"a", "b", "c"} {
		r.Insert(id, NewEntry(outbox.New[string](), ""))
	}

	r.Remove("b")

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if !r.Contains("a") || !r.Contains("c") {
		t.Error("Remove(b) affected other entries")
	}
	if r.Contains("b") {
		t.Error("b still registered")
	}
}

func TestRegistry_InsertReplacesAndClosesOld(t *testing.T) {
	r := New()
	first := outbox.New[string]()
	second := outbox.New[string]()

	r.Insert("a", NewEntry(first, ""))
	r.Insert("a", NewEntry(second, ""))

	if !first.Closed() {
		t.Error("replaced outbox should be closed")
	}
	r.Send("a", "x")
	if second.Len() != 1 {
		t.Errorf("new outbox Len() = %d, want 1", second.Len())
	}
}

func TestRegistry_Clients(t *testing.T) {
	r := New()
	out := outbox.New[string]()
	r.Insert("a", NewEntry(out, "10.0.0.1:5000"))
	r.Send("a", "pending")

	clients := r.Clients()
	info, ok := clients["a"]
	if !ok {
		t.Fatal("Clients() missing a")
	}
	if info.RemoteAddr != "10.0.0.1:5000" {
		t.Errorf("RemoteAddr = %q, want 10.0.0.1:5000", info.RemoteAddr)
	}
	if info.Pending != 1 {
		t.Errorf("Pending = %d, want 1", info.Pending)
	}
	if info.ConnectedAt.IsZero() {
		t.Error("ConnectedAt should not be zero")
	}
}

func TestRegistry_ConcurrentSendRemove(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("conn-%d", i)
		out := outbox.New[string]()
		r.Insert(id, NewEntry(out, ""))

		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Send(id, "msg")
			}
		}()
		go func() {
			defer wg.Done()
			r.Remove(id)
		}()
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
