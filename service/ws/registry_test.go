package ws

import (
	"testing"
	"time"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	conn, _ := newSocketPair(t, "c1", 4, false)

	reg.Track(conn)
	if _, ok := reg.Lookup("alice"); ok {
		t.Fatal("tracked but unauthenticated conn must not be addressable")
	}

	if displaced := reg.Register("alice", conn); displaced != nil {
		t.Fatalf("first register displaced %s", displaced.ID)
	}
	got, ok := reg.Lookup("alice")
	if !ok || got != conn {
		t.Fatalf("Lookup(alice) = %v, %v; want the registered conn", got, ok)
	}
	if conn.UserID() != "alice" {
		t.Fatalf("conn user = %q, want alice", conn.UserID())
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
}

func TestRegistryDuplicateLoginDisplaces(t *testing.T) {
	reg := NewRegistry()
	c1, _ := newSocketPair(t, "c1", 4, false)
	c2, _ := newSocketPair(t, "c2", 4, false)

	reg.Register("alice", c1)
	displaced := reg.Register("alice", c2)
	if displaced != c1 {
		t.Fatalf("displaced = %v, want the first conn", displaced)
	}
	got, _ := reg.Lookup("alice")
	if got != c2 {
		t.Fatal("newest registration must win")
	}

	// The displaced socket closes later; its unregister must not evict the
	// replacement.
	reg.Unregister(c1)
	got, ok := reg.Lookup("alice")
	if !ok || got != c2 {
		t.Fatal("stale unregister evicted the replacement")
	}
}

func TestRegistryRegisterSameConnTwice(t *testing.T) {
	reg := NewRegistry()
	conn, _ := newSocketPair(t, "c1", 4, false)
	reg.Register("alice", conn)
	if displaced := reg.Register("alice", conn); displaced != nil {
		t.Fatal("re-registering the same conn must not displace itself")
	}
}

func TestRegistryUnregisterIdempotent(t *testing.T) {
	reg := NewRegistry()
	conn, _ := newSocketPair(t, "c1", 4, false)
	reg.Track(conn)
	reg.Register("alice", conn)

	reg.Unregister(conn)
	if _, ok := reg.Lookup("alice"); ok {
		t.Fatal("alice still addressable after unregister")
	}
	reg.Unregister(conn)
	reg.Unregister(nil)
}

func TestRegistrySweepIdle(t *testing.T) {
	reg := NewRegistry()
	stale, _ := newSocketPair(t, "stale", 4, false)
	fresh, _ := newSocketPair(t, "fresh", 4, false)
	reg.Track(stale)
	reg.Track(fresh)
	reg.Register("bob", stale)

	now := time.Now()
	stale.touch(now.Add(-10 * time.Minute))
	fresh.touch(now)

	expired := reg.sweepIdle(now, 5*time.Minute)
	if len(expired) != 1 || expired[0] != stale {
		t.Fatalf("sweep returned %v, want only the stale conn", expired)
	}
	if _, ok := reg.Lookup("bob"); ok {
		t.Fatal("swept conn still addressable")
	}

	if got := reg.sweepIdle(now, 5*time.Minute); len(got) != 0 {
		t.Fatalf("second sweep returned %v, want none", got)
	}
}

func TestRegistryAuthenticatedSnapshot(t *testing.T) {
	reg := NewRegistry()
	c1, _ := newSocketPair(t, "c1", 4, false)
	c2, _ := newSocketPair(t, "c2", 4, false)
	reg.Register("alice", c1)
	reg.Register("bob", c2)

	snap := reg.Authenticated()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d conns, want 2", len(snap))
	}
}
