package chat

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberStub struct {
	id string

	mu     sync.Mutex
	events []Event
}

func (m *memberStub) ID() string { return m.id }

func (m *memberStub) Deliver(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return true
}

func (m *memberStub) received() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// onlineCounts returns the Online values of presence events, in order.
func (m *memberStub) onlineCounts() []int {
	var out []int
	for _, ev := range m.received() {
		if ev.Type == EventOnline {
			out = append(out, ev.Online)
		}
	}
	return out
}

func (m *memberStub) countOf(typ string) int {
	n := 0
	for _, ev := range m.received() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestRegistry_JoinLeaveCounts(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}
	b := &memberStub{id: "b"}

	assert.Equal(t, 1, r.Join("CS101", a))
	assert.Equal(t, 2, r.Join("CS101", b))
	assert.Equal(t, 2, r.OnlineCount("CS101"))

	assert.Equal(t, 1, r.Leave("CS101", "a"))
	assert.Equal(t, 0, r.Leave("CS101", "b"))
	assert.Equal(t, 0, r.OnlineCount("CS101"))
}

func TestRegistry_RejoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}

	require.Equal(t, 1, r.Join("CS101", a))
	require.Equal(t, 1, r.Join("CS101", a))

	assert.Equal(t, 1, r.OnlineCount("CS101"))
	// A no-op rejoin is not a membership change, so only one presence event.
	assert.Equal(t, 1, a.countOf(EventOnline))
}

func TestRegistry_LeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}
	b := &memberStub{id: "b"}
	r.Join("CS101", a)
	r.Join("CS101", b)

	assert.Equal(t, 1, r.Leave("CS101", "a"))
	assert.Equal(t, 1, r.Leave("CS101", "a"))
	// The survivor saw its own join and exactly one event for the leave.
	assert.Equal(t, []int{2, 1}, b.onlineCounts())
}

func TestRegistry_UnknownRoomIsEmpty(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 0, r.OnlineCount("nope"))
	assert.Empty(t, r.MembersOf("nope"))
	assert.Equal(t, 0, r.Leave("nope", "ghost"))
	// Broadcasting into the void must not panic.
	r.Broadcast("nope", ErrorEvent("x"))
}

func TestRegistry_MembersOfSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Join("CS101", &memberStub{id: "a"})
	r.Join("CS101", &memberStub{id: "b"})
	r.Join("MATH2", &memberStub{id: "c"})

	assert.ElementsMatch(t, []string{"a", "b"}, r.MembersOf("CS101"))
	assert.ElementsMatch(t, []string{"c"}, r.MembersOf("MATH2"))
}

func TestRegistry_CountAlwaysMatchesMembers(t *testing.T) {
	r := NewRegistry()
	steps := []struct {
		join bool
		id   string
	}{
		{true, "a"}, {true, "b"}, {false, "a"}, {true, "c"},
		{false, "x"}, {true, "a"}, {false, "b"}, {false, "c"}, {false, "a"},
	}
	for _, s := range steps {
		if s.join {
			r.Join("CS101", &memberStub{id: s.id})
		} else {
			r.Leave("CS101", s.id)
		}
		assert.Equal(t, len(r.MembersOf("CS101")), r.OnlineCount("CS101"))
	}
}

func TestRegistry_PresenceOrderPerRoom(t *testing.T) {
	r := NewRegistry()
	anchor := &memberStub{id: "anchor"}
	r.Join("CS101", anchor)

	r.Join("CS101", &memberStub{id: "b"})
	r.Join("CS101", &memberStub{id: "c"})
	r.Leave("CS101", "b")

	assert.Equal(t, []int{1, 2, 3, 2}, anchor.onlineCounts())
}

func TestRegistry_EmptyRoomsAreSwept(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}

	r.Join("CS101", a)
	require.Equal(t, 1, r.RoomCount())

	r.Leave("CS101", "a")
	assert.Equal(t, 0, r.RoomCount())

	// A fresh join after the sweep lands in a live room.
	assert.Equal(t, 1, r.Join("CS101", a))
	assert.Equal(t, 1, r.OnlineCount("CS101"))
}

func TestRegistry_BroadcastExcept(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}
	b := &memberStub{id: "b"}
	r.Join("CS101", a)
	r.Join("CS101", b)

	r.BroadcastExcept("CS101", "a", typingEvent("alice"))

	assert.Equal(t, 0, a.countOf(EventTyping))
	assert.Equal(t, 1, b.countOf(EventTyping))
}

func TestRegistry_NoCrossRoomDelivery(t *testing.T) {
	r := NewRegistry()
	a := &memberStub{id: "a"}
	c := &memberStub{id: "c"}
	r.Join("CS101", a)
	r.Join("MATH2", c)

	r.Broadcast("CS101", typingEvent("alice"))

	assert.Equal(t, 1, a.countOf(EventTyping))
	assert.Equal(t, 0, c.countOf(EventTyping))
}

func TestRegistry_ConcurrentJoins(t *testing.T) {
	const n = 49
	r := NewRegistry()
	anchor := &memberStub{id: "anchor"}
	r.Join("CS101", anchor)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.Join("CS101", &memberStub{id: string(rune('A' + id))})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n+1, r.OnlineCount("CS101"))
	assert.Len(t, r.MembersOf("CS101"), n+1)

	// The anchor observed every count exactly once, strictly increasing:
	// membership changes and their presence events are serialized per room.
	counts := anchor.onlineCounts()
	require.Len(t, counts, n+1)
	assert.True(t, sort.IntsAreSorted(counts))
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, n+1, counts[n])
}
