package chat

import "sync"

// Member is a room participant able to accept events. Deliver must not
// block: implementations enqueue onto their own outbound pump and report
// whether the event was accepted.
type Member interface {
	ID() string
	Deliver(Event) bool
}

// Registry maps room names to their current members. The online count of a
// room is always len(members); it is never tracked separately, so it cannot
// drift from actual membership across abnormal disconnects.
//
// Locking: the registry mutex guards the room map, each room has its own
// mutex for membership and broadcast. Operations on different rooms run
// fully in parallel. Events are enqueued while the room lock is held, which
// gives every member of a room the same event order; no network I/O ever
// happens under a lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

type room struct {
	mu      sync.Mutex
	members map[string]Member
	gone    bool // removed from the registry, do not add members
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join adds m to the room, creating it on first join, and returns the new
// online count. Rejoining the current room is a no-op: the count is
// returned unchanged and no presence event fires. Every real membership
// change emits exactly one presence event to all members, joiner included.
func (r *Registry) Join(name string, m Member) int {
	for {
		r.mu.Lock()
		rm := r.rooms[name]
		if rm == nil {
			rm = &room{members: make(map[string]Member)}
			r.rooms[name] = rm
		}
		r.mu.Unlock()

		rm.mu.Lock()
		if rm.gone {
			// Lost a race with the empty-room sweep; look the room up again.
			rm.mu.Unlock()
			continue
		}
		if _, ok := rm.members[m.ID()]; ok {
			online := len(rm.members)
			rm.mu.Unlock()
			return online
		}
		rm.members[m.ID()] = m
		online := len(rm.members)
		rm.notifyPresence(name, online)
		rm.mu.Unlock()
		return online
	}
}

// Leave removes the session from the room and returns the new online
// count. Leaving a room it is not in, or an unknown room, is a no-op. The
// room entry is dropped once its last member leaves; an absent entry is
// indistinguishable from an empty room.
func (r *Registry) Leave(name, sessionID string) int {
	r.mu.RLock()
	rm := r.rooms[name]
	r.mu.RUnlock()
	if rm == nil {
		return 0
	}

	rm.mu.Lock()
	if _, ok := rm.members[sessionID]; !ok {
		online := len(rm.members)
		rm.mu.Unlock()
		return online
	}
	delete(rm.members, sessionID)
	online := len(rm.members)
	rm.notifyPresence(name, online)
	rm.mu.Unlock()

	if online == 0 {
		r.sweep(name, rm)
	}
	return online
}

// sweep removes a room that went empty, unless someone joined in between.
func (r *Registry) sweep(name string, rm *room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[name] != rm {
		return
	}
	rm.mu.Lock()
	if len(rm.members) == 0 {
		rm.gone = true
		delete(r.rooms, name)
	}
	rm.mu.Unlock()
}

// MembersOf returns a snapshot of the session ids currently in the room.
func (r *Registry) MembersOf(name string) []string {
	r.mu.RLock()
	rm := r.rooms[name]
	r.mu.RUnlock()
	if rm == nil {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	ids := make([]string, 0, len(rm.members))
	for id := range rm.members {
		ids = append(ids, id)
	}
	return ids
}

// OnlineCount reports how many sessions are in the room right now.
// An unknown room counts as empty.
func (r *Registry) OnlineCount(name string) int {
	r.mu.RLock()
	rm := r.rooms[name]
	r.mu.RUnlock()
	if rm == nil {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.members)
}

// RoomCount reports how many rooms currently have members.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Broadcast delivers ev to every current member of the room.
func (r *Registry) Broadcast(name string, ev Event) {
	r.broadcast(name, "", ev)
}

// BroadcastExcept delivers ev to every member except exceptID.
func (r *Registry) BroadcastExcept(name, exceptID string, ev Event) {
	r.broadcast(name, exceptID, ev)
}

func (r *Registry) broadcast(name, exceptID string, ev Event) {
	r.mu.RLock()
	rm := r.rooms[name]
	r.mu.RUnlock()
	if rm == nil {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	for id, m := range rm.members {
		if id == exceptID {
			continue
		}
		m.Deliver(ev)
	}
}
