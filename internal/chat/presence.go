package chat

// presenceEvent announces a room's new online count.
func presenceEvent(name string, online int) Event {
	return Event{Type: EventOnline, GroupName: name, Online: online}
}

// notifyPresence emits the new count to everyone in the room. Called with
// the room lock held, so all members observe presence changes in the same
// order the membership changes happened.
func (rm *room) notifyPresence(name string, online int) {
	ev := presenceEvent(name, online)
	for _, m := range rm.members {
		m.Deliver(ev)
	}
}
