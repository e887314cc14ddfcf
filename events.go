package depot

type eventChannel interface {
	swap()
	release()
}

var _ eventChannel = &typedEventChannel[int]{}

// typedEventChannel double-buffers one event type. Sends accumulate in the
// write buffer; receivers see the read buffer filled by the previous swap.
// The swap exchanges the buffers and clears the new write side, so events
// are delivered for exactly one frame and never replayed.
type typedEventChannel[T any] struct {
	write []T
	read  []T
}

func (ch *typedEventChannel[T]) swap() {
	ch.read, ch.write = ch.write, ch.read[:0]
}

func (ch *typedEventChannel[T]) release() {
	ch.write = nil
	ch.read = nil
}

// EventType is the typed handle for a registered event type.
type EventType[T any] struct {
	id int
}

// Send appends v to the channel's write buffer. It becomes visible to
// receivers after the next swap.
func (t EventType[T]) Send(w *World, v T) {
	ch := w.events[t.id].(*typedEventChannel[T])
	ch.write = append(ch.write, v)
}

// Receive returns the events delivered by the previous swap. The slice may
// be iterated any number of times within a stage; it is cleared by the next
// swap and must not be retained across one.
func (t EventType[T]) Receive(w *World) []T {
	return w.events[t.id].(*typedEventChannel[T]).read
}

// Pending returns the number of events waiting in the write buffer.
func (t EventType[T]) Pending(w *World) int {
	return len(w.events[t.id].(*typedEventChannel[T]).write)
}
