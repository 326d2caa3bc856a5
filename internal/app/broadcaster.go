package app

import "sync"

// Update is one message fanned out to every viewer of the stream.
type Update struct {
	// JSON is the serialized frame record (or error record) for WebSocket viewers.
	JSON []byte
	// Display is the zoomed preview JPEG. Nil on error records.
	Display []byte
}

// Broadcaster fans updates out to subscribed viewers.
// A viewer that has not drained its buffer misses the update.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[int]chan Update
	nextID  int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[int]chan Update),
	}
}

// Subscribe registers a viewer and returns its id and update channel.
func (b *Broadcaster) Subscribe() (int, <-chan Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Update, 2)
	b.clients[id] = ch
	return id, ch
}

// Unsubscribe removes a viewer and closes its channel. It reports whether
// the viewer was still registered.
func (b *Broadcaster) Unsubscribe(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.clients[id]
	if !ok {
		return false
	}
	delete(b.clients, id)
	close(ch)
	return true
}

// Broadcast sends u to every viewer without blocking.
func (b *Broadcaster) Broadcast(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.clients {
		select {
		case ch <- u:
		default:
			// slow viewer, drop
		}
	}
}

// CloseAll disconnects every viewer.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.clients {
		delete(b.clients, id)
		close(ch)
	}
}

// Count returns the number of subscribed viewers.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
