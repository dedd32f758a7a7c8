// Package events fans node messages out to registered listeners, such as
// websocket clients watching mining progress.
package events

import (
	"fmt"
	"sync"
)

// bufferSize is the number of messages a listener may fall behind before
// further messages are dropped for it.
const bufferSize = 100

// Events maps listener ids to their channels.
type Events struct {
	mu       sync.RWMutex
	m        map[string]chan string
	shutdown bool
}

// New constructs an empty set of listeners.
func New() *Events {
	return &Events{
		m: make(map[string]chan string),
	}
}

// Shutdown closes every listener channel. Acquire calls made after
// Shutdown return a closed channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
	evt.shutdown = true
}

// Acquire registers the id and returns the channel its messages arrive on.
// Acquiring an id twice returns the same channel.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.m[id]; exists {
		return ch
	}

	ch := make(chan string, bufferSize)
	if evt.shutdown {
		close(ch)
		return ch
	}

	evt.m[id] = ch
	return ch
}

// Release closes and removes the channel registered for id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Count returns the number of registered listeners.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}

// Send delivers the message to every listener without blocking. A listener
// with a full buffer misses the message.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- s:
		default:
		}
	}
}
