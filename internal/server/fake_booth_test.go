package server

import (
	"sync"

	"github.com/ayusman/photobooth/internal/app"
)

// fakeBooth is a Booth whose stream is fed by the test.
type fakeBooth struct {
	*app.Broadcaster

	mu          sync.Mutex
	toggles     int
	resets      int
	subscribed  chan struct{}
	unsubscribe chan int
}

func newFakeBooth() *fakeBooth {
	return &fakeBooth{
		Broadcaster: app.NewBroadcaster(),
		subscribed:  make(chan struct{}, 8),
		unsubscribe: make(chan int, 8),
	}
}

func (f *fakeBooth) Subscribe() (int, <-chan app.Update) {
	id, ch := f.Broadcaster.Subscribe()
	f.subscribed <- struct{}{}
	return id, ch
}

func (f *fakeBooth) Unsubscribe(id int) {
	f.Broadcaster.Unsubscribe(id)
	f.unsubscribe <- id
}

func (f *fakeBooth) ToggleMode() app.ModeStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	return app.ModeStatus{Mode: "ON", IsCapturing: true, Countdown: 5}
}

func (f *fakeBooth) Status() app.Status {
	return app.Status{Mode: "OFF", ZoomLevel: 1.0, MaxPhotos: 6}
}

func (f *fakeBooth) Reset() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return f.Status()
}
