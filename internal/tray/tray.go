// Package tray provides an optional system tray menu for the photobooth.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func() bool
	onReset  func()
	onOpen   func()
	onQuit   func()
	mu       sync.RWMutex

	capturing bool
	photos    int
	maxPhotos int

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback run when capture mode is toggled. It returns
// whether the booth is now capturing.
func (t *Tray) OnToggle(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback run when the photos are reset.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnOpen sets the callback run when the UI menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Photobooth")
	systray.SetTooltip("Gesture Photobooth")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.capturing), "Start or stop the capture countdown")
	t.menuStatus = systray.AddMenuItem(statusTitle(t.photos, t.maxPhotos), "Photos in the current collection")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuReset := systray.AddMenuItem("Reset Photos", "Clear the current collection")
	menuOpen := systray.AddMenuItem("Open Photobooth...", "Open the photobooth in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Photobooth")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.run(func() func() { return t.onReset })
			case <-menuOpen.ClickedCh:
				t.run(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	callback := t.onToggle
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback == nil {
		return
	}
	capturing := callback()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.capturing = capturing
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(capturing))
	}
}

// run invokes the callback selected under the read lock.
func (t *Tray) run(pick func() func()) {
	t.mu.RLock()
	callback := pick()
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.run(func() func() { return t.onQuit })
	systray.Quit()
}

// SetStatus updates the capture state and photo count shown in the menu.
func (t *Tray) SetStatus(capturing bool, photos, maxPhotos int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.capturing = capturing
	t.photos = photos
	t.maxPhotos = maxPhotos

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(capturing))
	}
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(photos, maxPhotos))
	}
}

// IsCapturing returns the last known capture state.
func (t *Tray) IsCapturing() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.capturing
}

func toggleTitle(capturing bool) string {
	if capturing {
		return "● Capturing (click to stop)"
	}
	return "○ Start Capture"
}

func statusTitle(photos, maxPhotos int) string {
	if maxPhotos <= 0 {
		return fmt.Sprintf("Photos: %d", photos)
	}
	return fmt.Sprintf("Photos: %d/%d", photos, maxPhotos)
}
