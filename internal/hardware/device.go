// Package hardware talks to the Novation Nocturn over USB and turns its
// reports into control events.
package hardware

import (
	"context"
	"sync"
)

// Device is a connected controller that emits events and accepts LED
// feedback
type Device interface {
	// Connect opens the device and starts delivering events. ctx bounds
	// the lifetime of the reader.
	Connect(ctx context.Context) error

	// Disconnect stops the reader and releases the device
	Disconnect() error

	// AddListener registers a callback for every event
	AddListener(l Listener)

	// SetLED shows value (0-127) on the LED of a control
	SetLED(id string, value int) error
}

// listeners is the fan-out shared by device implementations
type listeners struct {
	mu  sync.RWMutex
	fns []Listener
}

func (l *listeners) AddListener(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *listeners) emit(evt Event) {
	l.mu.RLock()
	fns := l.fns
	l.mu.RUnlock()

	for _, fn := range fns {
		fn(evt)
	}
}
