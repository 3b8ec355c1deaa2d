package main

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/PixPMusic/nocturn-studio/internal/engine"
	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"gitlab.com/gomidi/midi/v2"
)

// Bridge wires a controller to the host: hardware events go through the
// engine to the MIDI output, and new values come back as LED and panel
// feedback.
type Bridge struct {
	desc   *surface.Descriptor
	device hardware.Device
	engine *engine.Engine

	leds atomic.Bool

	mu      sync.RWMutex
	viewers []engine.FeedbackFunc
}

// NewBridge creates a bridge for a connected device, sending to send. The
// engine starts with mappings, or the descriptor defaults when mappings is
// empty.
func NewBridge(desc *surface.Descriptor, device hardware.Device, send func(midi.Message) error, mappings map[string]engine.Mapping) *Bridge {
	b := &Bridge{desc: desc, device: device}
	b.leds.Store(true)

	b.engine = engine.New(send, b.feedback)
	b.engine.WatchHost(desc)
	if len(mappings) == 0 {
		mappings = engine.DefaultMappings(desc)
	}
	b.engine.Load(mappings)

	device.AddListener(b.engine.HandleEvent)
	return b
}

// Engine returns the bridge's mapping engine
func (b *Bridge) Engine() *engine.Engine {
	return b.engine
}

// SetLEDFeedback turns LED updates on or off
func (b *Bridge) SetLEDFeedback(on bool) {
	b.leds.Store(on)
}

// OnValue registers a viewer for every value change
func (b *Bridge) OnValue(fn engine.FeedbackFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewers = append(b.viewers, fn)
}

// Close disconnects the device
func (b *Bridge) Close() {
	if err := b.device.Disconnect(); err != nil {
		log.Printf("[bridge] Failed to disconnect: %v", err)
	}
}

// HandleHostMessage applies a message coming back from the host
func (b *Bridge) HandleHostMessage(msg midi.Message) {
	b.engine.HandleHostMessage(msg)
}

func (b *Bridge) feedback(id string, value int) {
	if b.leds.Load() {
		if err := b.device.SetLED(id, value); err != nil && !errors.Is(err, hardware.ErrNotConnected) {
			log.Printf("[bridge] Failed to set LED %s: %v", id, err)
		}
	}

	b.mu.RLock()
	viewers := b.viewers
	b.mu.RUnlock()
	for _, fn := range viewers {
		fn(id, value)
	}
}
