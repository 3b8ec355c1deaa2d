package hardware

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

var ErrNotConnected = errors.New("device not connected")

// MockDevice stands in for the Nocturn when no hardware is attached.
// Simulated input is only delivered while connected.
type MockDevice struct {
	listeners

	mu        sync.Mutex
	connected bool
	leds      map[string]int
}

// NewMockDevice creates a disconnected mock
func NewMockDevice() *MockDevice {
	return &MockDevice{leds: make(map[string]int)}
}

func (d *MockDevice) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = true
	log.Printf("[hardware] Mock device connected.")
	return nil
}

func (d *MockDevice) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	log.Printf("[hardware] Mock device disconnected.")
	return nil
}

func (d *MockDevice) SetLED(id string, value int) error {
	if _, ok := LEDAddress(id); !ok {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.connected {
		return ErrNotConnected
	}
	d.leds[id] = value
	return nil
}

// LED returns the last value written to a control's LED
func (d *MockDevice) LED(id string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.leds[id]
	return v, ok
}

// SimulateTurn emits an encoder turn of delta steps
func (d *MockDevice) SimulateTurn(id string, delta int) {
	d.simulate(Event{SourceID: id, Type: EncoderTurn, Value: delta})
}

// SimulatePress emits a button press
func (d *MockDevice) SimulatePress(id string) {
	d.simulate(Event{SourceID: id, Type: ButtonPress, Value: 127})
}

// SimulateRelease emits a button release
func (d *MockDevice) SimulateRelease(id string) {
	d.simulate(Event{SourceID: id, Type: ButtonRelease, Value: 0})
}

// SimulateFader moves the crossfader to an absolute position
func (d *MockDevice) SimulateFader(id string, value int) {
	d.simulate(Event{SourceID: id, Type: CrossfaderMove, Value: value})
}

// SimulateReport feeds a raw USB report through the protocol parser
func (d *MockDevice) SimulateReport(report []byte) {
	if evt, ok := ParseReport(report); ok {
		d.simulate(evt)
	}
}

func (d *MockDevice) simulate(evt Event) {
	d.mu.Lock()
	connected := d.connected
	d.mu.Unlock()
	if !connected {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	d.emit(evt)
}
