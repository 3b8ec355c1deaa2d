package midi

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // registers the rtmidi driver
)

var ErrPortNotFound = errors.New("port not found")

// Manager handles MIDI port discovery and the bridge's own ports
type Manager struct {
	mu     sync.RWMutex
	opened []drivers.Port
}

// NewManager creates a new MIDI manager
func NewManager() *Manager {
	return &Manager{}
}

// Close closes every port opened through the manager and the driver
func (m *Manager) Close() {
	m.mu.Lock()
	for _, p := range m.opened {
		if err := p.Close(); err != nil {
			log.Printf("[midi] Failed to close %s: %v", p, err)
		}
	}
	m.opened = nil
	m.mu.Unlock()

	midi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by exact name
func (m *Manager) GetInPort(name string) (drivers.In, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, name)
}

// GetOutPort returns an output port by exact name
func (m *Manager) GetOutPort(name string) (drivers.Out, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range midi.GetOutPorts() {
		if out.String() == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, name)
}

func (m *Manager) rtmidi() (*rtmididrv.Driver, error) {
	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok {
		return nil, errors.New("virtual ports need the rtmidi driver")
	}
	return drv, nil
}

// OpenOutput returns a send function for the named output. With virtual
// set the manager creates the port itself so the host sees it under name;
// otherwise an existing port with that exact name is used.
func (m *Manager) OpenOutput(name string, virtual bool) (func(midi.Message) error, error) {
	var out drivers.Out
	var err error

	if virtual {
		drv, derr := m.rtmidi()
		if derr != nil {
			return nil, derr
		}
		out, err = drv.OpenVirtualOut(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open virtual output %q: %w", name, err)
		}
		m.track(out)
		log.Printf("[midi] Virtual port '%s' opened.", name)
	} else {
		out, err = m.GetOutPort(name)
		if err != nil {
			return nil, err
		}
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	return send, nil
}

// MessageCallback receives every message from a listened port
type MessageCallback func(msg midi.Message)

// StartListening delivers messages from the named input to callback until
// the returned stop function is called
func (m *Manager) StartListening(name string, virtual bool, callback MessageCallback) (func(), error) {
	var in drivers.In
	var err error

	if virtual {
		drv, derr := m.rtmidi()
		if derr != nil {
			return nil, derr
		}
		in, err = drv.OpenVirtualIn(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open virtual input %q: %w", name, err)
		}
		m.track(in)
		log.Printf("[midi] Virtual port '%s' opened.", name)
	} else {
		in, err = m.GetInPort(name)
		if err != nil {
			return nil, err
		}
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		callback(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start listening: %w", err)
	}
	return stop, nil
}

func (m *Manager) track(p drivers.Port) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, p)
}

// Sender forwards messages to one output and counts what got through
type Sender struct {
	name string
	send func(midi.Message) error
	sent atomic.Uint64
}

// NewSender wraps send for the port called name
func NewSender(name string, send func(midi.Message) error) *Sender {
	return &Sender{name: name, send: send}
}

// Send forwards msg, adding the port name to any error
func (s *Sender) Send(msg midi.Message) error {
	if err := s.send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", s.name, err)
	}
	s.sent.Add(1)
	return nil
}

// Sent returns the number of messages delivered so far
func (s *Sender) Sent() uint64 {
	return s.sent.Load()
}

// Name returns the output port name
func (s *Sender) Name() string {
	return s.name
}

// Recorder is an in-memory sink used when no MIDI output is available
type Recorder struct {
	mu   sync.Mutex
	msgs []midi.Message
	echo bool
}

// NewRecorder creates a recorder; with echo set every message is logged
func NewRecorder(echo bool) *Recorder {
	return &Recorder{echo: echo}
}

// Send records msg. It matches the signature of midi.SendTo's sender.
func (r *Recorder) Send(msg midi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	if r.echo {
		log.Printf("[midi] Mock sent: %s", msg)
	}
	return nil
}

// Messages returns a copy of everything sent so far
func (r *Recorder) Messages() []midi.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]midi.Message(nil), r.msgs...)
}
