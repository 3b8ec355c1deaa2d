package hardware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/gousb"
)

var ErrNotFound = errors.New("nocturn not found on USB bus")

const (
	reportSize   = 8
	readTimeout  = 10 * time.Millisecond
	writeTimeout = 10 * time.Millisecond
)

// USBDevice is a Nocturn attached over USB
type USBDevice struct {
	listeners

	mu     sync.Mutex
	ctx    *gousb.Context
	dev    *gousb.Device
	done   func()
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewUSBDevice creates an unconnected device
func NewUSBDevice() *USBDevice {
	return &USBDevice{}
}

// Connect finds the Nocturn, claims its interface, sends the init
// sequence and starts the reader goroutine
func (d *USBDevice) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	log.Printf("[hardware] Searching for VID:0x%04X PID:0x%04X...", VendorID, ProductID)

	usb := gousb.NewContext()
	dev, err := usb.OpenDeviceWithVIDPID(gousb.ID(VendorID), gousb.ID(ProductID))
	if err != nil {
		usb.Close()
		return fmt.Errorf("failed to open device: %w", err)
	}
	if dev == nil {
		usb.Close()
		return ErrNotFound
	}

	if err := dev.SetAutoDetach(true); err != nil {
		log.Printf("[hardware] Warning: could not enable kernel driver auto-detach: %v", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		usb.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	in, out, err := findEndpoints(intf)
	if err != nil {
		done()
		dev.Close()
		usb.Close()
		return err
	}

	d.ctx, d.dev, d.done, d.in, d.out = usb, dev, done, in, out

	for _, report := range InitReports() {
		if err := d.write(report); err != nil {
			d.closeLocked()
			return fmt.Errorf("failed to initialise device: %w", err)
		}
	}

	readCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.wg.Add(1)
	go d.readLoop(readCtx, in)

	log.Printf("[hardware] Connected to Novation Nocturn over USB.")
	return nil
}

func findEndpoints(intf *gousb.Interface) (*gousb.InEndpoint, *gousb.OutEndpoint, error) {
	var inNum, outNum = -1, -1
	for _, ep := range intf.Setting.Endpoints {
		if ep.Direction == gousb.EndpointDirectionIn && inNum < 0 {
			inNum = ep.Number
		} else if ep.Direction == gousb.EndpointDirectionOut && outNum < 0 {
			outNum = ep.Number
		}
	}
	if inNum < 0 || outNum < 0 {
		return nil, nil, fmt.Errorf("could not find endpoints on %s", intf)
	}

	in, err := intf.InEndpoint(inNum)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open IN endpoint %d: %w", inNum, err)
	}
	out, err := intf.OutEndpoint(outNum)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open OUT endpoint %d: %w", outNum, err)
	}
	return in, out, nil
}

func (d *USBDevice) readLoop(ctx context.Context, in *gousb.InEndpoint) {
	defer d.wg.Done()

	buf := make([]byte, reportSize)
	for {
		if ctx.Err() != nil {
			return
		}

		readCtx, cancel := context.WithTimeout(ctx, readTimeout)
		n, err := in.ReadContext(readCtx, buf)
		timedOut := readCtx.Err() != nil
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// an idle controller times out every poll
			if timedOut || errors.Is(err, gousb.TransferTimedOut) {
				continue
			}
			log.Printf("[hardware] Read error: %v", err)
			return
		}

		if evt, ok := ParseReport(buf[:n]); ok {
			d.emit(evt)
		}
	}
}

// SetLED writes value to the LED of the control, if it has one
func (d *USBDevice) SetLED(id string, value int) error {
	addr, ok := LEDAddress(id)
	if !ok {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(LEDReport(addr, value))
}

func (d *USBDevice) write(report []byte) error {
	if d.out == nil {
		return ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := d.out.WriteContext(ctx, report); err != nil {
		return fmt.Errorf("write % X: %w", report, err)
	}
	return nil
}

// Disconnect stops the reader and releases USB resources
func (d *USBDevice) Disconnect() error {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *USBDevice) closeLocked() error {
	if d.done != nil {
		d.done()
		d.done = nil
	}
	var err error
	if d.dev != nil {
		err = d.dev.Close()
		d.dev = nil
	}
	if d.ctx != nil {
		if cerr := d.ctx.Close(); err == nil {
			err = cerr
		}
		d.ctx = nil
	}
	d.in, d.out = nil, nil
	return err
}
