// Package serialport binds the printer transport to plain serial nodes:
// rfcomm-bound devices on Linux, Bluetooth COM ports on Windows, cu.*
// nodes on macOS. Discovery here is port enumeration, not radio scanning,
// so it completes immediately.
package serialport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.bug.st/serial"

	"warungpos/printerd/internal/printer"
)

// 9600 8N1 is the default for most thermal receipt printers.
const defaultBaudRate = 9600

var portMarkers = []string{"rfcomm", "COM", "ttyUSB", "ttyACM", "Bluetooth", "usbserial"}

type Transport struct {
	mu       sync.Mutex
	port     serial.Port
	baudRate int
}

func New() *Transport {
	return &Transport{baudRate: defaultBaudRate}
}

// Ready verifies the platform can enumerate serial ports at all.
func (t *Transport) Ready() error {
	if _, err := serial.GetPortsList(); err != nil {
		return fmt.Errorf("%w: %v", printer.ErrUnsupportedPlatform, err)
	}
	return nil
}

func (t *Transport) Scan(ctx context.Context, found func(printer.Descriptor)) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("%w: %v", printer.ErrUnsupportedPlatform, err)
	}
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !candidatePort(port) {
			continue
		}
		found(printer.Descriptor{
			Name:    filepath.Base(port),
			Address: port,
		})
	}
	return nil
}

func candidatePort(port string) bool {
	for _, marker := range portMarkers {
		if strings.Contains(port, marker) {
			return true
		}
	}
	return false
}

func (t *Transport) Connect(_ context.Context, address string) error {
	mode := &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(address, mode)
	if err != nil {
		return fmt.Errorf("couldn't open port %s: %w", address, err)
	}

	t.mu.Lock()
	t.port = port
	t.mu.Unlock()
	return nil
}

// Write pushes the whole job in one call: splitting it introduces
// inter-command delays that garble output on some printers.
func (t *Transport) Write(_ context.Context, data []byte) error {
	t.mu.Lock()
	port := t.port
	t.mu.Unlock()
	if port == nil {
		return fmt.Errorf("not connected")
	}
	if _, err := port.Write(data); err != nil {
		return err
	}
	return port.Drain()
}

func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}
