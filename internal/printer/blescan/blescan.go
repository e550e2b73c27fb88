// Package blescan binds the printer transport to tinygo's cross-platform
// bluetooth stack. Serial printer modules expose the 0xFF00 service with a
// writable 0xFF02 characteristic, which this adapter treats as the RFCOMM
// write channel.
package blescan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tinygo.org/x/bluetooth"

	"warungpos/printerd/internal/printer"
)

type characteristicKind byte

const (
	serviceUUID characteristicKind = 0x00
	writerUUID  characteristicKind = 0x02
)

func uuidFor(kind characteristicKind) bluetooth.UUID {
	return bluetooth.NewUUID([16]byte{
		0x00, 0x00, 0xff, byte(kind), 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
	})
}

// Serial buffers on these printer modules are small; larger writes get
// silently truncated by some stacks.
const writeChunkSize = 128

type Transport struct {
	adapter *bluetooth.Adapter

	mu        sync.Mutex
	enabled   bool
	connected bool
	device    bluetooth.Device
	writer    bluetooth.DeviceCharacteristic
}

func New() *Transport {
	return &Transport{adapter: bluetooth.DefaultAdapter}
}

// Ready enables the default adapter once. An enable failure means the
// radio is off or the process lacks bluetooth access.
func (t *Transport) Ready() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return nil
	}
	if err := t.adapter.Enable(); err != nil {
		return fmt.Errorf("%w: %v", printer.ErrRadioDisabled, err)
	}
	t.enabled = true
	return nil
}

func (t *Transport) Scan(ctx context.Context, found func(printer.Descriptor)) error {
	if err := t.Ready(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- t.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			found(printer.Descriptor{
				LocalName: result.LocalName(),
				Address:   result.Address.String(),
			})
		})
	}()

	select {
	case <-ctx.Done():
		if err := t.adapter.StopScan(); err != nil {
			slog.Debug("Couldn't stop scan", "error", err)
		}
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (t *Transport) Connect(_ context.Context, address string) error {
	if err := t.Ready(); err != nil {
		return err
	}

	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return fmt.Errorf("invalid printer address %q: %w", address, err)
	}

	device, err := t.adapter.Connect(
		bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}},
		bluetooth.ConnectionParams{},
	)
	if err != nil {
		return err
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{uuidFor(serviceUUID)})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("serial service not found: %w", err)
	}
	characteristics, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{uuidFor(writerUUID)})
	if err != nil {
		device.Disconnect()
		return fmt.Errorf("writer characteristic not found: %w", err)
	}

	t.mu.Lock()
	t.device = device
	t.writer = characteristics[0]
	t.connected = true
	t.mu.Unlock()
	return nil
}

func (t *Transport) Write(ctx context.Context, data []byte) error {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return fmt.Errorf("not connected")
	}
	writer := t.writer
	t.mu.Unlock()

	for offset := 0; offset < len(data); offset += writeChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := offset + writeChunkSize
		if end > len(data) {
			end = len(data)
		}
		if _, err := writer.WriteWithoutResponse(data[offset:end]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.device.Disconnect()
}

func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}
