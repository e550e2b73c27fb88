package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Printing
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Printing:
		return "printing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	defaultConnectTimeout = 12 * time.Second
	defaultWriteTimeout   = 6 * time.Second

	// Bluetooth Classic stacks misbehave on back-to-back sessions, so a
	// forced disconnect is followed by a short settle before reconnecting.
	settleDelay = 400 * time.Millisecond

	// Slow serial links truncate output when torn down right after a
	// write; disconnects wait this long after the last write.
	drainDelay = 300 * time.Millisecond
)

// Manager is the connection state machine. It is the sole mutator of
// transport state; all faults leave it in Disconnected or Failed and are
// translated into the package error kinds.
type Manager struct {
	mu        sync.Mutex
	transport Transport

	state     State
	device    Device
	reason    error
	lastWrite time.Time

	connectTimeout time.Duration
	writeTimeout   time.Duration

	sleep func(time.Duration)
	trace func(State)
}

func NewManager(t Transport) *Manager {
	return &Manager{
		transport:      t,
		state:          Disconnected,
		connectTimeout: defaultConnectTimeout,
		writeTimeout:   defaultWriteTimeout,
		sleep:          time.Sleep,
	}
}

func (m *Manager) setState(s State) {
	m.state = s
	if m.trace != nil {
		m.trace(s)
	}
}

// Connect establishes a link to the device. Pre-flight failures abort
// without any connection attempt. A connect while already linked to a
// different device force-disconnects the old link first, best-effort,
// and waits out the settle delay.
func (m *Manager) Connect(ctx context.Context, device Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := preflight(m.transport); err != nil {
		m.setState(Disconnected)
		return err
	}

	if m.state == Connected && m.device.SameAs(device) && m.transport.Connected() {
		return nil
	}
	if m.state == Connected || m.state == Failed {
		if err := m.transport.Disconnect(); err != nil {
			slog.Debug("Couldn't disconnect stale link", "error", err)
		}
		m.setState(Disconnected)
		m.sleep(settleDelay)
	}

	m.setState(Connecting)
	err := runWithTimeout(ctx, m.connectTimeout, ErrConnectTimeout, func(opCtx context.Context) error {
		return m.transport.Connect(opCtx, device.Address)
	})
	if err != nil {
		// No prior session existed, so a failed connect lands back in
		// Disconnected rather than Failed.
		m.setState(Disconnected)
		slog.Error("Couldn't connect to printer", "address", device.Address, "error", err)
		if isKind(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrConnectRefused, err)
	}

	m.device = device
	m.reason = nil
	m.setState(Connected)
	slog.Info("Connected to printer", "name", device.Name, "address", device.Address)
	return nil
}

// Write sends one encoded job over the link. Success keeps the link in
// Connected; failure demotes it to Failed and attempts a best-effort
// cleanup disconnect whose own error is swallowed.
func (m *Manager) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Connected {
		return fmt.Errorf("%w: link is %s", ErrWriteFailed, m.state)
	}

	m.setState(Printing)
	err := runWithTimeout(ctx, m.writeTimeout, ErrWriteTimeout, func(opCtx context.Context) error {
		return m.transport.Write(opCtx, data)
	})
	if err != nil {
		if !isKind(err) {
			err = fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		m.reason = err
		m.setState(Failed)
		if derr := m.transport.Disconnect(); derr != nil {
			slog.Debug("Cleanup disconnect failed", "error", derr)
		}
		slog.Error("Couldn't write to printer", "size", len(data), "error", err)
		return err
	}

	m.lastWrite = time.Now()
	m.setState(Connected)
	slog.Debug("Wrote job to printer", "size", len(data))
	return nil
}

// Disconnect always succeeds from the caller's point of view: the
// transport teardown is best-effort and state is reset regardless.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if wait := drainDelay - time.Since(m.lastWrite); wait > 0 && m.state == Connected {
		m.sleep(wait)
	}
	if m.state != Disconnected {
		if err := m.transport.Disconnect(); err != nil {
			slog.Debug("Transport disconnect failed", "error", err)
		}
	}
	m.device = Device{}
	m.reason = nil
	m.setState(Disconnected)
}

func (m *Manager) Status() (State, Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.device, m.reason
}

func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Connected && m.transport.Connected()
}

// runWithTimeout bounds one transport operation. Expiry is reported as
// timeoutErr, identically to an explicit failure callback from the stack.
func runWithTimeout(ctx context.Context, d time.Duration, timeoutErr error, fn func(context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(opCtx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return timeoutErr
		}
		return err
	case <-opCtx.Done():
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return timeoutErr
		}
		return opCtx.Err()
	}
}

func isKind(err error) bool {
	return Kind(err) != "Unknown"
}
