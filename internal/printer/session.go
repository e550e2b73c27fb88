package printer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"warungpos/printerd/internal/escpos"
	"warungpos/printerd/internal/model"
	"warungpos/printerd/internal/receipt"
)

// Settings keys owned by the session.
const (
	SettingPrinterAddress = "printer_address"
	SettingPrinterName    = "printer_name"
	SettingPaperWidth     = "paper_width"
	SettingDrawerKick     = "drawer_kick"
	SettingRasterQR       = "raster_qr"
)

// SettingsStore is the durable key-value collaborator. Get returns ""
// without error for a missing key.
type SettingsStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// Session is the public surface the POS UI calls. It owns the connection
// state and the persisted last-known printer; print jobs are strictly
// serialized because interleaved writes over one serial link corrupt the
// output.
type Session struct {
	manager   *Manager
	transport Transport
	store     SettingsStore

	// ScanWindow bounds one discovery pass; capped at the package ceiling.
	ScanWindow time.Duration

	// DefaultPaperWidth applies when no paper_width setting is stored.
	DefaultPaperWidth int

	mu       sync.Mutex
	printing bool

	now func() time.Time
}

func NewSession(transport Transport, store SettingsStore) *Session {
	return &Session{
		manager:           NewManager(transport),
		transport:         transport,
		store:             store,
		ScanWindow:        maxScanWindow,
		DefaultPaperWidth: escpos.Paper58.CharacterWidth,
		now:               time.Now,
	}
}

// Start attempts a silent background reconnect to the last-known printer.
// The user hasn't asked for a connection yet, so failure is only logged.
func (s *Session) Start(ctx context.Context) {
	device, ok := s.lastKnown()
	if !ok {
		return
	}
	go func() {
		if err := s.manager.Connect(ctx, device); err != nil {
			slog.Info("Startup reconnect failed, waiting for an explicit connect",
				"address", device.Address, "error", err)
		}
	}()
}

// ScanDevices runs one discovery pass. Connection state is untouched. A
// scan during an in-flight print is refused: the radio can't be trusted
// to multiplex discovery with an RFCOMM write.
func (s *Session) ScanDevices(ctx context.Context) ([]Device, error) {
	if s.isPrinting() {
		return nil, ErrBusyPrinting
	}
	return Discover(ctx, s.transport, s.ScanWindow)
}

// Connect links to the device and, on success, persists it as the
// last-known printer for later reconnection.
func (s *Session) Connect(ctx context.Context, device Device) error {
	if err := s.manager.Connect(ctx, device); err != nil {
		return err
	}
	if err := s.store.Put(SettingPrinterAddress, CanonicalAddress(device.Address)); err != nil {
		slog.Warn("Couldn't persist printer address", "error", err)
	}
	if err := s.store.Put(SettingPrinterName, device.Name); err != nil {
		slog.Warn("Couldn't persist printer name", "error", err)
	}
	return nil
}

// Disconnect tears the link down. forget additionally drops the persisted
// last-known printer; a transient disconnect keeps it.
func (s *Session) Disconnect(forget bool) {
	s.manager.Disconnect()
	if forget {
		if err := s.store.Delete(SettingPrinterAddress); err != nil {
			slog.Warn("Couldn't forget printer address", "error", err)
		}
		if err := s.store.Delete(SettingPrinterName); err != nil {
			slog.Warn("Couldn't forget printer name", "error", err)
		}
	}
}

func (s *Session) Status() (State, Device, error) {
	return s.manager.Status()
}

// PrintReceipt builds, encodes and prints the customer receipt,
// connecting to the last-known printer first if no link is up.
func (s *Session) PrintReceipt(ctx context.Context, order model.Order, items []model.OrderItem, settings model.RestaurantSettings) error {
	doc := receipt.Build(order, items, settings)
	profile := s.profile()
	profile.KickDrawer = s.drawerEnabled() && strings.EqualFold(order.PaymentMethod, "cash")
	return s.printDocument(ctx, doc, profile)
}

// PrintKitchenTicket prints the no-pricing kitchen copy of an order.
func (s *Session) PrintKitchenTicket(ctx context.Context, order model.Order, items []model.OrderItem, settings model.RestaurantSettings) error {
	return s.printDocument(ctx, receipt.BuildKitchen(order, items, settings), s.profile())
}

// TestPrint sends the fixed diagnostic document, validating connectivity
// without a real transaction.
func (s *Session) TestPrint(ctx context.Context, settings model.RestaurantSettings) error {
	return s.printDocument(ctx, receipt.BuildTest(settings, s.now()), s.profile())
}

func (s *Session) printDocument(ctx context.Context, doc *receipt.Document, profile escpos.Profile) error {
	s.mu.Lock()
	if s.printing {
		s.mu.Unlock()
		return ErrAlreadyPrinting
	}
	s.printing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.printing = false
		s.mu.Unlock()
	}()

	data := escpos.Encode(doc, profile)

	if !s.manager.IsConnected() {
		device, ok := s.lastKnown()
		if !ok {
			return ErrNoPrinterConfigured
		}
		if err := s.manager.Connect(ctx, device); err != nil {
			return err
		}
	}
	return s.manager.Write(ctx, data)
}

func (s *Session) isPrinting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printing
}

func (s *Session) lastKnown() (Device, bool) {
	addr, err := s.store.Get(SettingPrinterAddress)
	if err != nil {
		slog.Warn("Couldn't read last-known printer", "error", err)
		return Device{}, false
	}
	if strings.TrimSpace(addr) == "" {
		return Device{}, false
	}
	name, err := s.store.Get(SettingPrinterName)
	if err != nil || name == "" {
		name = unknownDeviceName
	}
	return Device{Name: name, Address: CanonicalAddress(addr)}, true
}

func (s *Session) profile() escpos.Profile {
	profile := escpos.Profile{CharacterWidth: s.DefaultPaperWidth}
	if profile.CharacterWidth <= 0 {
		profile.CharacterWidth = escpos.Paper58.CharacterWidth
	}
	if width, err := s.store.Get(SettingPaperWidth); err == nil {
		switch strings.TrimSpace(width) {
		case "48", "80":
			profile.CharacterWidth = escpos.Paper80.CharacterWidth
		case "32", "58":
			profile.CharacterWidth = escpos.Paper58.CharacterWidth
		}
	}
	if raster, err := s.store.Get(SettingRasterQR); err == nil && raster == "true" {
		profile.RasterQR = true
	}
	return profile
}

func (s *Session) drawerEnabled() bool {
	v, err := s.store.Get(SettingDrawerKick)
	return err == nil && v == "true"
}
