// Package printer owns everything between a built receipt byte stream and
// the serial link: device discovery, the connection state machine and the
// session facade the POS UI talks to. It is transport-agnostic; platform
// bindings live in the blescan and serialport subpackages.
package printer

import "context"

// Descriptor is the raw device record a transport reports during a scan.
// Different plugin stacks expose the name and address under different
// fields, so all of them are carried and normalized in one place.
type Descriptor struct {
	Name       string
	DeviceName string
	LocalName  string

	Address    string
	MACAddress string
	ID         string
}

// Transport is the minimal capability a platform must provide: a scan
// primitive, connect/write/disconnect against one device, and an
// is-connected query.
//
// Ready is the pre-flight: it verifies the capability exists and the radio
// is usable, acquiring runtime permissions where the host OS requires
// them. It fails with ErrUnsupportedPlatform, ErrRadioDisabled or
// ErrPermissionDenied.
//
// Scan reports every sighting, duplicates included, until ctx is done or
// the platform stops on its own. Contexts on Connect and Write bound the
// individual operation.
type Transport interface {
	Ready() error
	Scan(ctx context.Context, found func(Descriptor)) error
	Connect(ctx context.Context, address string) error
	Write(ctx context.Context, data []byte) error
	Disconnect() error
	Connected() bool
}
