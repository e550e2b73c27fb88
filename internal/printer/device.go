package printer

import "strings"

// Device is the canonical printer record. Address is the identity key;
// Name is display-only and may be a generic placeholder.
type Device struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

const unknownDeviceName = "Unknown Device"

// Two devices are the same iff their addresses match case-insensitively.
func (d Device) SameAs(other Device) bool {
	return d.Address != "" && strings.EqualFold(d.Address, other.Address)
}

// CanonicalAddress uppercases a MAC-like address. Serial device paths
// are case-sensitive and pass through trimmed only.
func CanonicalAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if strings.Count(addr, ":") == 5 {
		return strings.ToUpper(addr)
	}
	return addr
}

// Normalize collapses the heterogeneous descriptor shapes into a Device.
// Entries with no resolvable address are discarded.
func Normalize(desc Descriptor) (Device, bool) {
	addr := firstNonEmpty(desc.Address, desc.MACAddress, desc.ID)
	if strings.TrimSpace(addr) == "" {
		return Device{}, false
	}
	name := firstNonEmpty(desc.Name, desc.DeviceName, desc.LocalName)
	if strings.TrimSpace(name) == "" {
		name = unknownDeviceName
	}
	return Device{Name: name, Address: CanonicalAddress(addr)}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Name fragments of common thermal printer vendors. Matching devices are
// listed first as a convenience for the UI, nothing more.
var vendorTokens = []string{
	"RPP", "GOOJPRT", "EPSON", "ZJ-", "MTP-", "PT-", "POS", "PRINTER", "BLUEPRINT",
}

func looksLikePrinter(name string) bool {
	upper := strings.ToUpper(name)
	for _, token := range vendorTokens {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}

// DeviceSet accumulates scan sightings keyed by address. It is scoped to
// one scan: last-seen wins on conflicting names, insertion order is kept.
type DeviceSet struct {
	order   []string
	devices map[string]Device
}

func NewDeviceSet() *DeviceSet {
	return &DeviceSet{devices: make(map[string]Device)}
}

func (s *DeviceSet) Add(d Device) {
	key := CanonicalAddress(d.Address)
	if key == "" {
		return
	}
	if _, seen := s.devices[key]; !seen {
		s.order = append(s.order, key)
	}
	d.Address = key
	s.devices[key] = d
}

func (s *DeviceSet) Len() int {
	return len(s.order)
}

// Devices returns the set with likely printers first, preserving
// discovery order within each group.
func (s *DeviceSet) Devices() []Device {
	out := make([]Device, 0, len(s.order))
	for _, key := range s.order {
		if d := s.devices[key]; looksLikePrinter(d.Name) {
			out = append(out, d)
		}
	}
	for _, key := range s.order {
		if d := s.devices[key]; !looksLikePrinter(d.Name) {
			out = append(out, d)
		}
	}
	return out
}
