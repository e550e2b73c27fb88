package printer

import "errors"

// Every fault a caller can see maps onto one of these kinds; raw
// transport errors never cross the session boundary.
var (
	ErrUnsupportedPlatform = errors.New("bluetooth classic serial is not available on this platform")
	ErrPermissionDenied    = errors.New("bluetooth permission denied")
	ErrRadioDisabled       = errors.New("bluetooth radio is disabled")
	ErrConnectTimeout      = errors.New("printer connection timed out")
	ErrConnectRefused      = errors.New("printer refused the connection")
	ErrWriteTimeout        = errors.New("printer write timed out")
	ErrWriteFailed         = errors.New("printer write failed")
	ErrNoPrinterConfigured = errors.New("no printer configured")
	ErrAlreadyPrinting     = errors.New("a print job is already in flight")
	ErrBusyPrinting        = errors.New("printer is busy printing")
)

// Kind returns the stable token for an error, for API payloads.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedPlatform):
		return "UnsupportedPlatform"
	case errors.Is(err, ErrPermissionDenied):
		return "PermissionDenied"
	case errors.Is(err, ErrRadioDisabled):
		return "RadioDisabled"
	case errors.Is(err, ErrConnectTimeout):
		return "ConnectTimeout"
	case errors.Is(err, ErrConnectRefused):
		return "ConnectRefused"
	case errors.Is(err, ErrWriteTimeout):
		return "WriteTimeout"
	case errors.Is(err, ErrWriteFailed):
		return "WriteFailed"
	case errors.Is(err, ErrNoPrinterConfigured):
		return "NoPrinterConfigured"
	case errors.Is(err, ErrAlreadyPrinting):
		return "AlreadyPrinting"
	case errors.Is(err, ErrBusyPrinting):
		return "BusyPrinting"
	default:
		return "Unknown"
	}
}
