package printer

import (
	"context"
	"errors"
	"time"
)

const (
	// Hard ceiling on a scan: some stacks never signal completion.
	maxScanWindow = 15 * time.Second

	// Radio enable and permission grants are often transient failures on
	// first launch, so the pre-flight retries briefly before giving up.
	preflightAttempts = 3
	preflightBackoff  = 250 * time.Millisecond
)

// Discover runs one time-bounded scan and returns the de-duplicated
// device set, likely printers first. A timeout of zero (or anything past
// the ceiling) scans for the full window.
func Discover(ctx context.Context, t Transport, timeout time.Duration) ([]Device, error) {
	if err := preflight(t); err != nil {
		return nil, err
	}

	if timeout <= 0 || timeout > maxScanWindow {
		timeout = maxScanWindow
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	set := NewDeviceSet()
	err := t.Scan(scanCtx, func(desc Descriptor) {
		if dev, ok := Normalize(desc); ok {
			set.Add(dev)
		}
	})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return set.Devices(), nil
}

func preflight(t Transport) error {
	var err error
	for attempt := 0; attempt < preflightAttempts; attempt++ {
		if err = t.Ready(); err == nil {
			return nil
		}
		if errors.Is(err, ErrUnsupportedPlatform) {
			// Missing capability won't appear on retry.
			return err
		}
		time.Sleep(preflightBackoff * time.Duration(attempt+1))
	}
	return err
}
