// Package escpos turns a receipt document into the ESC/POS byte stream
// understood by Bluetooth Classic thermal printers. Everything here is a
// pure transformation; no I/O happens in this package.
package escpos

const (
	esc = 0x1B
	gs  = 0x1D
)

type Justify byte

const (
	JustifyLeft   Justify = 0x00
	JustifyCentre Justify = 0x01
	JustifyRight  Justify = 0x02
)

func initPrinter() []byte {
	return []byte{esc, '@'}
}

func setJustify(justify Justify) []byte {
	return []byte{esc, 'a', byte(justify)}
}

func setBold(on bool) []byte {
	if on {
		return []byte{esc, 'E', 0x01}
	}
	return []byte{esc, 'E', 0x00}
}

// setSize selects character scaling via GS !, width and height in 1..8.
func setSize(width, height byte) []byte {
	return []byte{gs, '!', ((width - 1) << 4) | (height - 1)}
}

func feedLines(n byte) []byte {
	return []byte{esc, 'd', n}
}

// cutPaper is a full cut. Firmwares that can't cut ignore it harmlessly.
func cutPaper() []byte {
	return []byte{gs, 'V', 0x00}
}

// kickDrawer pulses drawer pin 2 (ESC p m t1 t2).
func kickDrawer() []byte {
	return []byte{esc, 'p', 0x00, 25, 250}
}

// rasterHeader starts a GS v 0 raster block of widthBytes*8 dots per row.
func rasterHeader(widthBytes, heightDots int) []byte {
	return []byte{
		gs, 'v', '0', 0x00,
		byte(widthBytes % 256), byte(widthBytes / 256),
		byte(heightDots % 256), byte(heightDots / 256),
	}
}

// qrSymbol emits a native GS ( k QR code: model 2, module size 6,
// error correction M, then store and print.
func qrSymbol(data string) []byte {
	payload := []byte(data)
	n := len(payload) + 3

	cmd := make([]byte, 0, len(payload)+32)
	cmd = append(cmd, gs, '(', 'k', 0x04, 0x00, 0x31, 0x41, 0x32, 0x00)
	cmd = append(cmd, gs, '(', 'k', 0x03, 0x00, 0x31, 0x43, 0x06)
	cmd = append(cmd, gs, '(', 'k', 0x03, 0x00, 0x31, 0x45, 0x31)
	cmd = append(cmd, gs, '(', 'k', byte(n%256), byte(n/256), 0x31, 0x50, 0x30)
	cmd = append(cmd, payload...)
	cmd = append(cmd, gs, '(', 'k', 0x03, 0x00, 0x31, 0x51, 0x30)
	return cmd
}
