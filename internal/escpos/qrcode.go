package escpos

import (
	qrcode "github.com/skip2/go-qrcode"
)

// Dot scale per QR module. 3 dots keeps a version-4 code under 58 mm
// paper width (384 dots) while staying scannable.
const qrModuleScale = 3

// qrRaster renders the payload as a GS v 0 raster block for firmwares
// without the native symbol command. The fallback on a generation error
// is a plain text line rather than a broken print job.
func qrRaster(data string) []byte {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return []byte("[QR ERROR]\n")
	}

	modules := qr.Bitmap()
	side := len(modules)
	dots := side * qrModuleScale
	stride := (dots + 7) / 8

	out := rasterHeader(stride, dots)
	for y := 0; y < dots; y++ {
		row := modules[y/qrModuleScale]
		for xb := 0; xb < stride; xb++ {
			var b byte
			for bit := 0; bit < 8; bit++ {
				x := xb*8 + bit
				if x < dots && row[x/qrModuleScale] {
					b |= 1 << uint(7-bit)
				}
			}
			out = append(out, b)
		}
	}
	return out
}
