package qrcode

import (
	"bytes"
	"image"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	qrc "github.com/skip2/go-qrcode"
)

// DefaultImageSize is the square pixel size used when a caller does not ask
// for a specific rendering size.
const DefaultImageSize = 512

// RenderPNG encodes the ciphertext string into a scannable QR PNG.
func RenderPNG(ciphertext string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultImageSize
	}
	return qrc.Encode(ciphertext, qrc.Medium, size)
}

// ScanPNG decodes a raster image back to the string it encodes. Corrupt
// images and images without a readable code both return ("", false); callers
// treat the two identically.
func ScanPNG(data []byte) (string, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}
	result, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", false
	}
	return result.GetText(), true
}
