package vision

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeQR extracts the payload of a QR code embedded in the image. The
// second return is false when the image carries no decodable code.
func DecodeQR(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil || result == nil {
		return "", false
	}

	text := result.GetText()
	if text == "" {
		return "", false
	}
	return text, true
}
