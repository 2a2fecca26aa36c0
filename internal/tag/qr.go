package tag

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// NewTagPayload builds the string encoded into a company's check-in tag.
// The uuid makes reissued tags distinguishable from old ones.
func NewTagPayload(companyID uint) string {
	return fmt.Sprintf("workcheck:company:%d:%s", companyID, uuid.NewString())
}

// GenerateQR renders data as a QR code PNG and returns it base64-encoded,
// ready to embed in a data URI. size is the image edge length in pixels.
func GenerateQR(data string, size int) (string, error) {
	if data == "" {
		return "", fmt.Errorf("qr data is empty")
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(data, qrcode.Low, size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
