// Package membercard renders the scannable member identifier shown on the
// profile page.
package membercard

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Size is the rendered QR image size in pixels
const Size = 256

// Payload builds the deterministic per-user identifier string
func Payload(userID uint, username string) string {
	return fmt.Sprintf("MEMBER-%d-%s", userID, username)
}

// DataURL renders the member identifier as a PNG data URL, ready to be
// dropped into an <img src> by the presentation layer.
func DataURL(userID uint, username string) (string, error) {
	png, err := qrcode.Encode(Payload(userID, username), qrcode.Medium, Size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
