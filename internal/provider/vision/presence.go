// Package vision reduces an uploaded image to a visible-injury presence hint.
// It performs no real image analysis.
package vision

import (
	"context"
	"errors"
	"net/http"
)

// MaxImageBytes bounds accepted uploads.
const MaxImageBytes = 10 << 20

// ErrTooLarge is returned for images above MaxImageBytes.
var ErrTooLarge = errors.New("vision: image too large")

var supported = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Presence treats any decodable-looking image as showing a visible injury.
type Presence struct{}

// HasVisibleInjury reports true for a non-empty PNG, JPEG, GIF or WebP payload.
func (Presence) HasVisibleInjury(ctx context.Context, image []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(image) == 0 {
		return false, nil
	}
	if len(image) > MaxImageBytes {
		return false, ErrTooLarge
	}
	return supported[http.DetectContentType(image)], nil
}
