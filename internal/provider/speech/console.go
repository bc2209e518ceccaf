// Package speech provides text-to-speech renderers. Console is a stand-in
// that reports what would be read aloud.
package speech

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// PreviewLength is how many runes of the text Console echoes.
const PreviewLength = 100

// Console writes a preview of each utterance to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Speak writes "Would read aloud: '<preview>...'" followed by a newline.
func (c *Console) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	preview := []rune(text)
	if len(preview) > PreviewLength {
		preview = preview[:PreviewLength]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "Would read aloud: '%s...'\n", string(preview)); err != nil {
		return fmt.Errorf("speech: writing preview: %w", err)
	}
	return nil
}
