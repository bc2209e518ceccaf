package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestHasVisibleInjury(t *testing.T) {
	ctx := context.Background()
	var p Presence

	ok, err := p.HasVisibleInjury(ctx, pngHeader)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.HasVisibleInjury(ctx, []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.HasVisibleInjury(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.HasVisibleInjury(ctx, []byte("just some text"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasVisibleInjury_TooLarge(t *testing.T) {
	big := make([]byte, MaxImageBytes+1)
	copy(big, pngHeader)

	_, err := Presence{}.HasVisibleInjury(context.Background(), big)
	require.ErrorIs(t, err, ErrTooLarge)
}
