package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	c := Fixed{T: t0}
	assert.Equal(t, t0, c.Now())
	assert.Equal(t, t0, c.Now())
}

func TestFunc(t *testing.T) {
	calls := 0
	c := Func(func() time.Time {
		calls++
		return time.Unix(int64(calls), 0)
	})
	assert.Equal(t, int64(1), c.Now().Unix())
	assert.Equal(t, int64(2), c.Now().Unix())
}

func TestManual_Advance(t *testing.T) {
	t0 := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	m := NewManual(t0)
	assert.Equal(t, t0, m.Now())

	m.Advance(90 * time.Second)
	assert.Equal(t, t0.Add(90*time.Second), m.Now())
}
