// Package clock abstracts the current time so incident timers can be driven
// deterministically in tests.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

// Now returns the fixed time.
func (c Fixed) Now() time.Time { return c.T }

// Func adapts a function to a Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// Manual is a settable clock for tests that need time to move.
type Manual struct {
	t time.Time
}

// NewManual returns a Manual clock starting at t.
func NewManual(t time.Time) *Manual { return &Manual{t: t} }

// Now returns the current manual time.
func (m *Manual) Now() time.Time { return m.t }

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) { m.t = m.t.Add(d) }

var (
	_ Clock = Real{}
	_ Clock = Fixed{}
	_ Clock = Func(nil)
	_ Clock = (*Manual)(nil)
)
