package warehouse

// Clock is the warehouse day counter. Days only move forward, by explicit
// positive offsets.
type Clock struct {
	days int
}

// NewClock creates a clock at day zero.
func NewClock() *Clock {
	return &Clock{}
}

// Days returns the current day count.
func (c *Clock) Days() int {
	return c.days
}

// Advance moves the clock forward by offset days. A non-positive offset
// leaves the clock untouched and fails with InvalidOffsetError.
func (c *Clock) Advance(offset int) error {
	if offset <= 0 {
		return &InvalidOffsetError{Offset: offset}
	}
	c.days += offset
	return nil
}
