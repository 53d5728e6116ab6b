package rules

// Seat is a participant the coordinator can hand the turn to.
type Seat interface {
	comparable
	ActionsLeft() int
}

// Coordinator tracks the active seat and advances through seats that still
// have actions left. It is not safe for concurrent use.
type Coordinator[S Seat] struct {
	seats      []S
	orderIndex int
}

// NewCoordinator creates a coordinator over seats with seat 0 active.
func NewCoordinator[S Seat](seats []S) *Coordinator[S] {
	c := &Coordinator[S]{}
	c.Reset(seats)
	return c
}

// Reset replaces the seat list and makes seat 0 active.
func (c *Coordinator[S]) Reset(seats []S) {
	c.seats = append([]S(nil), seats...)
	c.orderIndex = 0
}

// ActivePlayer returns the active seat; ok is false when there are no seats.
func (c *Coordinator[S]) ActivePlayer() (S, bool) {
	var zero S
	if len(c.seats) == 0 {
		return zero, false
	}
	return c.seats[c.orderIndex], true
}

// IsActive reports whether s holds the turn.
func (c *Coordinator[S]) IsActive(s S) bool {
	active, ok := c.ActivePlayer()
	return ok && active == s
}

// Advance moves the turn to the next seat with actions left, searching at most
// one full lap. The current seat is only reselected if it is the sole seat
// with actions left. When every seat is exhausted the pointer stays put and
// Advance returns false.
func (c *Coordinator[S]) Advance() bool {
	n := len(c.seats)
	if n == 0 {
		return false
	}
	for step := 1; step <= n; step++ {
		next := (c.orderIndex + step) % n
		if c.seats[next].ActionsLeft() > 0 {
			c.orderIndex = next
			return true
		}
	}
	return false
}

// AllExhausted reports whether no seat has actions left.
func (c *Coordinator[S]) AllExhausted() bool {
	for _, s := range c.seats {
		if s.ActionsLeft() > 0 {
			return false
		}
	}
	return true
}

// Index returns the active seat index.
func (c *Coordinator[S]) Index() int {
	return c.orderIndex
}
