package dnd

import "github.com/justyntemme/filedrop/internal/debug"

// Counter compensates for bubbling: every element on the pointer's path
// reports its own enter and leave to the frame, so only the outermost
// pair flips membership. Treat the balance as a zero/non-zero signal.
type Counter struct {
	balance int
}

// Enter records a dragenter and reports whether the frame was just entered (0 -> 1)
func (c *Counter) Enter() bool {
	c.balance++
	return c.balance == 1
}

// Leave records a dragleave and reports whether the frame was just left (1 -> 0).
// A leave with no matching enter is ignored.
func (c *Counter) Leave() bool {
	if c.balance == 0 {
		debug.Log(debug.DND, "Counter: dragleave with zero balance ignored")
		return false
	}
	c.balance--
	return c.balance == 0
}

// Balance returns the current enter/leave balance
func (c *Counter) Balance() int { return c.balance }

// Over reports whether the pointer is within the frame
func (c *Counter) Over() bool { return c.balance > 0 }

// Reset drops the balance back to zero
func (c *Counter) Reset() { c.balance = 0 }
