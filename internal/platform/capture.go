package platform

// Capture is the exclusive mouse capture token of a window. While a handler
// holds it, the window routes every mouse event to that handler only.
type Capture struct {
	owner Handler
}

// Acquire takes the capture for h. It fails when another handler holds it.
func (c *Capture) Acquire(h Handler) bool {
	if c.owner != nil && c.owner != h {
		return false
	}
	c.owner = h
	return true
}

// Release drops the capture if h holds it.
func (c *Capture) Release(h Handler) {
	if c.owner == h {
		c.owner = nil
	}
}

func (c *Capture) HeldBy(h Handler) bool { return h != nil && c.owner == h }

func (c *Capture) Owner() Handler { return c.owner }
