package ecs

// Clock is the frame clock singleton maintained by the Scheduler.
// Now is the sum of all deltas passed to Once, in seconds.
type Clock struct {
	Now   float64
	Delta float64
	Frame uint64
}

func (c *Clock) advance(dt float64) {
	if dt < 0 || dt != dt {
		dt = 0
	}
	c.Delta = dt
	c.Now += dt
	c.Frame++
}
