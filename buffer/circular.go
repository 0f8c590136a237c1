package buffer

// CircularFloat is a fixed size window over the most recent floats added to
// it, in the order they were appended.
type CircularFloat struct {
	buffer    []float64 // actual storage
	pos       int       // Current position in buffer
	BufSize   int       // BufSize is the fixed number of floats maintained in memory
	Count     int       // Count is the number of floats in memory. Will always be <= BufSize
	TotalSeen int64     // TotalSeen is the total number of times Add has been called
}

// NewCircularFloat creates a new circular buffer of totalSize (minimum 1)
func NewCircularFloat(totalSize int) *CircularFloat {
	if totalSize < 1 {
		totalSize = 1
	}

	return &CircularFloat{
		buffer:  make([]float64, totalSize),
		pos:     0,
		BufSize: totalSize,
		Count:   0,
	}
}

// Add appends the given float to the buffer, overwriting the oldest entry
func (c *CircularFloat) Add(f float64) {
	c.TotalSeen++

	c.buffer[c.pos] = f
	c.pos = (c.pos + 1) % c.BufSize

	c.Count++
	if c.Count > c.BufSize {
		c.Count = c.BufSize // max out
	}
}

// Values returns a copy of the stored floats, oldest first
func (c *CircularFloat) Values() []float64 {
	vals := make([]float64, c.Count)

	// Oldest is the one we're about to write once we are full
	start := 0
	if c.Count == c.BufSize {
		start = c.pos
	}
	for i := range vals {
		vals[i] = c.buffer[(start+i)%c.BufSize]
	}
	return vals
}

// Mean is the mean of the stored floats, or 0 if nothing has been added
func (c *CircularFloat) Mean() float64 {
	if c.Count < 1 {
		return 0
	}

	// Until we wrap, only the first Count slots have been written
	sum := 0.0
	for _, v := range c.buffer[:c.Count] {
		sum += v
	}
	return sum / float64(c.Count)
}
