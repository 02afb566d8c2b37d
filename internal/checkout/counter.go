package checkout

// Counter hands out transaction ids. It starts at 1 and only moves forward
// when a payment succeeds.
type Counter struct {
	next int64
}

// NewCounter returns a counter at 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// NewCounterFrom starts the counter at id. Values below 1 start at 1.
func NewCounterFrom(id int64) *Counter {
	if id < 1 {
		id = 1
	}
	return &Counter{next: id}
}

// Current is the id the next transaction will use.
func (c *Counter) Current() int64 { return c.next }

// Advance moves to the next id.
func (c *Counter) Advance() { c.next++ }
