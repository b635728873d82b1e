package similarity

import "context"

// fetchPage returns one page of items plus the cursor for the following
// page. An empty next cursor ends the sequence.
type fetchPage[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// Cursor iterates a paginated service listing one item at a time, fetching
// the next page only once the current page is exhausted. Consuming only the
// first K items therefore fetches no more pages than needed. Each top-level
// listing call returns an independent Cursor, so iteration is restartable.
type Cursor[T any] struct {
	fetch fetchPage[T]
	items []T
	next  string
	done  bool
}

func newCursor[T any](fetch fetchPage[T]) *Cursor[T] {
	return &Cursor[T]{fetch: fetch}
}

// Next returns the next item in the sequence. The second return value is
// false once the sequence is exhausted. A fetch error terminates the cursor.
func (c *Cursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for len(c.items) == 0 {
		if c.done {
			return zero, false, nil
		}
		items, next, err := c.fetch(ctx, c.next)
		if err != nil {
			c.done = true
			return zero, false, err
		}
		c.items = items
		c.next = next
		// A page with no further-page indicator or no items at all ends
		// the sequence.
		if next == "" || len(items) == 0 {
			c.done = true
		}
	}
	item := c.items[0]
	c.items = c.items[1:]
	return item, true, nil
}
