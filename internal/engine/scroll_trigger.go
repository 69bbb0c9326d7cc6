package engine

import (
	"context"
	"sync"
)

// Coordinator turns "the last rendered post became visible" into exactly one page advance per
// last post. It watches a single sentinel id at a time.
type Coordinator struct {
	advance func(ctx context.Context) error

	mu       sync.Mutex
	observed string
	fired    string
}

func NewCoordinator(advance func(ctx context.Context) error) *Coordinator {
	return &Coordinator{advance: advance}
}

// NewFeedCoordinator advances f.
func NewFeedCoordinator(f *Feed) *Coordinator {
	return NewCoordinator(func(ctx context.Context) error {
		_, err := f.Advance(ctx)
		return err
	})
}

// Render is called after every render of the list with the id of its last item. An empty id
// or the id that already triggered leaves nothing observed.
func (c *Coordinator) Render(lastID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lastID == "" || lastID == c.fired {
		c.observed = ""
		return
	}
	c.observed = lastID
}

// Visible reports that the item id entered the viewport. For the observed sentinel it stops
// observing and then advances; the bool reports whether it did.
func (c *Coordinator) Visible(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	if id == "" || id != c.observed {
		c.mu.Unlock()
		return false, nil
	}
	c.observed = ""
	c.fired = id
	c.mu.Unlock()

	return true, c.advance(ctx)
}

// Observed returns the sentinel currently watched, or "".
func (c *Coordinator) Observed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observed
}

// Forget clears the fired sentinel so the same id can trigger again, for use after a feed reset.
func (c *Coordinator) Forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fired = ""
	c.observed = ""
}
