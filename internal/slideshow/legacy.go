package slideshow

import "fmt"

// The global entry points below only ever target the first container on the
// page and keep their own stored index on it. They render directly and never
// read or update the per-instance State, so the two indices drift apart.

// PlusSlides moves the first container by n relative to its stored legacy index.
func (c *Controller) PlusSlides(n int) (int, error) {
	return c.legacy(func(e *pageEntry, count int) int {
		e.legacyIndex = normalize(e.legacyIndex+n, count)
		return e.legacyIndex
	})
}

// CurrentSlide shows the 1-based slide n on the first container. The stored
// index is n-1 as given, unnormalized.
func (c *Controller) CurrentSlide(n int) (int, error) {
	return c.legacy(func(e *pageEntry, _ int) int {
		e.legacyIndex = n - 1
		return n - 1
	})
}

// LegacyIndex returns the stored legacy index of the first container.
func (c *Controller) LegacyIndex() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.page) == 0 {
		return 0, ErrNoContainers
	}
	return c.page[0].legacyIndex, nil
}

func (c *Controller) legacy(next func(e *pageEntry, count int) int) (int, error) {
	c.mu.Lock()
	if len(c.page) == 0 {
		c.mu.Unlock()
		return 0, ErrNoContainers
	}
	first := c.page[0]
	c.mu.Unlock()

	slides := first.container.Slides
	if len(slides) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyContainer, first.container.ID)
	}

	id := first.container.ID
	idx, err := c.renderLocked(id, func() int {
		i := normalize(next(first, len(slides)), len(slides))
		render(slides, first.container.Indicators, i)
		return i
	})
	if err != nil {
		return 0, err
	}
	c.notify(Change{ContainerID: id, Index: idx, Source: SourceLegacy})
	return idx, nil
}
