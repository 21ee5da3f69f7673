package slideshow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mechanics-site/internal/metrics"
)

// pageEntry is a container as found on the page, mounted or not. The legacy
// index is stored here, apart from the per-instance State.
type pageEntry struct {
	container   Container
	legacyIndex int
}

// MountResult reports the outcome of initializing one container.
type MountResult struct {
	ID      string
	Mounted bool
	Err     error
}

// Options configures a Controller.
type Options struct {
	Scheduler    Scheduler
	DefaultDelay time.Duration
}

// Controller owns every slideshow on a page. Rendering is serialized by a
// single lock, matching the one-event-at-a-time model of the page runtime.
type Controller struct {
	mu           sync.Mutex
	scheduler    Scheduler
	defaultDelay time.Duration
	states       map[string]*State
	page         []*pageEntry
	observers    []Observer
	logger       zerolog.Logger
}

// NewController creates an empty controller.
func NewController(logger zerolog.Logger, opts Options) *Controller {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = TickerScheduler{}
	}
	delay := opts.DefaultDelay
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Controller{
		scheduler:    scheduler,
		defaultDelay: delay,
		states:       make(map[string]*State),
		logger:       logger.With().Str("component", "slideshow").Logger(),
	}
}

// Subscribe registers an observer for rendered changes.
func (c *Controller) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Initialize mounts containers in page order. A fault in one container is
// logged and does not prevent the rest from mounting.
func (c *Controller) Initialize(containers ...Container) []MountResult {
	results := make([]MountResult, 0, len(containers))
	for _, container := range containers {
		id, mounted, err := c.Mount(container)
		if err != nil {
			c.logger.Error().Err(err).Str("container_id", id).Msg("slideshow container error")
		}
		results = append(results, MountResult{ID: id, Mounted: mounted, Err: err})
	}
	return results
}

// Mount wires one container: hide all slides, show the first, attach
// indicator and prev/next handlers and start the advance timer. A container
// without slides is recorded on the page but otherwise left alone.
func (c *Controller) Mount(container Container) (string, bool, error) {
	if container.ID == "" {
		container.ID = uuid.New().String()
	}
	if container.ParentID == "" {
		container.ParentID = container.ID
	}

	state, err := c.mount(container)
	if err != nil || state == nil {
		return container.ID, false, err
	}
	c.notify(Change{ContainerID: state.id, Index: 0, Source: SourceInit})
	return container.ID, true, nil
}

func (c *Controller) mount(container Container) (state *State, err error) {
	id := container.ID

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			state = nil
			err = fmt.Errorf("%w: %s: %v", ErrContainerFault, id, r)
		}
	}()

	for _, e := range c.page {
		if e.container.ID == id {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateContainer, id)
		}
	}
	c.page = append(c.page, &pageEntry{container: container})

	if len(container.Slides) == 0 {
		c.logger.Debug().Str("container_id", id).Msg("container has no slides; skipping")
		return nil, nil
	}

	state = newState(container, parseDelay(container.Delay, c.defaultDelay))
	for _, sl := range state.slides {
		sl.SetVisible(false)
	}
	state.show(0)

	for i, ind := range state.indicators {
		if cl, ok := ind.(Clickable); ok {
			target := i
			cl.OnClick(func() { c.step(state, SourceIndicator, func(int) int { return target }) })
		}
	}
	for _, p := range container.Prev {
		p.OnClick(func() { c.step(state, SourcePrev, func(cur int) int { return cur - 1 }) })
	}
	for _, n := range container.Next {
		n.OnClick(func() { c.step(state, SourceNext, func(cur int) int { return cur + 1 }) })
	}

	state.task = c.scheduler.Every(state.interval, func() {
		c.step(state, SourceTimer, func(cur int) int { return cur + 1 })
	})
	c.states[id] = state
	metrics.SlideshowContainers.Inc()

	c.logger.Info().
		Str("container_id", id).
		Str("parent_id", state.parentID).
		Int("slides", len(state.slides)).
		Int("indicators", len(state.indicators)).
		Dur("interval", state.interval).
		Msg("slideshow mounted")
	return state, nil
}

// Show jumps a mounted container to index i (normalized).
func (c *Controller) Show(id string, i int) (int, error) {
	return c.stepByID(id, SourceCommand, func(int) int { return i })
}

// Next advances a mounted container by one.
func (c *Controller) Next(id string) (int, error) {
	return c.stepByID(id, SourceNext, func(cur int) int { return cur + 1 })
}

// Prev moves a mounted container back by one.
func (c *Controller) Prev(id string) (int, error) {
	return c.stepByID(id, SourcePrev, func(cur int) int { return cur - 1 })
}

// State returns the per-instance state of a mounted container.
func (c *Controller) State(id string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownContainer, id)
	}
	return s.snapshot(), nil
}

// Containers lists mounted container ids in page order.
func (c *Controller) Containers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.states))
	for _, e := range c.page {
		if _, ok := c.states[e.container.ID]; ok {
			ids = append(ids, e.container.ID)
		}
	}
	return ids
}

// Close stops every advance timer. Timers otherwise run for the life of the
// process; nothing calls Close unless shutdown is configured to.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, s := range c.states {
		if s.task != nil {
			s.task.Stop()
			s.task = nil
			metrics.SlideshowContainers.Dec()
			c.logger.Debug().Str("container_id", id).Msg("slideshow timer stopped")
		}
	}
}

func (c *Controller) stepByID(id string, source Source, target func(int) int) (int, error) {
	c.mu.Lock()
	s, ok := c.states[id]
	c.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownContainer, id)
	}
	return c.step(s, source, target)
}

// step renders target(current) on s and notifies observers. Faulty elements
// are recovered so one container cannot take down a timer goroutine or a caller.
func (c *Controller) step(s *State, source Source, target func(int) int) (int, error) {
	idx, err := c.renderLocked(s.id, func() int { return s.show(target(s.current)) })
	if err != nil {
		return 0, err
	}
	c.notify(Change{ContainerID: s.id, Index: idx, Source: source})
	return idx, nil
}

func (c *Controller) renderLocked(id string, fn func() int) (idx int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrContainerFault, id, r)
			c.logger.Error().Err(err).Str("container_id", id).Msg("slideshow container error")
		}
	}()
	return fn(), nil
}

func (c *Controller) notify(ch Change) {
	metrics.SlideTransitions.WithLabelValues(string(ch.Source)).Inc()

	c.mu.Lock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, o := range observers {
		o(ch)
	}
}
