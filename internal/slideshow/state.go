package slideshow

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"
)

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// maxDelayMs is the longest delay a time.Duration can hold, in milliseconds.
const maxDelayMs = math.MaxInt64 / int64(time.Millisecond)

// State is the per-container slideshow instance. It is only mutated by show.
type State struct {
	id         string
	parentID   string
	slides     []Slide
	indicators []Indicator
	current    int
	interval   time.Duration
	task       Task
}

func newState(c Container, interval time.Duration) *State {
	return &State{
		id:         c.ID,
		parentID:   c.ParentID,
		slides:     c.Slides,
		indicators: c.Indicators,
		interval:   interval,
	}
}

// show normalizes i into range, records it and renders it.
func (s *State) show(i int) int {
	s.current = normalize(i, len(s.slides))
	render(s.slides, s.indicators, s.current)
	return s.current
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		ID:       s.id,
		ParentID: s.parentID,
		Index:    s.current,
		Slides:   len(s.slides),
		Interval: s.interval,
	}
}

// normalize applies floored modulo so negative indices wrap from the end. n must be positive.
func normalize(i, n int) int {
	return ((i % n) + n) % n
}

// render makes exactly slide idx visible and marks the indicator at idx, if present.
func render(slides []Slide, indicators []Indicator, idx int) {
	for _, sl := range slides {
		sl.SetVisible(false)
	}
	slides[idx].SetVisible(true)
	for _, ind := range indicators {
		ind.SetActive(false)
	}
	if idx < len(indicators) {
		indicators[idx].SetActive(true)
	}
}

// parseDelay reads a leading integer millisecond count ("2500ms" is 2500).
// Missing, unparsable or non-positive values yield fallback. Positive values
// too long for a time.Duration are clamped to the longest one.
func parseDelay(raw string, fallback time.Duration) time.Duration {
	m := leadingInt.FindStringSubmatch(raw)
	if m == nil {
		return fallback
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fallback
	}
	if ms <= 0 {
		return fallback
	}
	if ms > maxDelayMs {
		ms = maxDelayMs
	}
	return time.Duration(ms) * time.Millisecond
}
