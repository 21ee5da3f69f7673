package slideshow

import (
	"errors"
	"time"
)

// DefaultDelay is the advance period used when a container's delay is missing or invalid.
const DefaultDelay = 3000 * time.Millisecond

var (
	ErrUnknownContainer   = errors.New("unknown slide container")
	ErrDuplicateContainer = errors.New("slide container already mounted")
	ErrNoContainers       = errors.New("no slide containers on page")
	ErrEmptyContainer     = errors.New("slide container has no slides")
	ErrContainerFault     = errors.New("slide container fault")
)

// Slide is one mutually exclusive panel of a container.
type Slide interface {
	SetVisible(visible bool)
}

// Indicator marks the position of one slide.
type Indicator interface {
	SetActive(active bool)
}

// Clickable elements accept click handlers. Indicators that implement it jump
// to their slide when clicked.
type Clickable interface {
	OnClick(handler func())
}

// Container is the UI layer's view of one slide container.
//
// Indicators are those found under the container's parent element, not the
// container itself. Containers sharing a parent therefore share indicators,
// and a click on a shared indicator moves every such container.
type Container struct {
	ID         string
	ParentID   string
	Slides     []Slide
	Indicators []Indicator
	Prev       []Clickable
	Next       []Clickable
	// Delay is the raw per-container delay in milliseconds, parsed leniently.
	Delay string
}

// Source names what caused a visible slide change.
type Source string

const (
	SourceInit      Source = "init"
	SourceTimer     Source = "timer"
	SourceIndicator Source = "indicator"
	SourcePrev      Source = "prev"
	SourceNext      Source = "next"
	SourceCommand   Source = "command"
	SourceLegacy    Source = "legacy"
)

// Change reports a new visible index for a container.
type Change struct {
	ContainerID string `json:"container_id"`
	Index       int    `json:"index"`
	Source      Source `json:"source"`
}

// Observer receives changes after they are rendered.
type Observer func(Change)

// Snapshot is the per-instance state of a mounted container.
type Snapshot struct {
	ID       string        `json:"id"`
	ParentID string        `json:"parent_id"`
	Index    int           `json:"index"`
	Slides   int           `json:"slides"`
	Interval time.Duration `json:"interval"`
}
