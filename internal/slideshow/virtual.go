package slideshow

import (
	"sync"

	"github.com/google/uuid"
)

// Panel is an in-memory page element usable as a slide, an indicator or a
// prev/next control. Remote pages mirror its state.
type Panel struct {
	mu       sync.Mutex
	visible  bool
	active   bool
	handlers []func()
}

var (
	_ Slide     = (*Panel)(nil)
	_ Indicator = (*Panel)(nil)
	_ Clickable = (*Panel)(nil)
)

func (p *Panel) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
}

func (p *Panel) SetActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

func (p *Panel) OnClick(handler func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Click runs the attached handlers in attach order and reports how many ran.
func (p *Panel) Click() int {
	p.mu.Lock()
	handlers := make([]func(), len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	return len(handlers)
}

func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *Panel) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// ContainerSpec describes a remote container in terms of element counts.
type ContainerSpec struct {
	ID           string `json:"id"`
	ParentID     string `json:"parent_id"`
	Slides       int    `json:"slides"`
	Indicators   int    `json:"indicators"`
	Delay        string `json:"delay"`
	PrevControls *int   `json:"prev_controls,omitempty"`
	NextControls *int   `json:"next_controls,omitempty"`
}

// VirtualContainer holds the panels built for one spec.
type VirtualContainer struct {
	ID         string
	ParentID   string
	Slides     []*Panel
	Indicators []*Panel
	Prev       []*Panel
	Next       []*Panel
}

// Visibility reports which slides are visible and which indicators are marked.
func (v *VirtualContainer) Visibility() (visible []bool, active []bool) {
	visible = make([]bool, len(v.Slides))
	for i, s := range v.Slides {
		visible[i] = s.Visible()
	}
	active = make([]bool, len(v.Indicators))
	for i, ind := range v.Indicators {
		active[i] = ind.Active()
	}
	return visible, active
}

// Container converts the panels into the controller's view.
func (v *VirtualContainer) Container(delay string) Container {
	c := Container{ID: v.ID, ParentID: v.ParentID, Delay: delay}
	for _, s := range v.Slides {
		c.Slides = append(c.Slides, s)
	}
	for _, ind := range v.Indicators {
		c.Indicators = append(c.Indicators, ind)
	}
	for _, p := range v.Prev {
		c.Prev = append(c.Prev, p)
	}
	for _, n := range v.Next {
		c.Next = append(c.Next, n)
	}
	return c
}

// VirtualPage builds panels for remote containers. Indicators belong to the
// parent: the first container under a parent creates them and later
// containers under the same parent reuse them.
type VirtualPage struct {
	mu         sync.Mutex
	indicators map[string][]*Panel
	containers map[string]*VirtualContainer
}

func NewVirtualPage() *VirtualPage {
	return &VirtualPage{
		indicators: make(map[string][]*Panel),
		containers: make(map[string]*VirtualContainer),
	}
}

// Build creates panels for spec and returns the container to mount.
func (p *VirtualPage) Build(spec ContainerSpec) (Container, *VirtualContainer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := spec.ID
	if id == "" {
		id = uuid.New().String()
	}
	parent := spec.ParentID
	if parent == "" {
		parent = id
	}

	vc := &VirtualContainer{
		ID:       id,
		ParentID: parent,
		Slides:   newPanels(spec.Slides),
		Prev:     newPanels(countOr(spec.PrevControls, 1)),
		Next:     newPanels(countOr(spec.NextControls, 1)),
	}
	shared, ok := p.indicators[parent]
	if !ok {
		shared = newPanels(spec.Indicators)
		p.indicators[parent] = shared
	}
	vc.Indicators = shared

	if _, exists := p.containers[id]; !exists {
		p.containers[id] = vc
	}
	return vc.Container(spec.Delay), vc
}

// Lookup returns the panels of a built container.
func (p *VirtualPage) Lookup(id string) (*VirtualContainer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vc, ok := p.containers[id]
	return vc, ok
}

func newPanels(n int) []*Panel {
	if n <= 0 {
		return nil
	}
	panels := make([]*Panel, n)
	for i := range panels {
		panels[i] = &Panel{}
	}
	return panels
}

func countOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
