package grading

import "sync"

// Result element ids and base class used by the site's pages.
const (
	QuizResultID       = "quizResult"
	AssignmentResultID = "assignResult"
	resultBaseClass    = "quiz-result"
)

// ResultView is a display element that receives the score line.
type ResultView interface {
	SetText(text string)
	SetClass(class string)
}

// Document locates or creates result elements. InsertResultAfter places a new
// element immediately after the form.
type Document interface {
	ResultElement(id string) (ResultView, bool)
	InsertResultAfter(formID, id string) ResultView
}

// Publish writes r into the element with resultID, creating it after the form when absent.
func Publish(doc Document, formID, resultID string, r Result) ResultView {
	view, ok := doc.ResultElement(resultID)
	if !ok {
		view = doc.InsertResultAfter(formID, resultID)
		view.SetClass(resultBaseClass)
	}
	view.SetText(r.Text())
	view.SetClass(resultBaseClass + " " + r.Class())
	return view
}

// Element is the in-memory result element held by Board.
type Element struct {
	ID        string `json:"id"`
	AfterForm string `json:"after_form"`
	Text      string `json:"text"`
	Class     string `json:"class"`

	mu *sync.Mutex
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Text = text
}

func (e *Element) SetClass(class string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Class = class
}

// Board is an in-memory Document holding the last rendered result per element.
type Board struct {
	mu       sync.Mutex
	elemMu   sync.Mutex
	elements map[string]*Element
}

var _ Document = (*Board)(nil)

func NewBoard() *Board {
	return &Board{elements: make(map[string]*Element)}
}

func (b *Board) ResultElement(id string) (ResultView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	el, ok := b.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (b *Board) InsertResultAfter(formID, id string) ResultView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if el, ok := b.elements[id]; ok {
		return el
	}
	el := &Element{ID: id, AfterForm: formID, mu: &b.elemMu}
	b.elements[id] = el
	return el
}

// Snapshot returns a copy of the element's current state.
func (b *Board) Snapshot(id string) (Element, bool) {
	b.mu.Lock()
	el, ok := b.elements[id]
	b.mu.Unlock()
	if !ok {
		return Element{}, false
	}
	b.elemMu.Lock()
	defer b.elemMu.Unlock()
	return Element{ID: el.ID, AfterForm: el.AfterForm, Text: el.Text, Class: el.Class}, true
}
