package grading

import (
	"fmt"
	"math"
	"strings"
)

// Form kinds.
const (
	KindQuiz       = "quiz"
	KindAssignment = "assignment"
)

// Scoring modes. Degraded quiz results omit the percentage text.
const (
	ModePrimary    = "primary"
	ModeDegraded   = "degraded"
	ModePositional = "positional"
)

// DefaultPassRatio is the share of total a score must reach (rounded up) to pass.
const DefaultPassRatio = 0.6

// Verdict is the binary pass/fail classification of a score.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

// Class maps the verdict to the display tag.
func (v Verdict) Class() string {
	if v == VerdictPass {
		return "good"
	}
	return "bad"
}

// Input is one form control as seen by the UI layer, in document order.
type Input struct {
	Tag     string `json:"tag,omitempty"`  // "input" (default) or "textarea"
	Type    string `json:"type,omitempty"` // input type attribute, "text" when empty
	Name    string `json:"name,omitempty"`
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

func (in Input) tag() string {
	if in.Tag == "" {
		return "input"
	}
	return strings.ToLower(in.Tag)
}

func (in Input) inputType() string {
	if in.tag() != "input" {
		return ""
	}
	if in.Type == "" {
		return "text"
	}
	return strings.ToLower(in.Type)
}

// Form is a snapshot of a form's controls at submit time.
type Form struct {
	ID     string  `json:"form_id"`
	Inputs []Input `json:"inputs"`
}

// first returns the first <input> with the given name.
func (f Form) first(name string) (Input, bool) {
	for _, in := range f.Inputs {
		if in.tag() == "input" && in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// formIndex is a single-pass view of a form's <input> controls by name.
type formIndex struct {
	named       map[string]struct{}
	checked     map[string]Input // first checked input per name
	radioGroups []string         // distinct named radio groups, document order
}

func (f Form) index() formIndex {
	idx := formIndex{
		named:   make(map[string]struct{}),
		checked: make(map[string]Input),
	}
	seenRadio := make(map[string]struct{})
	for _, in := range f.Inputs {
		if in.tag() != "input" || in.Name == "" {
			continue
		}
		idx.named[in.Name] = struct{}{}
		if _, ok := idx.checked[in.Name]; !ok && in.Checked {
			idx.checked[in.Name] = in
		}
		if in.inputType() == "radio" {
			if _, ok := seenRadio[in.Name]; !ok {
				seenRadio[in.Name] = struct{}{}
				idx.radioGroups = append(idx.radioGroups, in.Name)
			}
		}
	}
	return idx
}

func (idx formIndex) has(name string) bool {
	_, ok := idx.named[name]
	return ok
}

// selected returns the checked <input> with the given name, if any.
func (idx formIndex) selected(name string) (Input, bool) {
	in, ok := idx.checked[name]
	return in, ok
}

// Result is the outcome of one grading request. It is never stored.
type Result struct {
	Kind           string  `json:"kind"`
	Mode           string  `json:"mode"`
	Score          int     `json:"score"`
	Total          int     `json:"total"`
	Percentage     int     `json:"percentage"`
	Verdict        Verdict `json:"verdict"`
	ShowPercentage bool    `json:"-"`
}

func newResult(kind, mode string, score, total int, passRatio float64, showPct bool) Result {
	if passRatio <= 0 {
		passRatio = DefaultPassRatio
	}
	res := Result{
		Kind:           kind,
		Mode:           mode,
		Score:          score,
		Total:          total,
		ShowPercentage: showPct,
		Verdict:        VerdictFail,
	}
	if total > 0 {
		res.Percentage = int(math.Floor(float64(score)/float64(total)*100 + 0.5))
	}
	if float64(score) >= math.Ceil(float64(total)*passRatio) {
		res.Verdict = VerdictPass
	}
	return res
}

// Text renders the human-readable score line.
func (r Result) Text() string {
	if r.ShowPercentage {
		return fmt.Sprintf("You scored %d / %d (%d%%)", r.Score, r.Total, r.Percentage)
	}
	return fmt.Sprintf("You scored %d / %d", r.Score, r.Total)
}

// Class is the verdict tag written next to the text.
func (r Result) Class() string {
	return r.Verdict.Class()
}
