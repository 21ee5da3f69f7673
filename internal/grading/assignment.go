package grading

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// assignmentTotal is fixed: one point per rubric criterion.
const assignmentTotal = 3

// toleranceSlack absorbs binary float error so a difference of exactly the
// tolerance (e.g. 5.2 vs 5) counts as within it.
const toleranceSlack = 1e-9

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// AssignmentRubric holds the fixed criteria of the free-text assignment.
type AssignmentRubric struct {
	// Fields names the three answer inputs in rubric order.
	Fields [assignmentTotal]string
	// LawTerms must all appear in the first answer.
	LawTerms []string
	// NumericTarget and NumericTolerance check the second answer.
	NumericTarget    float64
	NumericTolerance float64
	// ForceKeywords are literal substrings; MinKeywords of them must appear in the third answer.
	ForceKeywords []string
	MinKeywords   int
}

// DefaultAssignmentRubric returns the mechanics assignment rubric.
func DefaultAssignmentRubric() AssignmentRubric {
	return AssignmentRubric{
		Fields:           [assignmentTotal]string{"a1", "a2", "a3"},
		LawTerms:         []string{"action", "reaction"},
		NumericTarget:    5,
		NumericTolerance: 0.2,
		ForceKeywords:    []string{"gravity", "gravitational", "electrostatic", "electric", "magnetic", "magnetism"},
		MinKeywords:      2,
	}
}

// assignmentAnswers reads the named answers, lower-cased. When every named
// answer is empty it falls back to the first three text-like controls in
// document order.
func assignmentAnswers(fields [assignmentTotal]string, form Form) ([assignmentTotal]string, bool) {
	var answers [assignmentTotal]string
	empty := true
	for i, name := range fields {
		if in, ok := form.first(name); ok {
			answers[i] = strings.ToLower(in.Value)
		}
		if answers[i] != "" {
			empty = false
		}
	}
	if !empty {
		return answers, false
	}

	pos := 0
	for _, in := range form.Inputs {
		if pos == assignmentTotal {
			break
		}
		if !isTextLike(in) {
			continue
		}
		if answers[pos] == "" {
			answers[pos] = strings.ToLower(in.Value)
		}
		pos++
	}
	return answers, pos > 0
}

func isTextLike(in Input) bool {
	if in.tag() == "textarea" {
		return true
	}
	t := in.inputType()
	return t == "text" || t == "number"
}

// GradeAssignment scores the three free-text answers against the rubric.
func GradeAssignment(rubric AssignmentRubric, form Form, passRatio float64) Result {
	answers, positional := assignmentAnswers(rubric.Fields, form)

	score := 0
	if containsAll(answers[0], rubric.LawTerms) {
		score++
	}
	if n, ok := extractNumber(answers[1]); ok && math.Abs(n-rubric.NumericTarget) <= rubric.NumericTolerance+toleranceSlack {
		score++
	}
	if countKeywords(answers[2], rubric.ForceKeywords) >= rubric.MinKeywords {
		score++
	}

	mode := ModePrimary
	if positional {
		mode = ModePositional
	}
	return newResult(KindAssignment, mode, score, assignmentTotal, passRatio, true)
}

func containsAll(text string, terms []string) bool {
	if text == "" {
		return false
	}
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// countKeywords counts distinct listed keywords present as literal substrings.
// No stemming: "magnetism" does not count as "magnetic".
func countKeywords(text string, keywords []string) int {
	found := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			found[k] = struct{}{}
		}
	}
	return len(found)
}

// extractNumber returns the first signed decimal number in text.
func extractNumber(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
