package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func namedAssignment(a1, a2, a3 string) Form {
	return Form{ID: "assignForm", Inputs: []Input{
		{Name: "a1", Value: a1},
		{Name: "a2", Value: a2},
		{Name: "a3", Value: a3},
	}}
}

func TestGradeAssignmentFullMarks(t *testing.T) {
	form := namedAssignment(
		"For every action there is an equal and opposite reaction",
		"approximately 5.1 N",
		"Gravity and magnetic forces",
	)

	res := GradeAssignment(DefaultAssignmentRubric(), form, DefaultPassRatio)

	assert.Equal(t, ModePrimary, res.Mode)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, VerdictPass, res.Verdict)
	assert.Equal(t, "You scored 3 / 3 (100%)", res.Text())
}

func TestGradeAssignmentNumericToleranceBoundary(t *testing.T) {
	cases := []struct {
		answer string
		want   int
	}{
		{"5.2", 1},
		{"4.8 newtons", 1},
		{"5.21", 0},
		{"4.79", 0},
		{"the force is 5", 1},
		{"-5", 0},
		{"five", 0},
		{"", 0},
	}
	rubric := DefaultAssignmentRubric()
	for _, tc := range cases {
		res := GradeAssignment(rubric, namedAssignment("", tc.answer, ""), DefaultPassRatio)
		assert.Equal(t, tc.want, res.Score, "a2=%q", tc.answer)
	}
}

func TestGradeAssignmentNewtonWording(t *testing.T) {
	rubric := DefaultAssignmentRubric()

	res := GradeAssignment(rubric, namedAssignment("ACTION and REACTION", "x", "x"), DefaultPassRatio)
	assert.Equal(t, 1, res.Score, "matching is case-insensitive")

	res = GradeAssignment(rubric, namedAssignment("every action has a consequence", "x", "x"), DefaultPassRatio)
	assert.Equal(t, 0, res.Score)
}

func TestGradeAssignmentKeywordsAreLiteralSubstrings(t *testing.T) {
	cases := []struct {
		answer string
		want   int
	}{
		{"magnetism", 0},
		{"electrostatic", 0},
		{"gravitational", 0},
		{"gravity and magnetism", 1},
		{"electric and magnetic", 1},
		{"electrostatic only", 0},
		{"gravitational gravity", 1},
		{"friction and tension", 0},
	}
	rubric := DefaultAssignmentRubric()
	for _, tc := range cases {
		res := GradeAssignment(rubric, namedAssignment("", "", tc.answer), DefaultPassRatio)
		assert.Equal(t, tc.want, res.Score, "a3=%q", tc.answer)
	}
}

func TestGradeAssignmentPositionalFallback(t *testing.T) {
	form := Form{Inputs: []Input{
		{Type: "radio", Name: "r", Value: "ignored", Checked: true},
		{Type: "text", Name: "first", Value: "Action and Reaction"},
		{Tag: "textarea", Name: "second", Value: "5.1"},
		{Type: "number", Name: "third", Value: "7"},
		{Type: "text", Name: "fourth", Value: "gravity electric"},
	}}

	res := GradeAssignment(DefaultAssignmentRubric(), form, DefaultPassRatio)

	assert.Equal(t, ModePositional, res.Mode)
	assert.Equal(t, 2, res.Score, "only the first three text-like fields are read")
}

func TestAssignmentAnswersPositionalOrder(t *testing.T) {
	form := Form{Inputs: []Input{
		{Name: "a1"},
		{Type: "text", Value: "V1"},
		{Type: "text", Value: "V2"},
		{Type: "text", Value: "V3"},
	}}

	answers, positional := assignmentAnswers(DefaultAssignmentRubric().Fields, form)

	assert.True(t, positional)
	// The empty named a1 field is itself the first text-like control.
	assert.Equal(t, [3]string{"", "v1", "v2"}, answers)

	form = Form{Inputs: []Input{
		{Type: "text", Value: "V1"},
		{Type: "text", Value: "V2"},
		{Type: "text", Value: "V3"},
	}}
	answers, positional = assignmentAnswers(DefaultAssignmentRubric().Fields, form)
	assert.True(t, positional)
	assert.Equal(t, [3]string{"v1", "v2", "v3"}, answers)
}

func TestAssignmentNamedFieldsSkipFallback(t *testing.T) {
	form := Form{Inputs: []Input{
		{Type: "text", Value: "action reaction"},
		{Name: "a2", Value: "5"},
	}}

	res := GradeAssignment(DefaultAssignmentRubric(), form, DefaultPassRatio)

	assert.Equal(t, ModePrimary, res.Mode)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, VerdictFail, res.Verdict)
}

func TestAssignmentNamedTextareaIsNotAField(t *testing.T) {
	form := Form{Inputs: []Input{
		{Tag: "textarea", Name: "a1", Value: "action reaction"},
	}}

	answers, positional := assignmentAnswers(DefaultAssignmentRubric().Fields, form)

	assert.True(t, positional)
	assert.Equal(t, "action reaction", answers[0])
}

func TestExtractNumber(t *testing.T) {
	n, ok := extractNumber("about -4.95 units, or 12")
	assert.True(t, ok)
	assert.Equal(t, -4.95, n)

	n, ok = extractNumber("v2 = 5.")
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)

	_, ok = extractNumber("no digits")
	assert.False(t, ok)
}
