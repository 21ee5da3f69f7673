package grading

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panickyDocument fails the way a broken page would while rendering.
type panickyDocument struct{}

func (panickyDocument) ResultElement(string) (ResultView, bool) { return nil, false }

func (panickyDocument) InsertResultAfter(string, string) ResultView {
	panic("form has no parent")
}

func TestSubmitQuizRendersAfterForm(t *testing.T) {
	board := NewBoard()
	svc := NewService(zerolog.New(io.Discard), ServiceOptions{Document: board})

	form := quizForm(map[string]string{"q1": "b", "q2": "b", "q3": "b"}, "q1", "q2", "q3", "q4", "q5")
	res, err := svc.SubmitQuiz(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)

	el, ok := board.Snapshot(QuizResultID)
	require.True(t, ok)
	assert.Equal(t, "quizForm", el.AfterForm)
	assert.Equal(t, "You scored 3 / 5 (60%)", el.Text)
	assert.Equal(t, "quiz-result good", el.Class)

	// The existing element is reused on resubmission.
	_, err = svc.SubmitQuiz(context.Background(), quizForm(nil, "q1", "q2", "q3", "q4", "q5"))
	require.NoError(t, err)
	el, _ = board.Snapshot(QuizResultID)
	assert.Equal(t, "quiz-result bad", el.Class)
	assert.Equal(t, "You scored 0 / 5 (0%)", el.Text)
}

func TestSubmitAssignmentUsesOwnElement(t *testing.T) {
	board := NewBoard()
	svc := NewService(zerolog.Nop(), ServiceOptions{Document: board})

	_, err := svc.SubmitAssignment(context.Background(), namedAssignment("action reaction", "5", "gravity"))
	require.NoError(t, err)

	el, ok := board.Snapshot(AssignmentResultID)
	require.True(t, ok)
	assert.Equal(t, "You scored 2 / 3 (67%)", el.Text)
	assert.Equal(t, "quiz-result good", el.Class)

	_, ok = board.Snapshot(QuizResultID)
	assert.False(t, ok)
}

func TestSubmitRecoversFaults(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(zerolog.New(&logs), ServiceOptions{Document: panickyDocument{}})

	_, err := svc.SubmitQuiz(context.Background(), quizForm(nil, "q1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGradingFault)
	assert.Contains(t, logs.String(), "quiz error")

	_, err = svc.SubmitAssignment(context.Background(), namedAssignment("", "", ""))
	assert.ErrorIs(t, err, ErrGradingFault)
	assert.Contains(t, logs.String(), "assignment error")
}

func TestServiceCustomKeyAndRatio(t *testing.T) {
	svc := NewService(zerolog.Nop(), ServiceOptions{
		AnswerKey: map[string]string{"x1": "a", "x2": "b"},
		PassRatio: 1,
	})

	res, err := svc.SubmitQuiz(context.Background(), quizForm(map[string]string{"x1": "a", "x2": "a"}, "x1", "x2"))
	require.NoError(t, err)
	assert.Equal(t, ModePrimary, res.Mode)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, VerdictFail, res.Verdict)
}

func TestHTTPGradeQuiz(t *testing.T) {
	board := NewBoard()
	svc := NewService(zerolog.Nop(), ServiceOptions{Document: board})
	h := NewHTTPHandlers(svc, board, zerolog.Nop())

	body := `{"form_id":"quizForm","inputs":[
		{"type":"radio","name":"q1","value":"b","checked":true},
		{"type":"radio","name":"q2","value":"a","checked":true},
		{"type":"radio","name":"q3","value":"b","checked":true},
		{"type":"radio","name":"q4","value":"c","checked":true},
		{"type":"radio","name":"q5","value":"a","checked":true}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/grade/quiz", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.GradeQuiz(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"kind":"quiz","mode":"primary","score":4,"total":5,"percentage":80,
		"verdict":"PASS","text":"You scored 4 / 5 (80%)","class":"good"}`, rec.Body.String())

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/results/{id}", h.GetResult)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/results/quizResult", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"quizResult","after_form":"quizForm","text":"You scored 4 / 5 (80%)","class":"quiz-result good"}`, rec.Body.String())
}

func TestHTTPGradeAssignmentRejectsBadInput(t *testing.T) {
	h := NewHTTPHandlers(NewService(zerolog.Nop(), ServiceOptions{}), nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GradeAssignment(rec, httptest.NewRequest(http.MethodPost, "/v1/grade/assignment", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	oversized := `{"form_id":"` + strings.Repeat("x", MaxFormBytes+1) + `"}`
	rec = httptest.NewRecorder()
	h.GradeAssignment(rec, httptest.NewRequest(http.MethodPost, "/v1/grade/assignment", strings.NewReader(oversized)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "payload_too_large")

	_, ok := h.service.doc.(*Board).Snapshot(AssignmentResultID)
	assert.False(t, ok)
}
