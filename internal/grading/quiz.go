package grading

import "sort"

// AnswerKey maps a question's input group name to its correct choice value.
type AnswerKey map[string]string

// DefaultAnswerKey is the rubric of the mechanics quiz page.
func DefaultAnswerKey() AnswerKey {
	return AnswerKey{"q1": "b", "q2": "b", "q3": "b", "q4": "c", "q5": "a"}
}

func (k AnswerKey) questions() []string {
	ids := make([]string, 0, len(k))
	for id := range k {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// quizStrategy returns (score, total) for an indexed form against a key.
type quizStrategy func(key AnswerKey, idx formIndex) (int, int)

// selectQuizStrategy decides once per call whether the key structurally
// matches the form. A key with none of its questions present in the form is
// graded in degraded mode.
func selectQuizStrategy(key AnswerKey, idx formIndex) (string, quizStrategy) {
	if len(presentQuestions(key, idx)) > 0 {
		return ModePrimary, scoreKeyedQuiz
	}
	return ModeDegraded, scoreRadioGroups
}

func presentQuestions(key AnswerKey, idx formIndex) []string {
	var present []string
	for _, q := range key.questions() {
		if idx.has(q) {
			present = append(present, q)
		}
	}
	return present
}

// scoreKeyedQuiz grades only the key's questions that appear in the form.
func scoreKeyedQuiz(key AnswerKey, idx formIndex) (int, int) {
	present := presentQuestions(key, idx)
	score := 0
	for _, q := range present {
		if sel, ok := idx.selected(q); ok && sel.Value == key[q] {
			score++
		}
	}
	return score, len(present)
}

// scoreRadioGroups counts every distinct named radio group as one item and
// awards a point only where the group name is also a key question.
func scoreRadioGroups(key AnswerKey, idx formIndex) (int, int) {
	score := 0
	for _, g := range idx.radioGroups {
		sel, ok := idx.selected(g)
		if !ok {
			continue
		}
		if want, known := key[g]; known && want != "" && sel.Value == want {
			score++
		}
	}
	return score, len(idx.radioGroups)
}

// GradeQuiz scores a multiple-choice form. Primary results carry a percentage
// suffix; degraded results do not.
func GradeQuiz(key AnswerKey, form Form, passRatio float64) Result {
	idx := form.index()
	mode, strategy := selectQuizStrategy(key, idx)
	score, total := strategy(key, idx)
	return newResult(KindQuiz, mode, score, total, passRatio, mode == ModePrimary)
}
