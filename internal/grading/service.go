package grading

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mechanics-site/internal/logging"
	"github.com/gokatarajesh/mechanics-site/internal/metrics"
)

// ErrGradingFault wraps a panic recovered at the grading boundary.
var ErrGradingFault = errors.New("grading fault")

// ServiceOptions configures rubric and display behavior.
type ServiceOptions struct {
	AnswerKey map[string]string
	PassRatio float64
	Rubric    *AssignmentRubric
	Document  Document
}

// Service grades submitted forms and renders results into its Document.
type Service struct {
	key       AnswerKey
	rubric    AssignmentRubric
	passRatio float64
	doc       Document
	logger    zerolog.Logger
}

// NewService constructs a grading service. Zero options fall back to the site defaults.
func NewService(logger zerolog.Logger, opts ServiceOptions) *Service {
	key := AnswerKey(opts.AnswerKey)
	if len(key) == 0 {
		key = DefaultAnswerKey()
	}
	rubric := DefaultAssignmentRubric()
	if opts.Rubric != nil {
		rubric = *opts.Rubric
	}
	passRatio := opts.PassRatio
	if passRatio <= 0 {
		passRatio = DefaultPassRatio
	}
	doc := opts.Document
	if doc == nil {
		doc = NewBoard()
	}
	return &Service{
		key:       key,
		rubric:    rubric,
		passRatio: passRatio,
		doc:       doc,
		logger:    logging.Component(logger, "grading"),
	}
}

// SubmitQuiz grades a quiz form and renders the result after it.
func (s *Service) SubmitQuiz(ctx context.Context, form Form) (res Result, err error) {
	defer s.recoverFault(ctx, KindQuiz, &err)

	res = GradeQuiz(s.key, form, s.passRatio)
	Publish(s.doc, form.ID, QuizResultID, res)
	s.record(ctx, form, res)
	return res, nil
}

// SubmitAssignment grades an assignment form and renders the result after it.
func (s *Service) SubmitAssignment(ctx context.Context, form Form) (res Result, err error) {
	defer s.recoverFault(ctx, KindAssignment, &err)

	res = GradeAssignment(s.rubric, form, s.passRatio)
	Publish(s.doc, form.ID, AssignmentResultID, res)
	s.record(ctx, form, res)
	return res, nil
}

func (s *Service) record(ctx context.Context, form Form, res Result) {
	metrics.GradingRequests.WithLabelValues(res.Kind, res.Mode, string(res.Verdict)).Inc()
	logger := s.loggerFrom(ctx)
	logger.Debug().
		Str("kind", res.Kind).
		Str("form_id", form.ID).
		Str("mode", res.Mode).
		Int("score", res.Score).
		Int("total", res.Total).
		Str("verdict", string(res.Verdict)).
		Msg("form graded")
}

// recoverFault keeps a panicking grader from escaping the submit call.
func (s *Service) recoverFault(ctx context.Context, kind string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	metrics.GradingFaults.WithLabelValues(kind).Inc()
	logger := s.loggerFrom(ctx)
	logger.Error().Str("kind", kind).Interface("panic", r).Msg(kind + " error")
	*err = fmt.Errorf("%w: %s: %v", ErrGradingFault, kind, r)
}

func (s *Service) loggerFrom(ctx context.Context) zerolog.Logger {
	if l := logging.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		return logging.Component(l, "grading")
	}
	return s.logger
}
