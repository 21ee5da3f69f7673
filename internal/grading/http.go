package grading

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/mechanics-site/pkg/http/errors"
)

// MaxFormBytes bounds a submitted form body.
const MaxFormBytes = 1 << 20

// HTTPHandlers exposes the grading service to the page layer.
type HTTPHandlers struct {
	service *Service
	board   *Board
	logger  zerolog.Logger
}

// NewHTTPHandlers creates grading endpoints. board may be nil when results
// are rendered into a caller-owned Document.
func NewHTTPHandlers(service *Service, board *Board, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		board:   board,
		logger:  logger.With().Str("component", "grading_http").Logger(),
	}
}

type gradeResponse struct {
	Result
	Text  string `json:"text"`
	Class string `json:"class"`
}

// GradeQuiz handles POST /v1/grade/quiz
func (h *HTTPHandlers) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	h.grade(w, r, h.service.SubmitQuiz)
}

// GradeAssignment handles POST /v1/grade/assignment
func (h *HTTPHandlers) GradeAssignment(w http.ResponseWriter, r *http.Request) {
	h.grade(w, r, h.service.SubmitAssignment)
}

func (h *HTTPHandlers) grade(w http.ResponseWriter, r *http.Request, submit func(context.Context, Form) (Result, error)) {
	var form Form
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxFormBytes)).Decode(&form); err != nil {
		httperrors.RespondDecodeError(w, err)
		return
	}

	res, err := submit(r.Context(), form)
	if err != nil {
		if errors.Is(err, ErrGradingFault) {
			h.logger.Error().Err(err).Str("form_id", form.ID).Msg("grading fault recovered")
		}
		httperrors.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, httperrors.ErrCodeGradingFailed, err.Error(),
			map[string]interface{}{"form_id": form.ID})
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, gradeResponse{Result: res, Text: res.Text(), Class: res.Class()})
}

// GetResult handles GET /v1/results/{id} and returns the rendered result element.
func (h *HTTPHandlers) GetResult(w http.ResponseWriter, r *http.Request) {
	if h.board == nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeResultNotFound, "No result board configured")
		return
	}

	id := r.PathValue("id")
	el, ok := h.board.Snapshot(id)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeResultNotFound, "Result element not rendered yet")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, el)
}
