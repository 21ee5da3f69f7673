package slideshow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/mechanics-site/pkg/http/errors"
)

// Request limits for remote containers.
const (
	DefaultMaxElements = 256
	MaxMountBytes      = 64 << 10
)

// HTTPOptions bounds what a remote page may register.
type HTTPOptions struct {
	// MaxElements caps slides, indicators and each control list per container.
	MaxElements int
}

// HTTPHandlers exposes slideshow navigation for remote pages.
type HTTPHandlers struct {
	ctrl        *Controller
	page        *VirtualPage
	maxElements int
	logger      zerolog.Logger
}

// NewHTTPHandlers creates slideshow endpoints backed by virtual page elements.
func NewHTTPHandlers(ctrl *Controller, page *VirtualPage, opts HTTPOptions, logger zerolog.Logger) *HTTPHandlers {
	maxElements := opts.MaxElements
	if maxElements <= 0 {
		maxElements = DefaultMaxElements
	}
	return &HTTPHandlers{
		ctrl:        ctrl,
		page:        page,
		maxElements: maxElements,
		logger:      logger.With().Str("component", "slideshow_http").Logger(),
	}
}

type mountRequest struct {
	Containers []ContainerSpec `json:"containers"`
}

type mountResult struct {
	ID      string `json:"id"`
	Mounted bool   `json:"mounted"`
	Error   string `json:"error,omitempty"`
}

type containerView struct {
	ID         string `json:"id"`
	ParentID   string `json:"parent_id"`
	Index      int    `json:"index"`
	IntervalMs int64  `json:"interval_ms"`
	Visible    []bool `json:"visible"`
	Active     []bool `json:"active"`
}

// Mount handles POST /v1/slideshows
func (h *HTTPHandlers) Mount(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxMountBytes)).Decode(&req); err != nil {
		httperrors.RespondDecodeError(w, err)
		return
	}
	if len(req.Containers) == 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "containers is required", "containers")
		return
	}

	for _, spec := range req.Containers {
		if msg, ok := h.checkCounts(spec); !ok {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, msg, "containers")
			return
		}
	}

	containers := make([]Container, 0, len(req.Containers))
	for _, spec := range req.Containers {
		c, _ := h.page.Build(spec)
		containers = append(containers, c)
	}

	results := h.ctrl.Initialize(containers...)
	out := make([]mountResult, len(results))
	for i, res := range results {
		out[i] = mountResult{ID: res.ID, Mounted: res.Mounted}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	httperrors.RespondJSON(w, http.StatusCreated, map[string]interface{}{"containers": out})
}

// checkCounts rejects negative element counts and counts above the configured cap.
func (h *HTTPHandlers) checkCounts(spec ContainerSpec) (string, bool) {
	counts := []int{spec.Slides, spec.Indicators, countOr(spec.PrevControls, 1), countOr(spec.NextControls, 1)}
	for _, n := range counts {
		if n < 0 {
			return "element counts must not be negative", false
		}
		if n > h.maxElements {
			return fmt.Sprintf("element counts must not exceed %d", h.maxElements), false
		}
	}
	return "", true
}

// Get handles GET /v1/slideshows/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r.PathValue("id"))
}

// Show handles POST /v1/slideshows/{id}/show
func (h *HTTPHandlers) Show(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "index is required", "index")
		return
	}
	id := r.PathValue("id")
	if _, err := h.ctrl.Show(id, *req.Index); err != nil {
		h.respondErr(w, err)
		return
	}
	h.respondState(w, id)
}

// Prev handles POST /v1/slideshows/{id}/prev by clicking the container's previous control.
func (h *HTTPHandlers) Prev(w http.ResponseWriter, r *http.Request) {
	h.clickControl(w, r.PathValue("id"), func(vc *VirtualContainer) []*Panel { return vc.Prev })
}

// Next handles POST /v1/slideshows/{id}/next by clicking the container's next control.
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	h.clickControl(w, r.PathValue("id"), func(vc *VirtualContainer) []*Panel { return vc.Next })
}

// ClickIndicator handles POST /v1/slideshows/{id}/indicators/{i}/click
func (h *HTTPHandlers) ClickIndicator(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	i, err := strconv.Atoi(r.PathValue("i"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "indicator index must be an integer", "i")
		return
	}
	h.clickControl(w, id, func(vc *VirtualContainer) []*Panel {
		if i < 0 || i >= len(vc.Indicators) {
			return nil
		}
		return vc.Indicators[i : i+1]
	})
}

// PlusSlides handles POST /v1/slideshows/legacy/plus?n=
func (h *HTTPHandlers) PlusSlides(w http.ResponseWriter, r *http.Request) {
	h.legacy(w, r, h.ctrl.PlusSlides)
}

// CurrentSlide handles POST /v1/slideshows/legacy/current?n=
func (h *HTTPHandlers) CurrentSlide(w http.ResponseWriter, r *http.Request) {
	h.legacy(w, r, h.ctrl.CurrentSlide)
}

func (h *HTTPHandlers) legacy(w http.ResponseWriter, r *http.Request, fn func(int) (int, error)) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "n must be an integer", "n")
		return
	}
	idx, err := fn(n)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	stored, _ := h.ctrl.LegacyIndex()
	httperrors.RespondJSON(w, http.StatusOK, map[string]int{"index": idx, "legacy_index": stored})
}

func (h *HTTPHandlers) clickControl(w http.ResponseWriter, id string, pick func(*VirtualContainer) []*Panel) {
	vc, ok := h.page.Lookup(id)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.ErrCodeContainerNotFound, "Unknown slide container")
		return
	}
	panels := pick(vc)
	if len(panels) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeIndicatorNotFound, "No such control on this container")
		return
	}
	panels[0].Click()
	h.respondState(w, id)
}

func (h *HTTPHandlers) respondState(w http.ResponseWriter, id string) {
	snap, err := h.ctrl.State(id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	view := containerView{
		ID:         snap.ID,
		ParentID:   snap.ParentID,
		Index:      snap.Index,
		IntervalMs: snap.Interval.Milliseconds(),
	}
	if vc, ok := h.page.Lookup(id); ok {
		view.Visible, view.Active = vc.Visibility()
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

func (h *HTTPHandlers) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownContainer):
		httperrors.RespondNotFound(w, httperrors.ErrCodeContainerNotFound, err.Error())
	case errors.Is(err, ErrNoContainers), errors.Is(err, ErrEmptyContainer):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeNoContainers, err.Error())
	case errors.Is(err, ErrDuplicateContainer):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeContainerExists, err.Error())
	case errors.Is(err, ErrContainerFault):
		h.logger.Warn().Err(err).Msg("slideshow container fault")
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeContainerFault, err.Error())
	default:
		h.logger.Error().Err(err).Msg("slideshow request failed")
		httperrors.RespondInternalError(w, err.Error())
	}
}
