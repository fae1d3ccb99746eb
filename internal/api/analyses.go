package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/utagms/internal/analysis"
)

type AnalysesHandler struct {
	service *analysis.Service
}

func NewAnalysesHandler(s *analysis.Service) *AnalysesHandler {
	return &AnalysesHandler{service: s}
}

// request builds the common part of an analysis request from the URL.
func (h *AnalysesHandler) request(r *http.Request) (analysis.Request, error) {
	kind, err := analysis.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return analysis.Request{}, err
	}
	req := analysis.Request{Kind: kind}
	if raw := r.URL.Query().Get("samples"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return analysis.Request{}, errInvalidSamples
		}
		req.Samples = n
	}
	return req, nil
}

// Stored runs an analysis over a stored problem.
func (h *AnalysesHandler) Stored(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem id")
		return
	}
	req, err := h.request(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req.ProblemID = id
	h.run(w, r, req)
}

// Inline runs an analysis over the problem in the request body.
func (h *AnalysesHandler) Inline(w http.ResponseWriter, r *http.Request) {
	req, err := h.request(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	p, err := readProblem(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Problem = p
	h.run(w, r, req)
}

func (h *AnalysesHandler) run(w http.ResponseWriter, r *http.Request, req analysis.Request) {
	res, err := h.service.Run(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
