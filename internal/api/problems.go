package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/utagms/internal/hermes"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
	"github.com/MikeSquared-Agency/utagms/internal/store"
)

// maxProblemBytes bounds request bodies carrying a problem.
const maxProblemBytes = 4 << 20

type ProblemsHandler struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func NewProblemsHandler(s store.Store, h hermes.Client, logger *slog.Logger) *ProblemsHandler {
	return &ProblemsHandler{store: s, hermes: h, logger: logger}
}

// readProblem decodes and validates the problem in the request body.
func readProblem(w http.ResponseWriter, r *http.Request) (*problem.Problem, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProblemBytes))
	if err != nil {
		return nil, err
	}
	p, err := problem.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *ProblemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readProblem(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sp := &store.StoredProblem{Name: p.Name, Problem: p}
	if err := h.store.CreateProblem(r.Context(), sp); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(hermes.SubjectProblemCreated(sp.ID.String()), sp.ID, sp.Name)
	writeJSON(w, http.StatusCreated, sp)
}

func (h *ProblemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ProblemFilter{}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid "+name)
			return
		}
		*dst = n
	}

	problems, err := h.store.ListProblems(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if problems == nil {
		problems = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, problems)
}

func (h *ProblemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem id")
		return
	}

	sp, err := h.store.GetProblem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sp == nil {
		writeError(w, http.StatusNotFound, "problem not found")
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (h *ProblemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem id")
		return
	}

	if err := h.store.DeleteProblem(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.publish(hermes.SubjectProblemDeleted(id.String()), id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProblemsHandler) publish(subject string, id uuid.UUID, name string) {
	if h.hermes == nil {
		return
	}
	evt := hermes.ProblemEvent{ProblemID: id.String(), Name: name, Timestamp: time.Now().UTC()}
	if err := h.hermes.Publish(subject, evt); err != nil {
		h.logger.Warn("failed to publish problem event", "subject", subject, "error", err)
	}
}
