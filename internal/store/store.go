package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// ErrNotFound is returned by DeleteProblem when no row matches.
var ErrNotFound = errors.New("store: problem not found")

// StoredProblem is a validated problem saved for repeated analysis.
type StoredProblem struct {
	ID        uuid.UUID        `json:"problem_id"`
	Name      string           `json:"name"`
	Problem   *problem.Problem `json:"problem"`
	CreatedAt time.Time        `json:"created_at"`
}

// Summary is the listing view of a stored problem.
type Summary struct {
	ID           uuid.UUID `json:"problem_id"`
	Name         string    `json:"name"`
	Alternatives int       `json:"alternatives"`
	Criteria     int       `json:"criteria"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProblemFilter struct {
	Limit  int
	Offset int
}

type Store interface {
	// CreateProblem assigns ID and CreatedAt.
	CreateProblem(ctx context.Context, sp *StoredProblem) error
	// GetProblem returns nil, nil when id is unknown.
	GetProblem(ctx context.Context, id uuid.UUID) (*StoredProblem, error)
	ListProblems(ctx context.Context, filter ProblemFilter) ([]Summary, error)
	DeleteProblem(ctx context.Context, id uuid.UUID) error
	Close() error
}

func summarize(sp *StoredProblem) Summary {
	return Summary{
		ID:           sp.ID,
		Name:         sp.Name,
		Alternatives: len(sp.Problem.Alternatives),
		Criteria:     len(sp.Problem.Criteria),
		CreatedAt:    sp.CreatedAt,
	}
}
