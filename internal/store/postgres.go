package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

const schema = `
CREATE TABLE IF NOT EXISTS utagms_problems (
	problem_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name       TEXT NOT NULL DEFAULT '',
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateProblem(ctx context.Context, sp *StoredProblem) error {
	body, err := json.Marshal(sp.Problem)
	if err != nil {
		return fmt.Errorf("encode problem: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO utagms_problems (name, body)
		VALUES ($1, $2)
		RETURNING problem_id, created_at`,
		sp.Name, body,
	).Scan(&sp.ID, &sp.CreatedAt)
}

func (s *PostgresStore) GetProblem(ctx context.Context, id uuid.UUID) (*StoredProblem, error) {
	sp := &StoredProblem{}
	var body []byte
	err := s.pool.QueryRow(ctx, `
		SELECT problem_id, name, body, created_at
		FROM utagms_problems WHERE problem_id = $1`, id,
	).Scan(&sp.ID, &sp.Name, &body, &sp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sp.Problem = &problem.Problem{}
	if err := json.Unmarshal(body, sp.Problem); err != nil {
		return nil, fmt.Errorf("decode problem %s: %w", id, err)
	}
	return sp, nil
}

func (s *PostgresStore) ListProblems(ctx context.Context, filter ProblemFilter) ([]Summary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT problem_id, name,
			jsonb_array_length(body->'alternatives'),
			jsonb_array_length(body->'criteria'),
			created_at
		FROM utagms_problems
		ORDER BY created_at DESC, problem_id
		LIMIT $1 OFFSET $2`, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Alternatives, &sum.Criteria, &sum.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteProblem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM utagms_problems WHERE problem_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
