// Package analysis runs UTA-GMS analyses on behalf of the API, the CLI and
// the event bus, and reports their lifecycle to hermes and Prometheus.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/utagms/internal/hermes"
	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/metrics"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
	"github.com/MikeSquared-Agency/utagms/internal/store"
	"github.com/MikeSquared-Agency/utagms/internal/uta"
)

type Kind string

const (
	KindHasse          Kind = "hasse"
	KindRanking        Kind = "ranking"
	KindRepresentative Kind = "representative"
	KindFunctions      Kind = "functions"
)

// ParseKind accepts the kinds above.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindHasse, KindRanking, KindRepresentative, KindFunctions:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown analysis kind %q", problem.ErrInvalid, s)
}

var ErrProblemNotFound = errors.New("analysis: problem not found")

// Request is one analysis to run. Problem takes precedence over ProblemID.
type Request struct {
	Kind      Kind
	ProblemID uuid.UUID
	Problem   *problem.Problem
	// Samples overrides the configured sampler draws for representative
	// runs; 0 keeps the default.
	Samples int
}

type Result struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	Kind       Kind      `json:"kind"`
	ProblemID  string    `json:"problem_id,omitempty"`
	DurationMs int64     `json:"duration_ms"`

	Diagram        uta.Diagram         `json:"hasse,omitempty"`
	Ranking        uta.Ranking         `json:"ranking,omitempty"`
	Representative *uta.Representative `json:"representative,omitempty"`
	Functions      uta.Functions       `json:"functions,omitempty"`
}

// Payload is the kind-specific part of r.
func (r *Result) Payload() interface{} {
	switch r.Kind {
	case KindHasse:
		return r.Diagram
	case KindRanking:
		return r.Ranking
	case KindRepresentative:
		return r.Representative
	case KindFunctions:
		return r.Functions
	}
	return nil
}

type Service struct {
	engine  *uta.Engine
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New wires the service. hermes and metrics may be nil.
func New(e *uta.Engine, s store.Store, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{engine: e, store: s, hermes: h, metrics: m, logger: logger}
}

func (s *Service) Hasse(ctx context.Context, p *problem.Problem) (*Result, error) {
	return s.Run(ctx, Request{Kind: KindHasse, Problem: p})
}

func (s *Service) Rank(ctx context.Context, p *problem.Problem) (*Result, error) {
	return s.Run(ctx, Request{Kind: KindRanking, Problem: p})
}

func (s *Service) Representative(ctx context.Context, p *problem.Problem, samples int) (*Result, error) {
	return s.Run(ctx, Request{Kind: KindRepresentative, Problem: p, Samples: samples})
}

func (s *Service) Functions(ctx context.Context, p *problem.Problem) (*Result, error) {
	return s.Run(ctx, Request{Kind: KindFunctions, Problem: p})
}

// Run resolves the problem, runs the analysis and publishes its lifecycle
// events.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	p, problemID, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	res := &Result{AnalysisID: uuid.New(), Kind: req.Kind, ProblemID: problemID}
	s.publish(hermes.SubjectAnalysisStarted(res.AnalysisID.String()), hermes.AnalysisStartedEvent{
		AnalysisID:   res.AnalysisID.String(),
		Kind:         string(req.Kind),
		ProblemID:    problemID,
		Alternatives: len(p.Alternatives),
	})

	start := time.Now()
	err = s.execute(ctx, req, p, res)
	elapsed := time.Since(start)
	res.DurationMs = elapsed.Milliseconds()

	status := "ok"
	if err != nil {
		status = statusOf(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(string(req.Kind), status, elapsed)
	}

	if err != nil {
		s.logger.Warn("analysis failed",
			"analysis_id", res.AnalysisID,
			"kind", req.Kind,
			"problem_id", problemID,
			"status", status,
			"error", err,
		)
		s.publish(hermes.SubjectAnalysisFailed(res.AnalysisID.String()), hermes.AnalysisFailedEvent{
			AnalysisID: res.AnalysisID.String(),
			Kind:       string(req.Kind),
			ProblemID:  problemID,
			Error:      err.Error(),
			Infeasible: errors.Is(err, uta.ErrInfeasible),
		})
		return nil, err
	}

	s.logger.Info("analysis completed",
		"analysis_id", res.AnalysisID,
		"kind", req.Kind,
		"problem_id", problemID,
		"alternatives", len(p.Alternatives),
		"duration_ms", res.DurationMs,
	)
	s.publish(hermes.SubjectAnalysisCompleted(res.AnalysisID.String()), hermes.AnalysisCompletedEvent{
		AnalysisID: res.AnalysisID.String(),
		Kind:       string(req.Kind),
		ProblemID:  problemID,
		DurationMs: res.DurationMs,
		Result:     res.Payload(),
	})
	return res, nil
}

func (s *Service) resolve(ctx context.Context, req Request) (*problem.Problem, string, error) {
	if req.Problem != nil {
		return req.Problem, "", nil
	}
	if req.ProblemID == uuid.Nil {
		return nil, "", fmt.Errorf("%w: no problem given", problem.ErrInvalid)
	}
	if s.store == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrProblemNotFound, req.ProblemID)
	}
	sp, err := s.store.GetProblem(ctx, req.ProblemID)
	if err != nil {
		return nil, "", fmt.Errorf("load problem %s: %w", req.ProblemID, err)
	}
	if sp == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrProblemNotFound, req.ProblemID)
	}
	return sp.Problem, sp.ID.String(), nil
}

func (s *Service) execute(ctx context.Context, req Request, p *problem.Problem, res *Result) error {
	var err error
	switch req.Kind {
	case KindHasse:
		res.Diagram, err = s.engine.Hasse(ctx, p)
	case KindRanking:
		res.Ranking, err = s.engine.Rank(ctx, p)
	case KindRepresentative:
		e := s.engine
		if req.Samples > 0 {
			e = e.WithSamples(req.Samples)
		}
		res.Representative, err = e.Representative(ctx, p)
	case KindFunctions:
		res.Functions, err = s.engine.Functions(ctx, p)
	default:
		_, err = ParseKind(string(req.Kind))
	}
	return err
}

// statusOf is the metrics status label of a failed analysis.
func statusOf(err error) string {
	switch {
	case errors.Is(err, problem.ErrInvalid):
		return "invalid"
	case errors.Is(err, uta.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, lp.ErrIntegerUnsupported):
		return "unsupported"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}

func (s *Service) publish(subject string, event interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, event); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// SetupSubscriptions serves analysis requests arriving over NATS. Results
// go to the lifecycle subjects and, when set, to the request's reply_to.
func (s *Service) SetupSubscriptions(ctx context.Context) error {
	if s.hermes == nil {
		return nil
	}
	return s.hermes.Subscribe(hermes.SubjectAnalysisRequest, func(_ string, data []byte) {
		s.handleRequest(ctx, data)
	})
}

func (s *Service) handleRequest(ctx context.Context, data []byte) {
	var evt hermes.AnalysisRequestEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		s.logger.Warn("invalid analysis request event", "error", err)
		return
	}
	req, err := requestFromEvent(evt)
	if err != nil {
		s.logger.Warn("rejected analysis request", "kind", evt.Kind, "problem_id", evt.ProblemID, "error", err)
		s.reply(evt.ReplyTo, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.Run(ctx, req)
	if err != nil {
		s.reply(evt.ReplyTo, map[string]string{"error": err.Error()})
		return
	}
	s.reply(evt.ReplyTo, res)
}

func requestFromEvent(evt hermes.AnalysisRequestEvent) (Request, error) {
	kind, err := ParseKind(evt.Kind)
	if err != nil {
		return Request{}, err
	}
	req := Request{Kind: kind, Samples: evt.Samples}
	switch {
	case len(evt.Problem) > 0:
		p, err := problem.DecodeJSON(evt.Problem)
		if err != nil {
			return Request{}, err
		}
		req.Problem = p
	case evt.ProblemID != "":
		id, err := uuid.Parse(evt.ProblemID)
		if err != nil {
			return Request{}, fmt.Errorf("%w: problem_id: %v", problem.ErrInvalid, err)
		}
		req.ProblemID = id
	default:
		return Request{}, fmt.Errorf("%w: request carries neither problem nor problem_id", problem.ErrInvalid)
	}
	return req, nil
}

func (s *Service) reply(subject string, v interface{}) {
	if subject == "" {
		return
	}
	s.publish(subject, v)
}
