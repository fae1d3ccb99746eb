package uta

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

type mockSampler struct {
	mock.Mock
}

func (m *mockSampler) Sample(ctx context.Context, model *lp.Model, n int) ([][]float64, error) {
	args := m.Called(ctx, model, n)
	rows, _ := args.Get(0).([][]float64)
	return rows, args.Error(1)
}

func singleCriterion() *problem.Problem {
	return &problem.Problem{
		Criteria: []problem.Criterion{{ID: "x", Direction: problem.Gain}},
		Alternatives: []problem.Alternative{
			{ID: "low", Performances: map[string]float64{"x": 1}},
			{ID: "mid", Performances: map[string]float64{"x": 2}},
			{ID: "high", Performances: map[string]float64{"x": 3}},
		},
	}
}

// sampleRow lays out marginal utilities in the column order of the
// sampling model.
func sampleRow(p *problem.Problem, u map[float64]float64) []float64 {
	b := newInstance(p).sampling()
	row := make([]float64, b.model.NumVars())
	for k, v := range b.space.vars {
		row[v] = u[k.Value]
	}
	return row
}

func TestAcceptabilityHistograms(t *testing.T) {
	p := singleCriterion()
	strict := sampleRow(p, map[float64]float64{1: 0, 2: 0.5, 3: 1})
	tied := sampleRow(p, map[float64]float64{1: 0, 2: 1, 3: 1})

	s := new(mockSampler)
	s.On("Sample", mock.Anything, mock.AnythingOfType("*lp.Model"), 4).
		Return([][]float64{strict, strict, tied, {0.1}}, nil)

	e := newTestEngine(func(o *Options) { o.Samples = 4 }).WithSampler(s)
	rep, err := e.Representative(context.Background(), p)
	require.NoError(t, err)
	s.AssertExpectations(t)

	acc := rep.Acceptability
	require.Len(t, acc, 3)
	assert.InDeltaSlice(t, []float64{100, 0, 0}, acc["high"], 1e-9)
	assert.InDeltaSlice(t, []float64{100.0 / 3, 200.0 / 3, 0}, acc["mid"], 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0, 100}, acc["low"], 1e-9)
}

func TestAcceptabilityModelIsContinuousWithoutEpsilon(t *testing.T) {
	p := singleCriterion()
	p.Preferences = []problem.Preference{{Superior: "high", Inferior: "low"}}

	var seen *lp.Model
	s := new(mockSampler)
	s.On("Sample", mock.Anything, mock.Anything, 10).
		Run(func(args mock.Arguments) { seen = args.Get(1).(*lp.Model) }).
		Return([][]float64{}, nil)

	e := newTestEngine(func(o *Options) { o.Samples = 10 }).WithSampler(s)
	_, err := e.Representative(context.Background(), p)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.True(t, seen.Sealed())
	assert.False(t, seen.HasIntegers())
	for _, v := range seen.Vars() {
		assert.NotEqual(t, "epsilon", v.Name)
	}
}

func TestAcceptabilitySamplerFailureLeavesHistogramsEmpty(t *testing.T) {
	s := new(mockSampler)
	s.On("Sample", mock.Anything, mock.Anything, 5).Return(nil, errors.New("java not found"))

	e := newTestEngine(func(o *Options) { o.Samples = 5 }).WithSampler(s)
	rep, err := e.Representative(context.Background(), singleCriterion())
	require.NoError(t, err)

	require.Len(t, rep.Acceptability, 3)
	for id, hist := range rep.Acceptability {
		assert.Empty(t, hist, id)
	}
	assert.Len(t, rep.Ranking, 3)
}

func TestCompetitionRanks(t *testing.T) {
	assert.Equal(t, []int{4, 1, 2, 2}, competitionRanks([]float64{0.1, 0.9, 0.5, 0.5}))
	assert.Equal(t, []int{1, 1, 1}, competitionRanks([]float64{0.3, 0.3, 0.3}))
}
