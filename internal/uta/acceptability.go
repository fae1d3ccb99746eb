package uta

import (
	"context"
	"sort"
)

// tieTolerance is the utility difference under which two alternatives share
// a rank in a sample.
const tieTolerance = 1e-9

// acceptability samples the compatible value functions and returns, for
// every alternative, the percentage of samples placing it at each rank.
// Sampler failures and alternatives never counted yield empty histograms.
func (e *Engine) acceptability(ctx context.Context, in *instance) map[string][]float64 {
	ids := in.grid.ids
	n := len(ids)
	out := make(map[string][]float64, n)
	for _, id := range ids {
		out[id] = []float64{}
	}

	b := in.sampling()
	b.model.Seal()
	samples, err := e.sampler.Sample(ctx, b.model, e.opts.Samples)
	if err != nil {
		e.logger.Warn("sampler failed, acceptability left empty", "error", err)
		return out
	}

	counts := make([][]int, n)
	for a := range counts {
		counts[a] = make([]int, n)
	}
	skipped := 0
	utilities := make([]float64, n)
	for _, row := range samples {
		if len(row) != b.model.NumVars() {
			skipped++
			continue
		}
		values := b.space.valuesFromRow(row)
		interpolate(in.grid, values)
		for a := range utilities {
			utilities[a] = in.grid.utilityOf(a, values)
		}
		for a, r := range competitionRanks(utilities) {
			counts[a][r-1]++
		}
	}
	if skipped > 0 {
		e.logger.Warn("discarded malformed samples", "skipped", skipped, "total", len(samples))
	}

	for a, id := range ids {
		total := 0
		for _, c := range counts[a] {
			total += c
		}
		if total == 0 {
			continue
		}
		hist := make([]float64, n)
		for r, c := range counts[a] {
			hist[r] = round(100*float64(c)/float64(total), 10)
		}
		out[id] = hist
	}
	return out
}

// competitionRanks ranks utilities descending; tied values share the best
// rank of their group and the next rank skips accordingly (1, 2, 2, 4).
func competitionRanks(utilities []float64) []int {
	order := make([]int, len(utilities))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return utilities[order[i]] > utilities[order[j]] })

	ranks := make([]int, len(utilities))
	for pos, a := range order {
		if pos > 0 && utilities[order[pos-1]]-utilities[a] <= tieTolerance {
			ranks[a] = ranks[order[pos-1]]
			continue
		}
		ranks[a] = pos + 1
	}
	return ranks
}
