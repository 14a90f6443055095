package forecast

import (
	"math"
	"sort"
	"time"
)

// selectLambda picks the penalty minimising mean validation MAE across
// rolling-origin folds. Each fold's validation block is strictly later in
// time than its training prefix; a random k-fold would leak future demand
// into model selection. When the history is too short to form folds the
// first candidate wins.
func (g *Ridge) selectLambda(rows [][]float64, y []float64, dates []time.Time) float64 {
	folds := rollingOriginFolds(dates, g.cfg.CVSplits)
	if len(folds) == 0 {
		return g.cfg.Lambdas[0]
	}

	best := g.cfg.Lambdas[0]
	bestScore := math.Inf(1)
	for _, lambda := range g.cfg.Lambdas {
		var sum float64
		n := 0
		for _, f := range folds {
			score, ok := foldMAE(rows, y, f, lambda)
			if !ok {
				continue
			}
			sum += score
			n++
		}
		if n == 0 {
			continue
		}
		if score := sum / float64(n); score < bestScore {
			bestScore = score
			best = lambda
		}
	}
	return best
}

// fold indexes rows by position into a training prefix and a validation
// block.
type fold struct {
	train []int
	val   []int
}

// rollingOriginFolds splits the rows into nSplits time-ordered folds over the
// set of distinct dates, mirroring the holdout logic of the outer split: the
// i-th fold trains on the first i blocks of dates and validates on the next
// one.
func rollingOriginFolds(dates []time.Time, nSplits int) []fold {
	distinct := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		distinct[d] = struct{}{}
	}
	ordered := make([]time.Time, 0, len(distinct))
	for d := range distinct {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	blockSize := len(ordered) / (nSplits + 1)
	if blockSize == 0 {
		return nil
	}

	rank := make(map[time.Time]int, len(ordered))
	for i, d := range ordered {
		rank[d] = i
	}

	folds := make([]fold, 0, nSplits)
	for s := 1; s <= nSplits; s++ {
		trainEnd := blockSize * s
		valEnd := blockSize * (s + 1)
		if s == nSplits {
			valEnd = len(ordered)
		}
		var f fold
		for i, d := range dates {
			switch r := rank[d]; {
			case r < trainEnd:
				f.train = append(f.train, i)
			case r < valEnd:
				f.val = append(f.val, i)
			}
		}
		if len(f.train) > 0 && len(f.val) > 0 {
			folds = append(folds, f)
		}
	}
	return folds
}

// foldMAE fits a ridge with the given penalty on the fold's training prefix
// and scores it on the validation block. Degenerate folds report !ok and are
// skipped.
func foldMAE(rows [][]float64, y []float64, f fold, lambda float64) (float64, bool) {
	sub := make([][]float64, len(f.train))
	suby := make([]float64, len(f.train))
	for i, idx := range f.train {
		sub[i] = rows[idx]
		suby[i] = y[idx]
	}
	if constant(suby) {
		return 0, false
	}
	coef, err := solveRidge(sub, suby, lambda)
	if err != nil {
		return 0, false
	}
	var absSum float64
	for _, idx := range f.val {
		absSum += math.Abs(coef.predict(rows[idx]) - y[idx])
	}
	return absSum / float64(len(f.val)), true
}
