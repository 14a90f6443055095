package forecast

import (
	"math"

	"github.com/kilianp07/laborplan/core/model"
)

// Metrics summarises forecast accuracy over the test partition. MAPE excludes
// rows whose actual demand is exactly zero; those are counted in ZeroActuals
// instead of silently producing a division by zero.
type Metrics struct {
	MAE         float64
	RMSE        float64
	MAPE        float64 // percent; NaN when every actual is zero
	N           int
	ZeroActuals int
}

// Evaluate computes MAE, RMSE and MAPE over the given forecast rows. It is
// applied identically to every model variant.
func Evaluate(rows []model.ForecastRow) Metrics {
	m := Metrics{N: len(rows)}
	if len(rows) == 0 {
		m.MAPE = math.NaN()
		return m
	}

	var absSum, sqSum, pctSum float64
	pctN := 0
	for _, r := range rows {
		err := r.Predicted - r.Actual
		absSum += math.Abs(err)
		sqSum += err * err
		if r.Actual == 0 {
			m.ZeroActuals++
			continue
		}
		pctSum += math.Abs(err / r.Actual)
		pctN++
	}

	n := float64(len(rows))
	m.MAE = absSum / n
	m.RMSE = math.Sqrt(sqSum / n)
	if pctN > 0 {
		m.MAPE = 100 * pctSum / float64(pctN)
	} else {
		m.MAPE = math.NaN()
	}
	return m
}
