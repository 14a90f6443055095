package forecast

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/laborplan/core/model"
)

// Missing-value policies for lag/rolling features inside the regressor. The
// feature builder never fills missing values itself; the policy here is the
// explicit caller choice the pipeline contract requires.
const (
	// MissingZero replaces missing feature values with zero.
	MissingZero = "zero"
	// MissingDrop removes training rows containing a missing value. Test
	// rows are always zero-filled since every test row needs a prediction.
	MissingDrop = "drop"
)

// RidgeConfig configures the trainable regressor.
type RidgeConfig struct {
	// Lambdas is the ridge-penalty grid searched by rolling-origin CV. The
	// first value is used directly when the grid has a single entry.
	Lambdas []float64 `json:"lambdas"`
	// CVSplits is the number of time-ordered validation folds.
	CVSplits int `json:"cv_splits"`
	// MissingPolicy is "zero" or "drop".
	MissingPolicy string `json:"missing_policy"`
}

// SetDefaults applies the reference grid.
func (c *RidgeConfig) SetDefaults() {
	if len(c.Lambdas) == 0 {
		c.Lambdas = []float64{0.1, 1, 10}
	}
	if c.CVSplits == 0 {
		c.CVSplits = 3
	}
	if c.MissingPolicy == "" {
		c.MissingPolicy = MissingZero
	}
}

// Validate rejects negative penalties and unknown policies.
func (c RidgeConfig) Validate() error {
	for _, l := range c.Lambdas {
		if l < 0 {
			return &model.ConfigError{Param: "lambdas", Msg: "penalty must be non-negative"}
		}
	}
	if c.CVSplits < 1 {
		return &model.ConfigError{Param: "cv_splits", Msg: "at least one split required"}
	}
	if c.MissingPolicy != MissingZero && c.MissingPolicy != MissingDrop {
		return &model.ConfigError{Param: "missing_policy", Msg: "must be \"zero\" or \"drop\""}
	}
	return nil
}

// Ridge is a linear model with an L2 penalty trained on the full feature
// matrix. Features are standardised on train statistics before solving, which
// also makes the coefficient magnitudes comparable across columns.
type Ridge struct {
	cfg    RidgeConfig
	spec   designSpec
	coef   linearCoef
	lambda float64
	fitted bool
}

// linearCoef holds a fitted standardised linear model.
type linearCoef struct {
	mean      []float64
	scale     []float64
	weights   []float64
	intercept float64
}

// NewRidge validates the configuration and returns an unfitted regressor.
func NewRidge(cfg RidgeConfig) (*Ridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Ridge{cfg: cfg}, nil
}

func (g *Ridge) Name() string { return "ridge" }

// Lambda returns the penalty selected during Fit.
func (g *Ridge) Lambda() float64 { return g.lambda }

// Fit builds the design matrix, selects the penalty by rolling-origin
// cross-validation and solves the penalised normal equations.
func (g *Ridge) Fit(train []model.FeatureRow) error {
	if len(train) == 0 {
		return &model.ModelFitError{Model: g.Name(), Msg: "empty training set"}
	}

	g.spec = newDesignSpec(train)
	rows := make([][]float64, 0, len(train))
	y := make([]float64, 0, len(train))
	dates := make([]time.Time, 0, len(train))
	for _, r := range train {
		v := g.spec.vector(r)
		if g.cfg.MissingPolicy == MissingDrop && hasMissing(v) {
			continue
		}
		fillMissing(v)
		rows = append(rows, v)
		y = append(y, r.Demand)
		dates = append(dates, r.Date)
	}
	if len(rows) == 0 {
		return &model.ModelFitError{Model: g.Name(), Msg: "no usable training rows after missing-value policy"}
	}
	if constant(y) {
		return &model.ModelFitError{Model: g.Name(), Msg: "degenerate training set: constant target"}
	}

	lambda := g.cfg.Lambdas[0]
	if len(g.cfg.Lambdas) > 1 {
		lambda = g.selectLambda(rows, y, dates)
	}

	coef, err := solveRidge(rows, y, lambda)
	if err != nil {
		return &model.ModelFitError{Model: g.Name(), Msg: "solver failed", Err: err}
	}
	g.coef = coef
	g.lambda = lambda
	g.fitted = true
	return nil
}

// Predict applies the fitted model to the test rows. Missing feature values
// are zero-filled, matching the training-side policy, since every test row
// must receive a prediction.
func (g *Ridge) Predict(test []model.FeatureRow) ([]model.ForecastRow, error) {
	if !g.fitted {
		return nil, notFitted(g.Name())
	}
	out := make([]model.ForecastRow, len(test))
	for i, r := range test {
		v := g.spec.vector(r)
		out[i] = model.ForecastRow{
			EntityID:  r.EntityID,
			Date:      r.Date,
			Actual:    r.Demand,
			Predicted: g.coef.predict(v),
		}
	}
	return out, nil
}

// FeatureImportance ranks a feature by the magnitude of its standardised
// coefficient.
type FeatureImportance struct {
	Feature string
	Weight  float64
}

// Importances returns the features ordered by decreasing influence. It is a
// proxy, not a causal measure.
func (g *Ridge) Importances() ([]FeatureImportance, error) {
	if !g.fitted {
		return nil, notFitted(g.Name())
	}
	out := make([]FeatureImportance, len(g.spec.names))
	for i, name := range g.spec.names {
		out[i] = FeatureImportance{Feature: name, Weight: math.Abs(g.coef.weights[i])}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

// predict standardises the raw vector with train statistics and applies the
// linear model. Missing raw values are treated as zero, like in training.
func (c linearCoef) predict(raw []float64) float64 {
	pred := c.intercept
	for j, v := range raw {
		if model.IsMissing(v) {
			v = 0
		}
		pred += c.weights[j] * (v - c.mean[j]) / c.scale[j]
	}
	return pred
}

// solveRidge standardises the columns, centres the target and solves
// (ZᵀZ + λI) w = Zᵀy.
func solveRidge(rows [][]float64, y []float64, lambda float64) (linearCoef, error) {
	n := len(rows)
	p := len(rows[0])

	mean := make([]float64, p)
	scale := make([]float64, p)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += rows[i][j]
		}
		mean[j] = sum / float64(n)
		var sq float64
		for i := 0; i < n; i++ {
			d := rows[i][j] - mean[j]
			sq += d * d
		}
		scale[j] = math.Sqrt(sq / float64(n))
		if scale[j] == 0 {
			// Constant column: keep it inert rather than dividing by zero.
			scale[j] = 1
		}
	}

	var ybar float64
	for _, v := range y {
		ybar += v
	}
	ybar /= float64(n)

	z := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			z.Set(i, j, (rows[i][j]-mean[j])/scale[j])
		}
	}
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-ybar)
	}

	var gram mat.Dense
	gram.Mul(z.T(), z)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+lambda)
	}
	var zty mat.VecDense
	zty.MulVec(z.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &zty); err != nil {
		return linearCoef{}, err
	}

	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = w.AtVec(j)
	}
	return linearCoef{mean: mean, scale: scale, weights: weights, intercept: ybar}, nil
}

func hasMissing(v []float64) bool {
	for _, x := range v {
		if model.IsMissing(x) {
			return true
		}
	}
	return false
}

func fillMissing(v []float64) {
	for i, x := range v {
		if model.IsMissing(x) {
			v[i] = 0
		}
	}
}

func constant(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
