package a2c

import (
	"gonum.org/v1/gonum/mat"

	env "github.com/KEniuniu/DeepRL/environment"
	ts "github.com/KEniuniu/DeepRL/timestep"
)

// chainEnv is a deterministic environment for testing. Episodes last
// exactly cutoff steps, each step gives a reward of +1, and the single
// state feature alternates between 0 and 1. Actions are a single
// value, either discrete in {0, 1} or continuous in [-1, 1] depending
// on the cardinality the environment is created with.
type chainEnv struct {
	cardinality env.Cardinality
	cutoff      int
	t           int
}

func newChainEnv(cardinality env.Cardinality, cutoff int) *chainEnv {
	return &chainEnv{cardinality: cardinality, cutoff: cutoff}
}

func (c *chainEnv) observation() *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(c.t % 2)})
}

func (c *chainEnv) Start() *mat.VecDense {
	c.t = 0
	return c.observation()
}

func (c *chainEnv) End(step *ts.TimeStep) bool {
	if step.Number >= c.cutoff {
		step.StepType = ts.Last
		return true
	}
	return false
}

func (c *chainEnv) GetReward(_, _, _ mat.Vector) float64 { return 1.0 }

func (c *chainEnv) AtGoal(_ mat.Matrix) bool { return false }

func (c *chainEnv) Min() float64 { return 1.0 }

func (c *chainEnv) Max() float64 { return 1.0 }

func (c *chainEnv) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Reward, bound, bound, env.Continuous)
}

func (c *chainEnv) Reset() (ts.TimeStep, error) {
	return ts.New(ts.First, 0, 1.0, c.Start(), 0), nil
}

func (c *chainEnv) Step(_ *mat.VecDense) (ts.TimeStep, bool, error) {
	c.t++
	step := ts.New(ts.Mid, 1.0, 1.0, c.observation(), c.t)
	c.End(&step)
	return step, step.Last(), nil
}

func (c *chainEnv) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

func (c *chainEnv) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0.0})
	upper := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Observation, lower, upper,
		env.Continuous)
}

func (c *chainEnv) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	if c.cardinality == env.Discrete {
		lower := mat.NewVecDense(1, []float64{0.0})
		upper := mat.NewVecDense(1, []float64{1.0})
		return env.NewSpec(shape, env.Action, lower, upper, env.Discrete)
	}

	lower := mat.NewVecDense(1, []float64{-1.0})
	upper := mat.NewVecDense(1, []float64{1.0})
	return env.NewSpec(shape, env.Action, lower, upper, env.Continuous)
}

// testConfig returns a small configuration that keeps tests fast
func testConfig() Config {
	c := DefaultConfig()
	c.ActorLayers = []int{5}
	c.CriticLayers = []int{5}
	c.Iterations = 2
	c.TimestepsPerBatch = 12
	return c
}
