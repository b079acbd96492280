package cartpole

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/KEniuniu/DeepRL/environment"
)

func newTestCartpole(cutoff int) *Cartpole {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	starter := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds,
		bounds}, 14)
	task := NewBalance(starter, cutoff, FailAngle)
	c, _ := New(task, 0.99)
	return c
}

func TestCartpoleReset(t *testing.T) {
	c := newTestCartpole(500)

	step, err := c.Reset()
	if err != nil {
		t.Fatal(err)
	}

	if !step.First() {
		t.Error("expected the starting step to be the first in the episode")
	}
	if step.Observation.Len() != ObservationDims {
		t.Fatalf("expected %v observation dimensions, got %v",
			ObservationDims, step.Observation.Len())
	}
	for i := 0; i < step.Observation.Len(); i++ {
		if o := step.Observation.AtVec(i); o < -0.05 || o > 0.05 {
			t.Errorf("feature %v: expected a start in [-0.05, 0.05], "+
				"got %v", i, o)
		}
	}
}

func TestCartpoleStep(t *testing.T) {
	c := newTestCartpole(500)
	if _, err := c.Reset(); err != nil {
		t.Fatal(err)
	}

	// Accelerating right must increase the cart's speed
	step, done, err := c.Step(mat.NewVecDense(1, []float64{2}))
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("expected the episode to continue after one step")
	}
	if step.Number != 1 {
		t.Errorf("expected step number 1, got %v", step.Number)
	}
	if xDot := step.Observation.AtVec(1); xDot <= -0.05 {
		t.Errorf("expected a rightward push to increase speed, got %v", xDot)
	}
}

func TestCartpoleIllegalAction(t *testing.T) {
	c := newTestCartpole(500)
	if _, err := c.Reset(); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Step(mat.NewVecDense(1, []float64{3})); err == nil {
		t.Error("expected an error for an illegal action")
	}
}

func TestCartpoleEpisodeEnds(t *testing.T) {
	c := newTestCartpole(500)
	if _, err := c.Reset(); err != nil {
		t.Fatal(err)
	}

	// Constantly accelerating left tips the pole over, ending the
	// episode well before the step limit
	action := mat.NewVecDense(1, []float64{0})
	for i := 0; i < 500; i++ {
		step, done, err := c.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			if !step.Last() {
				t.Error("expected the final step to be marked last")
			}
			if step.Reward != -1.0 {
				t.Errorf("expected a reward of -1 for a fallen pole, "+
					"got %v", step.Reward)
			}
			return
		}
		if step.Reward != 1.0 {
			t.Errorf("expected a reward of 1 for a balanced pole, got %v",
				step.Reward)
		}
	}
	t.Error("expected the episode to end within the step limit")
}

func TestCartpoleStepLimit(t *testing.T) {
	c := newTestCartpole(10)
	if _, err := c.Reset(); err != nil {
		t.Fatal(err)
	}

	// Doing nothing keeps the pole up long enough to hit the limit
	// from a near-upright start
	action := mat.NewVecDense(1, []float64{1})
	for i := 0; i < 10; i++ {
		step, done, err := c.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if done != (i == 9) {
			t.Fatalf("expected the episode to end on step 10, got step %v",
				step.Number)
		}
	}
}

func TestCartpoleSpecs(t *testing.T) {
	c := newTestCartpole(500)

	actionSpec := c.ActionSpec()
	if actionSpec.Cardinality != env.Discrete {
		t.Error("expected discrete actions")
	}
	if max := actionSpec.UpperBound.AtVec(0); max != 2.0 {
		t.Errorf("expected a maximum action of 2, got %v", max)
	}

	obsSpec := c.ObservationSpec()
	if obsSpec.Shape.Len() != ObservationDims {
		t.Errorf("expected %v observation dimensions, got %v",
			ObservationDims, obsSpec.Shape.Len())
	}
	if min := obsSpec.LowerBound.AtVec(2); min != -math.Pi {
		t.Errorf("expected a minimum angle of -π, got %v", min)
	}
}
