package pendulum

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/KEniuniu/DeepRL/environment"
)

func newTestPendulum(cutoff int) *Pendulum {
	angles := r1.Interval{Min: -AngleBound, Max: AngleBound}
	speeds := r1.Interval{Min: -1.0, Max: 1.0}
	starter := env.NewUniformStarter([]r1.Interval{angles, speeds}, 14)
	task := NewSwingUp(starter, cutoff)
	p, _ := New(task, 0.99)
	return p
}

func TestPendulumReset(t *testing.T) {
	p := newTestPendulum(200)

	step, err := p.Reset()
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
	if th := step.Observation.AtVec(0); th < -math.Pi || th > math.Pi {
		t.Errorf("expected a starting angle in [-π, π], got %v", th)
	}
	if thDot := step.Observation.AtVec(1); thDot < -1.0 || thDot > 1.0 {
		t.Errorf("expected a starting speed in [-1, 1], got %v", thDot)
	}
}

func TestPendulumStateStaysBounded(t *testing.T) {
	p := newTestPendulum(200)
	if _, err := p.Reset(); err != nil {
		t.Fatal(err)
	}

	// Torques outside the legal bounds are clipped, and the state
	// stays within its bounds under them
	action := mat.NewVecDense(1, []float64{100.0})
	for i := 0; i < 200; i++ {
		step, done, err := p.Step(action)
		if err != nil {
			t.Fatal(err)
		}

		if th := step.Observation.AtVec(0); th < -math.Pi || th > math.Pi {
			t.Errorf("step %v: expected an angle in [-π, π], got %v", i, th)
		}
		thDot := step.Observation.AtVec(1)
		if thDot < -SpeedBound || thDot > SpeedBound {
			t.Errorf("step %v: expected a speed in [-%v, %v], got %v", i,
				SpeedBound, SpeedBound, thDot)
		}

		if done != (i == 199) {
			t.Fatalf("expected the episode to end on step 200, got step %v",
				step.Number)
		}
	}
}

func TestPendulumReward(t *testing.T) {
	p := newTestPendulum(200)
	if _, err := p.Reset(); err != nil {
		t.Fatal(err)
	}

	step, _, err := p.Step(mat.NewVecDense(1, []float64{0.0}))
	if err != nil {
		t.Fatal(err)
	}

	expected := math.Cos(step.Observation.AtVec(0))
	if math.Abs(step.Reward-expected) > 1e-12 {
		t.Errorf("expected a reward of %v, got %v", expected, step.Reward)
	}
}

func TestPendulumSpecs(t *testing.T) {
	p := newTestPendulum(200)

	actionSpec := p.ActionSpec()
	if actionSpec.Cardinality != env.Continuous {
		t.Error("expected continuous actions")
	}
	if min := actionSpec.LowerBound.AtVec(0); min != -TorqueBound {
		t.Errorf("expected a minimum torque of -%v, got %v", TorqueBound,
			min)
	}
	if max := actionSpec.UpperBound.AtVec(0); max != TorqueBound {
		t.Errorf("expected a maximum torque of %v, got %v", TorqueBound, max)
	}
}
