package envconfig

import (
	"testing"

	env "github.com/KEniuniu/DeepRL/environment"
)

func TestCreateCartpole(t *testing.T) {
	config := NewConfig(Cartpole, 0, 0.99)

	environment, step, err := config.Create(14)
	if err != nil {
		t.Fatal(err)
	}

	if environment.ActionSpec().Cardinality != env.Discrete {
		t.Error("expected discrete actions")
	}
	if environment.ObservationSpec().Shape.Len() != 4 {
		t.Errorf("expected 4 observation dimensions, got %v",
			environment.ObservationSpec().Shape.Len())
	}
	if !step.First() {
		t.Error("expected the first timestep of the environment")
	}
}

func TestCreatePendulum(t *testing.T) {
	config := NewConfig(Pendulum, 0, 0.99)

	environment, step, err := config.Create(14)
	if err != nil {
		t.Fatal(err)
	}

	if environment.ActionSpec().Cardinality != env.Continuous {
		t.Error("expected continuous actions")
	}
	if environment.ObservationSpec().Shape.Len() != 2 {
		t.Errorf("expected 2 observation dimensions, got %v",
			environment.ObservationSpec().Shape.Len())
	}
	if step.Observation.Len() != 2 {
		t.Errorf("expected a 2-dimensional starting observation, got %v",
			step.Observation.Len())
	}
}

func TestCreateUnknownEnvironment(t *testing.T) {
	config := NewConfig("MountainCar", 0, 0.99)

	if _, _, err := config.Create(14); err == nil {
		t.Error("expected an error for an unknown environment")
	}
}
