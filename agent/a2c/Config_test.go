package a2c

import (
	"encoding/json"
	"testing"

	"github.com/KEniuniu/DeepRL/initwfn"
	"github.com/KEniuniu/DeepRL/solver"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default configuration is invalid: %v", err)
	}
}

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	c := Config{}.withDefaults()
	d := DefaultConfig()

	if c.TimestepsPerBatch != d.TimestepsPerBatch {
		t.Errorf("expected %v timesteps per batch, got %v",
			d.TimestepsPerBatch, c.TimestepsPerBatch)
	}
	if c.Gamma != d.Gamma {
		t.Errorf("expected a discount of %v, got %v", d.Gamma, c.Gamma)
	}
	if c.BatchBy != Timesteps {
		t.Errorf("expected batching by %v, got %v", Timesteps, c.BatchBy)
	}
	if c.InitWFn == nil || c.ActorSolver == nil || c.CriticSolver == nil {
		t.Error("expected init function and solvers to be filled in")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("filled configuration is invalid: %v", err)
	}
}

func TestWithDefaultsKeepsSetFields(t *testing.T) {
	c := Config{
		Gamma:                0.5,
		BatchBy:              Trajectories,
		TrajectoriesPerBatch: 7,
		ActorLayers:          []int{3, 3},
		ActorBiases:          []bool{true, true},
	}.withDefaults()

	if c.Gamma != 0.5 {
		t.Errorf("expected a discount of 0.5, got %v", c.Gamma)
	}
	if c.BatchBy != Trajectories {
		t.Errorf("expected batching by %v, got %v", Trajectories, c.BatchBy)
	}
	if c.TrajectoriesPerBatch != 7 {
		t.Errorf("expected 7 trajectories per batch, got %v",
			c.TrajectoriesPerBatch)
	}
	if len(c.ActorLayers) != 2 {
		t.Errorf("expected 2 actor layers, got %v", len(c.ActorLayers))
	}
}

// Configurations can be loaded from JSON, with the init function,
// solver, and activation types dispatched by their type names.
func TestConfigUnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"ActorLayers": [10],
		"ActorBiases": [true],
		"ActorActivations": ["relu"],
		"InitWFn": {"Type": "GlorotU", "Config": {"Gain": 1.0}},
		"ActorSolver": {
			"Type": "Vanilla",
			"Config": {"StepSize": 0.25, "Batch": 1}
		},
		"BatchBy": "Trajectories",
		"TrajectoriesPerBatch": 5
	}`)

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}

	if c.InitWFn.Type != initwfn.GlorotU {
		t.Errorf("expected init function type %v, got %v", initwfn.GlorotU,
			c.InitWFn.Type)
	}
	if c.ActorSolver.Type != solver.Vanilla {
		t.Errorf("expected solver type %v, got %v", solver.Vanilla,
			c.ActorSolver.Type)
	}
	if len(c.ActorActivations) != 1 || c.ActorActivations[0].String() != "relu" {
		t.Errorf("expected a single relu activation, got %v",
			c.ActorActivations)
	}
	if c.BatchBy != Trajectories || c.TrajectoriesPerBatch != 5 {
		t.Errorf("expected batching by 5 trajectories, got %v %v",
			c.BatchBy, c.TrajectoriesPerBatch)
	}

	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		t.Errorf("unmarshalled configuration is invalid: %v", err)
	}
	if c.CriticSolver == nil {
		t.Error("expected the critic solver to be filled in")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	bad := []Config{
		{BatchBy: "Episodes"},
		{Gamma: 1.5},
		{RepeatActions: -1},
		{Iterations: -1},
		{TimestepsPerBatch: -10},
	}

	for i, c := range bad {
		if err := c.withDefaults().Validate(); err == nil {
			t.Errorf("configuration %v: expected a validation error", i)
		}
	}
}
