package solver

import G "gorgonia.org/gorgonia"

// VanillaConfig implements a configuration of the Vanilla solver
type VanillaConfig struct {
	StepSize float64
	Batch    int
}

// NewVanilla returns a new Vanilla gradient descent Solver
func NewVanilla(stepSize float64, batchSize int) (*Solver, error) {
	config := VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
	}

	return newSolver(Vanilla, config)
}

// ValidType returns whether a Solver of Type t can be created from
// the VanillaConfig
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}

// Create returns a new Gorgonia Vanilla Solver as described by the
// VanillaConfig
func (v VanillaConfig) Create() G.Solver {
	return G.NewVanillaSolver(
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	)
}
