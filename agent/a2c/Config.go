package a2c

import (
	"fmt"

	"github.com/KEniuniu/DeepRL/initwfn"
	"github.com/KEniuniu/DeepRL/network"
	"github.com/KEniuniu/DeepRL/solver"
)

// BatchBy determines how the size of a batch of trajectories is
// measured when collecting data for an update.
type BatchBy string

const (
	// Timesteps collects complete trajectories until the total number
	// of timesteps across all trajectories in the batch meets or
	// exceeds TimestepsPerBatch
	Timesteps BatchBy = "Timesteps"

	// Trajectories collects exactly TrajectoriesPerBatch trajectories
	Trajectories BatchBy = "Trajectories"
)

// Config implements a configuration of the A2C agent. The zero value
// of any field denotes that the default value of that field should be
// used. Defaults are documented on DefaultConfig. A Config can be
// JSON unmarshalled, so agent configurations can be loaded from
// files.
type Config struct {
	// Discrete-action actor neural net. The final linear layer
	// predicting action preferences is always added and should not be
	// included in ActorLayers. The continuous-action actor has no
	// hidden layers: its mean and standard deviation are independent
	// linear projections of the observation, so these fields are
	// ignored for continuous action spaces.
	ActorLayers      []int
	ActorBiases      []bool
	ActorActivations []*network.Activation

	// Critic neural net, predicting a single state value. As with the
	// actor, the final linear output layer is always added.
	CriticLayers      []int
	CriticBiases      []bool
	CriticActivations []*network.Activation

	// Weight init function for the hidden layers of all neural nets.
	// The mean and standard deviation heads of the continuous-action
	// actor are always zero initialized. When nil, New uses a
	// Gaussian(0, 0.05) initializer seeded with the agent's seed.
	InitWFn *initwfn.InitWFn

	ActorSolver  *solver.Solver
	CriticSolver *solver.Solver

	// BatchBy determines whether a batch of trajectories is complete
	// once it holds TimestepsPerBatch timesteps or
	// TrajectoriesPerBatch trajectories. The two targets are mutually
	// exclusive: only the one selected by BatchBy is consulted.
	BatchBy              BatchBy
	TimestepsPerBatch    int
	TrajectoriesPerBatch int

	// Iterations is the total number of batch collection + update
	// iterations performed by Learn
	Iterations int

	// Gamma is the discount factor of returns
	Gamma float64

	// EntropyCoeff scales the entropy bonus of the continuous-action
	// actor loss. Unused with discrete actions.
	EntropyCoeff float64

	// RepeatActions is the number of consecutive environment steps
	// each selected action is taken for. Rewards accumulated over the
	// repeated steps are recorded as a single transition.
	RepeatActions int
}

// DefaultConfig returns the default A2C configuration: a single
// tanh hidden layer of 20 units for both actor and critic, Gaussian
// weight initialization, Adam solvers with step sizes of 0.01 (actor)
// and 0.05 (critic), batches of 2000 timesteps, 400 iterations, a
// discount factor of 0.99, an entropy coefficient of 0.1, and no
// action repeats.
func DefaultConfig() Config {
	init, err := initwfn.NewGaussian(0.0, 0.05, 0)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: could not create init function: %v",
			err))
	}
	actorSolver, err := solver.NewDefaultAdam(0.01, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: could not create actor solver: %v",
			err))
	}
	criticSolver, err := solver.NewDefaultAdam(0.05, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: could not create critic solver: %v",
			err))
	}

	return Config{
		ActorLayers:      []int{20},
		ActorBiases:      []bool{true},
		ActorActivations: []*network.Activation{network.TanH()},

		CriticLayers:      []int{20},
		CriticBiases:      []bool{true},
		CriticActivations: []*network.Activation{network.TanH()},

		InitWFn:      init,
		ActorSolver:  actorSolver,
		CriticSolver: criticSolver,

		BatchBy:              Timesteps,
		TimestepsPerBatch:    2000,
		TrajectoriesPerBatch: 10,

		Iterations:    400,
		Gamma:         0.99,
		EntropyCoeff:  0.1,
		RepeatActions: 1,
	}
}

// withDefaults returns the Config with every zero-valued field
// replaced by its default value. Each field is merged independently,
// so partially specified configurations are completed rather than
// replaced.
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.ActorLayers == nil {
		c.ActorLayers = d.ActorLayers
	}
	if c.ActorBiases == nil {
		c.ActorBiases = d.ActorBiases
	}
	if c.ActorActivations == nil {
		c.ActorActivations = d.ActorActivations
	}
	if c.CriticLayers == nil {
		c.CriticLayers = d.CriticLayers
	}
	if c.CriticBiases == nil {
		c.CriticBiases = d.CriticBiases
	}
	if c.CriticActivations == nil {
		c.CriticActivations = d.CriticActivations
	}
	if c.InitWFn == nil {
		c.InitWFn = d.InitWFn
	}
	if c.ActorSolver == nil {
		c.ActorSolver = d.ActorSolver
	}
	if c.CriticSolver == nil {
		c.CriticSolver = d.CriticSolver
	}
	if c.BatchBy == "" {
		c.BatchBy = d.BatchBy
	}
	if c.TimestepsPerBatch == 0 {
		c.TimestepsPerBatch = d.TimestepsPerBatch
	}
	if c.TrajectoriesPerBatch == 0 {
		c.TrajectoriesPerBatch = d.TrajectoriesPerBatch
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Gamma == 0 {
		c.Gamma = d.Gamma
	}
	if c.EntropyCoeff == 0 {
		c.EntropyCoeff = d.EntropyCoeff
	}
	if c.RepeatActions == 0 {
		c.RepeatActions = d.RepeatActions
	}

	return c
}

// Validate checks the Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.BatchBy != Timesteps && c.BatchBy != Trajectories {
		return fmt.Errorf("validate: invalid batching mode: %v", c.BatchBy)
	}
	if c.BatchBy == Timesteps && c.TimestepsPerBatch <= 0 {
		return fmt.Errorf("validate: timesteps per batch must be positive "+
			"\n\thave(%v)", c.TimestepsPerBatch)
	}
	if c.BatchBy == Trajectories && c.TrajectoriesPerBatch <= 0 {
		return fmt.Errorf("validate: trajectories per batch must be positive "+
			"\n\thave(%v)", c.TrajectoriesPerBatch)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("validate: iterations cannot be negative "+
			"\n\thave(%v)", c.Iterations)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1] "+
			"\n\thave(%v)", c.Gamma)
	}
	if c.RepeatActions < 1 {
		return fmt.Errorf("validate: actions must be taken at least once "+
			"\n\thave(%v)", c.RepeatActions)
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight init function")
	}
	if c.ActorSolver == nil || c.CriticSolver == nil {
		return fmt.Errorf("validate: both actor and critic solvers are " +
			"required")
	}

	return nil
}
