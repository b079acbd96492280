// Package a2c implements the Advantage Actor-Critic algorithm for
// discrete and bounded continuous action spaces. This implementation
// is adapted from:
//
// https://papers.nips.cc/paper/1786-actor-critic-algorithms.pdf
// https://arxiv.org/abs/1602.01783
package a2c

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KEniuniu/DeepRL/environment"
	"github.com/KEniuniu/DeepRL/initwfn"
	ts "github.com/KEniuniu/DeepRL/timestep"
)

// policy implements action selection and policy gradient updates for
// a single action-space cardinality. The A2C learner is composed with
// the policy matching the cardinality of the environment it learns on.
type policy interface {
	// SelectAction samples an action from the policy's action
	// distribution at the argument timestep
	SelectAction(t ts.TimeStep) *mat.VecDense

	// Update performs a single policy gradient step on a batch of
	// states, the actions taken in those states, and their advantage
	// estimates, returning the loss before the step. States and
	// actions are given flattened in row major order.
	Update(states, actions, advantages []float64, batch int) (float64,
		error)
}

// IterationStats holds the learning statistics of a single iteration
type IterationStats struct {
	ActorLoss  float64
	CriticLoss float64

	// MeanReward is the mean total undiscounted reward of the
	// trajectories collected in the iteration, and MeanEpisodeLength
	// their mean number of timesteps
	MeanReward        float64
	MeanEpisodeLength float64

	Trajectories int
	Timesteps    int
}

// Tracker tracks per-iteration learning statistics during a run and
// persists any recorded data once the run is over
type Tracker interface {
	// Track records the statistics of iteration i
	Track(i int, stats IterationStats) error

	// Save persists the tracked data
	Save() error
}

// A2C implements the Advantage Actor-Critic algorithm. Each iteration,
// the agent collects a batch of complete trajectories under the
// current policy, computes the discounted return of each timestep, and
// performs a single pooled gradient step on each network: the critic
// toward the returns, and the actor along the policy gradient weighted
// by the advantages of the taken actions. Advantages are computed
// against the critic's values from before the iteration's critic
// update.
type A2C struct {
	env    environment.Environment
	policy policy
	critic *critic

	gamma                float64
	batchBy              BatchBy
	timestepsPerBatch    int
	trajectoriesPerBatch int
	iterations           int
	repeatActions        int

	features int
}

// New creates and returns a new A2C agent learning on the argument
// environment. Zero-valued fields of the Config are replaced by their
// defaults. The policy parameterization is chosen by the cardinality
// of the environment's action spec: a softmax policy for discrete
// actions and a Gaussian policy for continuous actions.
func New(env environment.Environment, c Config, seed uint64) (*A2C,
	error) {
	if c.InitWFn == nil {
		init, err := initwfn.NewGaussian(0.0, 0.05, seed)
		if err != nil {
			return nil, fmt.Errorf("new: could not create weight init "+
				"function: %v", err)
		}
		c.InitWFn = init
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	features := env.ObservationSpec().Shape.Len()

	var pol policy
	var err error
	switch env.ActionSpec().Cardinality {
	case environment.Discrete:
		pol, err = newCategorical(env, c.ActorLayers, c.ActorBiases,
			c.ActorActivations, c.InitWFn.InitWFn(), c.ActorSolver, seed)

	case environment.Continuous:
		pol, err = newGaussian(env, c.ActorSolver, c.EntropyCoeff, seed)

	default:
		return nil, fmt.Errorf("new: unsupported action cardinality: %v",
			env.ActionSpec().Cardinality)
	}
	if err != nil {
		return nil, fmt.Errorf("new: could not create actor: %v", err)
	}

	critic, err := newCritic(features, c.CriticLayers, c.CriticBiases,
		c.CriticActivations, c.InitWFn.InitWFn(), c.CriticSolver)
	if err != nil {
		return nil, fmt.Errorf("new: could not create critic: %v", err)
	}

	return &A2C{
		env:    env,
		policy: pol,
		critic: critic,

		gamma:                c.Gamma,
		batchBy:              c.BatchBy,
		timestepsPerBatch:    c.TimestepsPerBatch,
		trajectoriesPerBatch: c.TrajectoriesPerBatch,
		iterations:           c.Iterations,
		repeatActions:        c.RepeatActions,

		features: features,
	}, nil
}

// Iterations returns the total number of iterations the agent performs
// in a full run of Learn
func (a *A2C) Iterations() int {
	return a.iterations
}

// RunIteration collects a batch of trajectories under the current
// policy and performs a single gradient step on the actor and the
// critic, returning the learning statistics of the iteration
func (a *A2C) RunIteration() (IterationStats, error) {
	trajs, err := a.collectBatch()
	if err != nil {
		return IterationStats{}, fmt.Errorf("runIteration: %v", err)
	}

	// Pool the batch data across trajectories. Returns are computed
	// per trajectory before concatenation.
	timesteps := 0
	for _, traj := range trajs {
		timesteps += traj.Len()
	}

	states := make([]float64, 0, timesteps*a.features)
	actions := make([]float64, 0, timesteps)
	returns := make([]float64, 0, timesteps)
	totalRewards := make([]float64, len(trajs))
	lengths := make([]float64, len(trajs))
	for i, traj := range trajs {
		states = append(states, traj.States...)
		actions = append(actions, traj.Actions...)
		returns = append(returns, DiscountedReturns(traj.Rewards,
			a.gamma)...)
		totalRewards[i] = traj.TotalReward()
		lengths[i] = float64(traj.Len())
	}

	// The advantage baseline is the critic's value before this
	// iteration's critic update
	values, err := a.critic.Predict(states, timesteps)
	if err != nil {
		return IterationStats{}, fmt.Errorf("runIteration: %v", err)
	}
	advantages := make([]float64, timesteps)
	for i := range advantages {
		advantages[i] = returns[i] - values[i]
	}

	criticLoss, err := a.critic.Update(states, returns, timesteps)
	if err != nil {
		return IterationStats{}, fmt.Errorf("runIteration: %v", err)
	}

	actorLoss, err := a.policy.Update(states, actions, advantages,
		timesteps)
	if err != nil {
		return IterationStats{}, fmt.Errorf("runIteration: %v", err)
	}

	return IterationStats{
		ActorLoss:         actorLoss,
		CriticLoss:        criticLoss,
		MeanReward:        stat.Mean(totalRewards, nil),
		MeanEpisodeLength: stat.Mean(lengths, nil),
		Trajectories:      len(trajs),
		Timesteps:         timesteps,
	}, nil
}

// Learn runs the configured number of iterations, recording the
// statistics of each completed iteration with each of the argument
// trackers. The context is checked between iterations: cancelling it
// stops learning cleanly after the current iteration, returning the
// context's error. Completed iterations are never rolled back.
func (a *A2C) Learn(ctx context.Context, trackers ...Tracker) error {
	for i := 0; i < a.iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats, err := a.RunIteration()
		if err != nil {
			return fmt.Errorf("learn: iteration %d: %v", i, err)
		}

		for _, tracker := range trackers {
			if err := tracker.Track(i, stats); err != nil {
				return fmt.Errorf("learn: could not track iteration %d: %v",
					i, err)
			}
		}
	}

	return nil
}
