package a2c

import (
	"fmt"
)

// Trajectory holds the data of a single episode rollout under a fixed
// policy. States and Actions are stored flattened in row major order,
// one row per timestep. Rewards holds one reward per timestep: when
// actions are repeated, the rewards accumulated over the repeated
// steps are recorded as the reward of the single recorded timestep.
type Trajectory struct {
	States  []float64
	Actions []float64
	Rewards []float64
}

// Len returns the number of timesteps recorded in the Trajectory
func (t *Trajectory) Len() int {
	return len(t.Rewards)
}

// TotalReward returns the total undiscounted reward accumulated over
// the Trajectory
func (t *Trajectory) TotalReward() float64 {
	total := 0.0
	for _, r := range t.Rewards {
		total += r
	}
	return total
}

// collectTrajectory runs a single episode to completion under the
// current policy and returns its rollout data
func (a *A2C) collectTrajectory() (*Trajectory, error) {
	traj := &Trajectory{}

	step, err := a.env.Reset()
	if err != nil {
		return nil, fmt.Errorf("collectTrajectory: could not reset "+
			"environment: %v", err)
	}

	for {
		obs := step.Observation.RawVector().Data
		action := a.policy.SelectAction(step)

		reward := 0.0
		last := false
		for i := 0; i < a.repeatActions && !last; i++ {
			next, done, err := a.env.Step(action)
			if err != nil {
				return nil, fmt.Errorf("collectTrajectory: could not step "+
					"environment: %v", err)
			}
			reward += next.Reward
			last = done
			step = next
		}

		traj.States = append(traj.States, obs...)
		traj.Actions = append(traj.Actions, action.RawVector().Data...)
		traj.Rewards = append(traj.Rewards, reward)

		if last {
			return traj, nil
		}
	}
}

// collectBatch collects complete trajectories under the current policy
// until the configured batch target is met
func (a *A2C) collectBatch() ([]*Trajectory, error) {
	var trajs []*Trajectory

	switch a.batchBy {
	case Timesteps:
		for timesteps := 0; timesteps < a.timestepsPerBatch; {
			traj, err := a.collectTrajectory()
			if err != nil {
				return nil, fmt.Errorf("collectBatch: %v", err)
			}
			trajs = append(trajs, traj)
			timesteps += traj.Len()
		}

	case Trajectories:
		for len(trajs) < a.trajectoriesPerBatch {
			traj, err := a.collectTrajectory()
			if err != nil {
				return nil, fmt.Errorf("collectBatch: %v", err)
			}
			trajs = append(trajs, traj)
		}

	default:
		return nil, fmt.Errorf("collectBatch: invalid batching mode: %v",
			a.batchBy)
	}

	return trajs, nil
}
