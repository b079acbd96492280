// Package envconfig provides factories for constructing environments
// with default physical parameters and tasks from an environment name.
package envconfig

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/KEniuniu/DeepRL/environment"
	"github.com/KEniuniu/DeepRL/environment/classiccontrol/cartpole"
	"github.com/KEniuniu/DeepRL/environment/classiccontrol/pendulum"
	ts "github.com/KEniuniu/DeepRL/timestep"
)

// EnvName stores the names of environments that can be constructed
// with this package
type EnvName string

// Environments available for construction
const (
	Cartpole EnvName = "Cartpole"
	Pendulum EnvName = "Pendulum"
)

// Default episode cutoffs
const (
	cartpoleCutoff int = 500
	pendulumCutoff int = 200
)

// Config describes a specific configuration of a named environment
type Config struct {
	Environment   EnvName
	EpisodeCutoff int
	Discount      float64
}

// NewConfig returns a new environment Config. If episodeCutoff is 0,
// the environment's default cutoff is used.
func NewConfig(name EnvName, episodeCutoff int, discount float64) Config {
	return Config{
		Environment:   name,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. An error is returned if the
// Config names an unknown environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case Cartpole:
		cutoff := c.EpisodeCutoff
		if cutoff == 0 {
			cutoff = cartpoleCutoff
		}
		e, step := createCartpole(cutoff, seed, c.Discount)
		return e, step, nil

	case Pendulum:
		cutoff := c.EpisodeCutoff
		if cutoff == 0 {
			cutoff = pendulumCutoff
		}
		e, step := createPendulum(cutoff, seed, c.Discount)
		return e, step, nil
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: no such environment %v",
		c.Environment)
}

// createCartpole is a factory for creating the Cartpole environment
// with default physical parameters and the Balance task
func createCartpole(cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	task := cartpole.NewBalance(s, cutoff, cartpole.FailAngle)
	return cartpole.New(task, discount)
}

// createPendulum is a factory for creating the Pendulum environment
// with default physical parameters and the SwingUp task
func createPendulum(cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep) {
	angle := r1.Interval{Min: -pendulum.AngleBound, Max: pendulum.AngleBound}
	speed := r1.Interval{Min: -1.0, Max: 1.0}

	s := env.NewUniformStarter([]r1.Interval{angle, speed}, seed)

	task := pendulum.NewSwingUp(s, cutoff)
	return pendulum.New(task, discount)
}
