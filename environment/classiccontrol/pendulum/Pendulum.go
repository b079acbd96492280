// Package pendulum implements the pendulum classic control environment
package pendulum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/KEniuniu/DeepRL/environment"
	ts "github.com/KEniuniu/DeepRL/timestep"
	"github.com/KEniuniu/DeepRL/utils/floatutils"
)

// Default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	Dt      float64 = 0.05
	Gravity float64 = 9.8
	Mass    float64 = 1.0
	Length  float64 = 1.0

	ActionDims      int = 1
	ObservationDims int = 2
)

// Pendulum implements the classic control environment Pendulum. In
// this environment, a pendulum is attached to a fixed base. An agent
// can swing the pendulum back and forth, but the swinging torque is
// underpowered. In order to swing the pendulum straight up, it must
// first be rocked back and forth, using the momentum to gradually
// climb higher until it can point straight up.
//
// State features consist of the angle of the pendulum from the
// positive y-axis and the angular velocity of the pendulum. The
// angular velocity is clipped between [-SpeedBound, SpeedBound].
// Angles are normalized to stay within [-AngleBound, AngleBound] =
// [-π, π].
//
// Actions are continuous and 1-dimensional. Actions determine the
// torque to apply to the pendulum at its fixed base and are bounded
// by [MinContinuousAction, MaxContinuousAction] = [-2, 2]. Actions
// outside of this region are clipped to stay within these bounds.
//
// Pendulum implements the environment.Environment interface
type Pendulum struct {
	env.Task
	lastStep     ts.TimeStep
	discount     float64
	angleBounds  r1.Interval
	speedBounds  r1.Interval
	torqueBounds r1.Interval
}

// New constructs a new Pendulum environment with the argument task and
// returns it along with the first timestep of the environment
func New(t env.Task, discount float64) (*Pendulum, ts.TimeStep) {
	angleBounds := r1.Interval{Min: -AngleBound, Max: AngleBound}
	speedBounds := r1.Interval{Min: -SpeedBound, Max: SpeedBound}
	torqueBounds := r1.Interval{Min: -TorqueBound, Max: TorqueBound}

	state := t.Start()
	firstStep := ts.New(ts.First, 0.0, discount, state, 0)

	pendulum := Pendulum{t, firstStep, discount, angleBounds, speedBounds,
		torqueBounds}

	return &pendulum, firstStep
}

// Reset resets the environment and returns a starting timestep drawn
// from the environment Starter
func (p *Pendulum) Reset() (ts.TimeStep, error) {
	state := p.Start()
	startStep := ts.New(ts.First, 0, p.discount, state, 0)
	p.lastStep = startStep

	return startStep, nil
}

// Step takes one environmental step given action a and returns the
// next state as a timestep.TimeStep and a bool indicating whether or
// not the episode has ended. Actions are 1-dimensional and continuous,
// consisting of the torque to apply at the pendulum's base. Actions
// outside the legal torque bounds are clipped to stay within bounds.
func (p *Pendulum) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional", ActionDims)
	}

	torque := floatutils.ClipInterval(a.AtVec(0), p.torqueBounds)

	obs := p.lastStep.Observation
	th, thDot := obs.AtVec(0), obs.AtVec(1)

	// Euler integration of the equations of motion
	newThDot := thDot + (-3.0*Gravity/(2.0*Length)*math.Sin(th+math.Pi)+
		3.0/(Mass*math.Pow(Length, 2))*torque)*Dt
	newTh := th + newThDot*Dt

	// Clip the angular velocity and normalize the angle
	newThDot = floatutils.ClipInterval(newThDot, p.speedBounds)
	newTh = normalizeAngle(newTh, p.angleBounds)

	newState := mat.NewVecDense(2, []float64{newTh, newThDot})
	reward := p.GetReward(p.lastStep.Observation, a, newState)
	nextStep := ts.New(ts.Mid, reward, p.discount, newState,
		p.lastStep.Number+1)

	// Check if the next step ends the episode
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// ActionSpec returns the action specification of the environment
func (p *Pendulum) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{p.torqueBounds.Min})
	upperBound := mat.NewVecDense(ActionDims, []float64{p.torqueBounds.Max})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Pendulum) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lower := []float64{p.angleBounds.Min, p.speedBounds.Min}
	lowerBound := mat.NewVecDense(ObservationDims, lower)

	upper := []float64{p.angleBounds.Max, p.speedBounds.Max}
	upperBound := mat.NewVecDense(ObservationDims, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (p *Pendulum) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{p.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

func (p *Pendulum) String() string {
	state := p.lastStep.Observation
	return fmt.Sprintf("Pendulum  |  Angle: %v  |  Angular Velocity: %v",
		state.AtVec(0), state.AtVec(1))
}

// normalizeAngle normalizes the pendulum angle to the appropriate
// limits
func normalizeAngle(th float64, angleBounds r1.Interval) float64 {
	if angleBounds.Max != -angleBounds.Min {
		panic("angle bounds should be centered around 0")
	}

	if th > angleBounds.Max {
		divisor := int(th / angleBounds.Max)
		return -math.Pi + th - (angleBounds.Max * float64(divisor))
	} else if th < angleBounds.Min {
		divisor := int(th / angleBounds.Min)
		return math.Pi + th - (angleBounds.Min * float64(divisor))
	}
	return th
}
