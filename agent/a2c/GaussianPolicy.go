package a2c

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/KEniuniu/DeepRL/environment"
	"github.com/KEniuniu/DeepRL/network"
	"github.com/KEniuniu/DeepRL/solver"
	ts "github.com/KEniuniu/DeepRL/timestep"
	"github.com/KEniuniu/DeepRL/utils/floatutils"
)

// The standard deviation of the Gaussian policy is floored away from 0
// for numerical stability.
const stdDevFloor float64 = 1e-5

// gaussian implements a Gaussian policy over a bounded continuous
// action space. The policy is parameterized by two zero-initialized
// independent linear projections of the state observation, one
// predicting the mean and one the raw standard deviation of the
// action distribution. The standard deviation is the softplus of the
// raw prediction, floored away from 0.
//
// Given the predicted mean μ and standard deviation σ, actions are
// selected by sampling ɛ ~ N(0, 1) and computing μ + σ * ɛ, clipped
// into the environment's action bounds.
type gaussian struct {
	net network.NeuralNet // Batch size 1, for action selection
	vm  G.VM

	meanVal      G.Value
	rawStdDevVal G.Value

	normal       distmv.Rander
	actionDims   int
	lowerBound   []float64
	upperBound   []float64
	entropyCoeff float64

	sol *solver.Solver
}

// newGaussian returns a new gaussian policy selecting actions from the
// argument environment, which must have continuous actions
func newGaussian(env environment.Environment, sol *solver.Solver,
	entropyCoeff float64, seed uint64) (*gaussian, error) {
	if env.ActionSpec().Cardinality != environment.Continuous {
		return nil, fmt.Errorf("newGaussian: gaussian policy cannot be " +
			"used with discrete actions")
	}

	features := env.ObservationSpec().Shape.Len()
	actionDims := env.ActionSpec().Shape.Len()

	// An empty root makes the mean and standard deviation heads
	// independent linear projections of the observation
	net, err := network.NewForkedMLP(features, 1, actionDims, 2,
		G.NewGraph(), nil, nil, nil, G.Zeroes(), G.Zeroes())
	if err != nil {
		return nil, fmt.Errorf("newGaussian: could not create policy "+
			"network: %v", err)
	}

	lower := make([]float64, actionDims)
	upper := make([]float64, actionDims)
	for i := 0; i < actionDims; i++ {
		lower[i] = env.ActionSpec().LowerBound.AtVec(i)
		upper[i] = env.ActionSpec().UpperBound.AtVec(i)
	}

	// Standard normal for action selection
	means := make([]float64, actionDims)
	stdDevs := mat.NewDiagDense(actionDims, floatutils.Ones(actionDims))
	source := rand.NewSource(seed)
	normal, ok := distmv.NewNormal(means, stdDevs, source)
	if !ok {
		return nil, fmt.Errorf("newGaussian: could not create standard " +
			"normal for action selection")
	}

	pol := &gaussian{
		net:          net,
		normal:       normal,
		actionDims:   actionDims,
		lowerBound:   lower,
		upperBound:   upper,
		entropyCoeff: entropyCoeff,
		sol:          sol,
	}

	G.Read(net.Prediction()[0], &pol.meanVal)
	G.Read(net.Prediction()[1], &pol.rawStdDevVal)

	pol.vm = G.NewTapeMachine(net.Graph())

	return pol, nil
}

// softplusFloor adds nodes to the computational graph of x computing
// softplus(x) floored away from 0:
//
//	log(1 + exp(x)) + stdDevFloor
func softplusFloor(x *G.Node) *G.Node {
	one := G.NewConstant(1.0)
	floor := G.NewConstant(stdDevFloor)

	softplus := G.Must(G.Exp(x))
	softplus = G.Must(G.Add(softplus, one))
	softplus = G.Must(G.Log(softplus))

	return G.Must(G.Add(softplus, floor))
}

// SelectAction samples an action from the policy's action distribution
// at the argument timestep, clipped into the action bounds
func (g *gaussian) SelectAction(t ts.TimeStep) *mat.VecDense {
	obs := t.Observation.RawVector().Data
	if err := g.net.SetInput(obs); err != nil {
		panic(fmt.Sprintf("selectAction: could not set input: %v", err))
	}

	if err := g.vm.RunAll(); err != nil {
		panic(fmt.Sprintf("selectAction: could not run policy: %v", err))
	}
	defer g.vm.Reset()

	mean := g.meanVal.Data().([]float64)
	stdDev := g.stdDev()
	eps := g.normal.Rand(nil)

	action := make([]float64, g.actionDims)
	for i := range action {
		action[i] = floatutils.Clip(mean[i]+stdDev[i]*eps[i],
			g.lowerBound[i], g.upperBound[i])
	}

	return mat.NewVecDense(g.actionDims, action)
}

// stdDev returns the standard deviation of the action distribution at
// the last observation run through the policy network
func (g *gaussian) stdDev() []float64 {
	raw := g.rawStdDevVal.Data().([]float64)

	stdDev := make([]float64, len(raw))
	for i, r := range raw {
		stdDev[i] = floatutils.Softplus(r) + stdDevFloor
	}
	return stdDev
}

// Update performs a single policy gradient step on the batch of
// states, the actions taken in those states, and their advantage
// estimates, returning the loss before the step. The loss is the
// negative mean of the advantage-weighted log probability density of
// the taken actions plus an entropy bonus.
func (g *gaussian) Update(states, actions, advantages []float64,
	batch int) (float64, error) {
	clone, err := g.net.CloneWithBatch(batch)
	if err != nil {
		return 0, fmt.Errorf("update: could not clone policy network: %v",
			err)
	}
	graph := clone.Graph()

	mean := clone.Prediction()[0]
	stdDev := softplusFloor(clone.Prediction()[1])

	actionsNode := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batch, g.actionDims),
		G.WithName("Actions"),
		G.WithInit(G.Zeroes()),
	)

	// Log probability density of the taken actions:
	// -(a-μ)²/(2σ²) - log(σ) - log(√(2π)), summed over action
	// dimensions
	negativeHalf := G.NewConstant(-0.5)
	two := G.NewConstant(2.0)

	exponent := G.Must(G.Sub(actionsNode, mean))
	exponent = G.Must(G.HadamardDiv(exponent, stdDev))
	exponent = G.Must(G.Pow(exponent, two))
	exponent = G.Must(G.Mul(exponent, negativeHalf))

	logStdDev := G.Must(G.Log(stdDev))
	logSqrt2Pi := G.NewConstant(math.Log(math.Sqrt(2 * math.Pi)))

	logPdf := G.Must(G.Sub(exponent, G.Must(G.Add(logStdDev, logSqrt2Pi))))
	logPdf = G.Must(G.Sum(logPdf, 1))

	// Differential entropy of the policy: log(σ) + (1/2)log(2πe),
	// summed over action dimensions
	entropyConst := G.NewConstant(0.5 * math.Log(2*math.Pi*math.E))
	entropy := G.Must(G.Add(logStdDev, entropyConst))
	entropy = G.Must(G.Sum(entropy, 1))

	adv := G.NewVector(
		graph,
		tensor.Float64,
		G.WithShape(batch),
		G.WithName("Advantages"),
		G.WithInit(G.Zeroes()),
	)

	loss := G.Must(G.HadamardProd(logPdf, adv))
	entropyBonus := G.Must(G.Mul(entropy, G.NewConstant(g.entropyCoeff)))
	loss = G.Must(G.Add(loss, entropyBonus))
	loss = G.Must(G.Mean(loss))
	loss = G.Must(G.Neg(loss))

	var lossVal G.Value
	G.Read(loss, &lossVal)

	if _, err := G.Grad(loss, clone.Learnables()...); err != nil {
		return 0, fmt.Errorf("update: could not compute gradient: %v", err)
	}

	vm := G.NewTapeMachine(graph, G.BindDualValues(clone.Learnables()...))
	defer vm.Close()

	if err := clone.SetInput(states); err != nil {
		return 0, fmt.Errorf("update: could not set input: %v", err)
	}

	actionsTensor := tensor.NewDense(
		tensor.Float64,
		[]int{batch, g.actionDims},
		tensor.WithBacking(actions),
	)
	if err := G.Let(actionsNode, actionsTensor); err != nil {
		return 0, fmt.Errorf("update: could not set actions: %v", err)
	}

	advTensor := tensor.NewDense(
		tensor.Float64,
		[]int{batch},
		tensor.WithBacking(advantages),
	)
	if err := G.Let(adv, advTensor); err != nil {
		return 0, fmt.Errorf("update: could not set advantages: %v", err)
	}

	if err := vm.RunAll(); err != nil {
		return 0, fmt.Errorf("update: could not run policy: %v", err)
	}
	if err := g.sol.Step(clone.Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}

	if err := network.Set(g.net, clone); err != nil {
		return 0, fmt.Errorf("update: could not copy weights: %v", err)
	}

	return lossVal.Data().(float64), nil
}
