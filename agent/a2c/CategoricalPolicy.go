package a2c

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/KEniuniu/DeepRL/environment"
	"github.com/KEniuniu/DeepRL/network"
	"github.com/KEniuniu/DeepRL/solver"
	ts "github.com/KEniuniu/DeepRL/timestep"
)

// Probabilities are floored away from 0 before taking their log so
// that the loss stays finite when the softmax saturates.
const probFloor float64 = 1e-30

// categorical implements a stochastic softmax policy over a discrete
// action space, parameterized by an MLP predicting one preference per
// action. Actions are sampled from the categorical distribution given
// by the softmax of the preferences.
type categorical struct {
	net network.NeuralNet // Batch size 1, for action selection
	vm  G.VM

	probs    *G.Node
	probsVal G.Value

	numActions int
	source     rand.Source

	sol *solver.Solver
}

// newCategorical returns a new categorical policy selecting actions
// from the argument environment, which must have discrete actions
func newCategorical(env environment.Environment, hiddenSizes []int,
	biases []bool, activations []*network.Activation, init G.InitWFn,
	sol *solver.Solver, seed uint64) (*categorical, error) {
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newCategorical: softmax policy cannot be " +
			"used with continuous actions")
	}

	features := env.ObservationSpec().Shape.Len()
	numActions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	net, err := network.NewMLP(features, 1, numActions, G.NewGraph(),
		hiddenSizes, biases, activations, init)
	if err != nil {
		return nil, fmt.Errorf("newCategorical: could not create policy "+
			"network: %v", err)
	}

	pol := &categorical{
		net:        net,
		numActions: numActions,
		source:     rand.NewSource(seed),
		sol:        sol,
	}

	pol.probs = G.Must(G.SoftMax(net.Prediction()[0], 1))
	G.Read(pol.probs, &pol.probsVal)

	pol.vm = G.NewTapeMachine(net.Graph())

	return pol, nil
}

// SelectAction samples an action from the policy's action distribution
// at the argument timestep
func (c *categorical) SelectAction(t ts.TimeStep) *mat.VecDense {
	obs := t.Observation.RawVector().Data
	if err := c.net.SetInput(obs); err != nil {
		panic(fmt.Sprintf("selectAction: could not set input: %v", err))
	}

	if err := c.vm.RunAll(); err != nil {
		panic(fmt.Sprintf("selectAction: could not run policy: %v", err))
	}
	defer c.vm.Reset()

	probs := c.probsVal.Data().([]float64)
	dist := distuv.NewCategorical(probs, c.source)

	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Update performs a single policy gradient step on the batch of
// states, the actions taken in those states, and their advantage
// estimates, returning the loss before the step. The loss is the
// negative mean advantage-weighted log probability of the taken
// actions.
func (c *categorical) Update(states, actions, advantages []float64,
	batch int) (float64, error) {
	clone, err := c.net.CloneWithBatch(batch)
	if err != nil {
		return 0, fmt.Errorf("update: could not clone policy network: %v",
			err)
	}
	graph := clone.Graph()

	probs := G.Must(G.SoftMax(clone.Prediction()[0], 1))
	floor := G.NewConstant(probFloor)
	logProbs := G.Must(G.Log(G.Must(G.Add(probs, floor))))

	// One-hot action indicators select the log probability of each
	// taken action
	actionMask := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batch, c.numActions),
		G.WithName("ActionMask"),
		G.WithInit(G.Zeroes()),
	)
	logProbTaken := G.Must(G.HadamardProd(actionMask, logProbs))
	logProbTaken = G.Must(G.Sum(logProbTaken, 1))

	adv := G.NewVector(
		graph,
		tensor.Float64,
		G.WithShape(batch),
		G.WithName("Advantages"),
		G.WithInit(G.Zeroes()),
	)

	loss := G.Must(G.HadamardProd(logProbTaken, adv))
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

	maskBacking := make([]float64, batch*c.numActions)
	for i := 0; i < batch; i++ {
		maskBacking[i*c.numActions+int(actions[i])] = 1.0
	}
	maskTensor := tensor.NewDense(
		tensor.Float64,
		[]int{batch, c.numActions},
		tensor.WithBacking(maskBacking),
	)
	if err := G.Let(actionMask, maskTensor); err != nil {
		return 0, fmt.Errorf("update: could not set action mask: %v", err)
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
	if err := c.sol.Step(clone.Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}

	if err := network.Set(c.net, clone); err != nil {
		return 0, fmt.Errorf("update: could not copy weights: %v", err)
	}

	return lossVal.Data().(float64), nil
}
