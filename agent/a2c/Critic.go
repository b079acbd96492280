package a2c

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/KEniuniu/DeepRL/network"
	"github.com/KEniuniu/DeepRL/solver"
)

// critic approximates the state value function with an MLP. The
// critic holds a persistent network that stores the current weights.
// Predictions and updates on batches of states clone the persistent
// network to a graph with the batch's input shape; updated weights
// are copied back into the persistent network.
type critic struct {
	net network.NeuralNet
	sol *solver.Solver
}

// newCritic returns a new critic approximating the value of state
// observations with features dimensions
func newCritic(features int, hiddenSizes []int, biases []bool,
	activations []*network.Activation, init G.InitWFn,
	sol *solver.Solver) (*critic, error) {
	net, err := network.NewMLP(features, 1, 1, G.NewGraph(), hiddenSizes,
		biases, activations, init)
	if err != nil {
		return nil, fmt.Errorf("newCritic: could not create value "+
			"function: %v", err)
	}

	return &critic{net: net, sol: sol}, nil
}

// Predict returns the predicted value of each of the batch of states
// under the current weights. The states are given flattened in row
// major order, one row per each of the batch states.
func (c *critic) Predict(states []float64, batch int) ([]float64, error) {
	clone, err := c.net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("predict: could not clone value function: %v",
			err)
	}

	vm := G.NewTapeMachine(clone.Graph())
	defer vm.Close()

	if err := clone.SetInput(states); err != nil {
		return nil, fmt.Errorf("predict: could not set input: %v", err)
	}
	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: could not run value function: %v",
			err)
	}

	values := make([]float64, batch)
	copy(values, clone.Output()[0].Data().([]float64))

	return values, nil
}

// Update performs a single gradient step on the mean squared error
// between the predicted values of the batch of states and the argument
// targets, returning the loss before the step
func (c *critic) Update(states, targets []float64, batch int) (float64,
	error) {
	clone, err := c.net.CloneWithBatch(batch)
	if err != nil {
		return 0, fmt.Errorf("update: could not clone value function: %v",
			err)
	}
	graph := clone.Graph()
	prediction := clone.Prediction()[0]

	targetsNode := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(prediction.Shape()...),
		G.WithName("ValueTargets"),
		G.WithInit(G.Zeroes()),
	)

	loss := G.Must(G.Sub(prediction, targetsNode))
	loss = G.Must(G.Square(loss))
	loss = G.Must(G.Mean(loss))

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
	targetsTensor := tensor.NewDense(
		tensor.Float64,
		prediction.Shape(),
		tensor.WithBacking(targets),
	)
	if err := G.Let(targetsNode, targetsTensor); err != nil {
		return 0, fmt.Errorf("update: could not set targets: %v", err)
	}

	if err := vm.RunAll(); err != nil {
		return 0, fmt.Errorf("update: could not run value function: %v", err)
	}
	if err := c.sol.Step(clone.Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}

	if err := network.Set(c.net, clone); err != nil {
		return 0, fmt.Errorf("update: could not copy weights: %v", err)
	}

	return lossVal.Data().(float64), nil
}
