package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlp implements a multi-layered perceptron with a single output head
// of a configurable number of units
type mlp struct {
	g         *G.ExprGraph
	layers    []Layer
	input     *G.Node
	outputs   int
	numInputs int
	batchSize int

	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron on graph
// g, mapping batches of feature vectors to outputs values per batch
// row.
//
// The MLP has a number of layers equal to len(hiddenSizes) + 1: a
// final linear layer with a bias unit and no activation is always
// added so that the network predicts exactly outputs values.
// hiddenSizes may be empty, in which case the network is a single
// linear layer. For index i, hiddenSizes[i] is the number of units in
// hidden layer i, biases[i] determines whether hidden layer i has a
// bias unit, and activations[i] is the activation function of hidden
// layer i. The init parameter determines the weight initialization
// scheme of all layers.
func NewMLP(features, batch, outputs int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, activations []*Activation,
	init G.InitWFn) (NeuralNet, error) {
	if len(hiddenSizes) != len(activations) {
		return nil, fmt.Errorf("newmlp: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return nil, fmt.Errorf("newmlp: invalid number of biases"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(biases))
	}
	if features <= 0 || batch <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("newmlp: features, batch, and outputs must "+
			"be positive \n\thave(%v, %v, %v)", features, batch, outputs)
	}

	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	// Add the final linear output layer
	sizes := make([]int, len(hiddenSizes), len(hiddenSizes)+1)
	copy(sizes, hiddenSizes)
	sizes = append(sizes, outputs)

	layerBiases := make([]bool, len(biases), len(biases)+1)
	copy(layerBiases, biases)
	layerBiases = append(layerBiases, true)

	layerActivations := make([]*Activation, len(activations),
		len(activations)+1)
	copy(layerActivations, activations)
	layerActivations = append(layerActivations, Identity())

	layers := makeFCLayers(g, features, sizes, layerBiases,
		layerActivations, init, "")

	network := &mlp{
		g:           g,
		layers:      layers,
		input:       input,
		outputs:     outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: sizes,
		biases:      layerBiases,
		activations: layerActivations,
	}

	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newmlp: could not compute forward pass: %v",
			err)
	}

	return network, nil
}

// Graph returns the computational graph of the mlp
func (e *mlp) Graph() *G.ExprGraph {
	return e.g
}

// Clone clones an mlp to a new computational graph
func (e *mlp) Clone() (NeuralNet, error) {
	return e.CloneWithBatch(e.batchSize)
}

// CloneWithBatch clones an mlp, and its current weights, to a new
// computational graph with a new input batch size
func (e *mlp) CloneWithBatch(batchSize int) (NeuralNet, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("clonewithbatch: batch size must be positive"+
			"\n\thave(%v)", batchSize)
	}

	graph := G.NewGraph()

	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, e.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]Layer, len(e.layers))
	for i := range e.layers {
		layers[i] = e.layers[i].CloneTo(graph)
	}

	network := &mlp{
		g:           graph,
		layers:      layers,
		input:       input,
		outputs:     e.outputs,
		numInputs:   e.numInputs,
		batchSize:   batchSize,
		hiddenSizes: e.hiddenSizes,
		biases:      e.biases,
		activations: e.activations,
	}

	if _, err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not compute forward "+
			"pass: %v", err)
	}

	return network, nil
}

// BatchSize returns the batch size of inputs to the network
func (e *mlp) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single observation
// vector that the network takes as input
func (e *mlp) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs predicted per batch row
func (e *mlp) Outputs() int {
	return e.outputs
}

// SetInput sets the value of the input node before running the forward
// pass. The input is given in row major order.
func (e *mlp) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", e.numInputs*e.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Set sets the weights of the mlp to be equal to the weights of
// another NeuralNet
func (e *mlp) Set(source NeuralNet) error {
	return setLearnables(e, source)
}

// Learnables returns the learnable nodes of the mlp
func (e *mlp) Learnables() G.Nodes {
	// Lazy instantiation
	if e.learnables == nil {
		e.learnables = make(G.Nodes, 0, 2*len(e.layers))
		for i := range e.layers {
			e.learnables = append(e.learnables, e.layers[i].Weights())
			if bias := e.layers[i].Bias(); bias != nil {
				e.learnables = append(e.learnables, bias)
			}
		}
	}
	return e.learnables
}

// Model returns the learnable nodes with their gradients
func (e *mlp) Model() []G.ValueGrad {
	// Lazy instantiation
	if e.model == nil {
		e.model = make([]G.ValueGrad, 0, 2*len(e.layers))
		for _, node := range e.Learnables() {
			e.model = append(e.model, node)
		}
	}
	return e.model
}

// fwd performs the forward pass of the mlp on the input node
func (e *mlp) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			return nil, fmt.Errorf("fwd: could not compute forward pass "+
				"of layer %v: %v", i, err)
		}
	}

	e.prediction = pred
	G.Read(e.prediction, &e.predVal)

	return pred, nil
}

// Output returns the output of the mlp after its graph has been run
func (e *mlp) Output() []G.Value {
	return []G.Value{e.predVal}
}

// Prediction returns the node of the computational graph that stores
// the output of the mlp
func (e *mlp) Prediction() []*G.Node {
	return []*G.Node{e.prediction}
}
