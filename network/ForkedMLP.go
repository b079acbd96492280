package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// forkedMLP implements a multi-layered perceptron with a (possibly
// empty) shared root network and multiple independent output heads.
// Each head is a single linear layer with a bias unit, predicting
// outputs values from the root network's output. A diagram:
//
//	                   ╭─→ Head 1 ─→ Output
//	Input ─→ Root Net ─┤    ...
//	                   ╰─→ Head N ─→ Output
//
// When the root network has no layers, the heads are independent
// linear projections of the input. This is the parameterization used
// by Gaussian policies that predict a mean and a standard deviation
// of a normal distribution from the same state observation.
type forkedMLP struct {
	g          *G.ExprGraph
	rootLayers []Layer
	headLayers []Layer
	input      *G.Node
	outputs    int
	numInputs  int
	batchSize  int

	rootHiddenSizes []int
	rootBiases      []bool
	rootActivations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	predictions []*G.Node
	predVals    []G.Value
}

// NewForkedMLP creates and returns a new forked MLP on graph g with
// numHeads output heads, each predicting outputs values per batch row.
// The root network architecture is determined by rootHiddenSizes,
// rootBiases, and rootActivations in the same way as NewMLP, and may
// be empty. The init parameter determines the weight initialization
// scheme of the root layers, and headInit that of the output heads.
func NewForkedMLP(features, batch, outputs, numHeads int, g *G.ExprGraph,
	rootHiddenSizes []int, rootBiases []bool,
	rootActivations []*Activation, init, headInit G.InitWFn) (NeuralNet, error) {
	if len(rootHiddenSizes) != len(rootActivations) {
		return nil, fmt.Errorf("newforkedmlp: invalid number of root "+
			"activations \n\twant(%d)\n\thave(%d)", len(rootHiddenSizes),
			len(rootActivations))
	}
	if len(rootHiddenSizes) != len(rootBiases) {
		return nil, fmt.Errorf("newforkedmlp: invalid number of root biases"+
			"\n\twant(%d)\n\thave(%d)", len(rootHiddenSizes), len(rootBiases))
	}
	if numHeads <= 0 {
		return nil, fmt.Errorf("newforkedmlp: there must be at least one "+
			"output head \n\thave(%v)", numHeads)
	}

	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	rootLayers := makeFCLayers(g, features, rootHiddenSizes, rootBiases,
		rootActivations, init, "Root")

	rootOutputs := features
	if len(rootHiddenSizes) > 0 {
		rootOutputs = rootHiddenSizes[len(rootHiddenSizes)-1]
	}

	// Each head is a single linear layer
	headLayers := make([]Layer, numHeads)
	for i := range headLayers {
		headLayers[i] = makeFCLayers(g, rootOutputs, []int{outputs},
			[]bool{true}, []*Activation{Identity()}, headInit,
			fmt.Sprintf("Head%d", i))[0]
	}

	network := &forkedMLP{
		g:               g,
		rootLayers:      rootLayers,
		headLayers:      headLayers,
		input:           input,
		outputs:         outputs,
		numInputs:       features,
		batchSize:       batch,
		rootHiddenSizes: rootHiddenSizes,
		rootBiases:      rootBiases,
		rootActivations: rootActivations,
	}

	if err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("newforkedmlp: could not compute forward "+
			"pass: %v", err)
	}

	return network, nil
}

// Graph returns the computational graph of the forkedMLP
func (f *forkedMLP) Graph() *G.ExprGraph {
	return f.g
}

// Clone clones a forkedMLP to a new computational graph
func (f *forkedMLP) Clone() (NeuralNet, error) {
	return f.CloneWithBatch(f.batchSize)
}

// CloneWithBatch clones a forkedMLP, and its current weights, to a new
// computational graph with a new input batch size
func (f *forkedMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("clonewithbatch: batch size must be positive"+
			"\n\thave(%v)", batchSize)
	}

	graph := G.NewGraph()

	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, f.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	rootLayers := make([]Layer, len(f.rootLayers))
	for i := range f.rootLayers {
		rootLayers[i] = f.rootLayers[i].CloneTo(graph)
	}
	headLayers := make([]Layer, len(f.headLayers))
	for i := range f.headLayers {
		headLayers[i] = f.headLayers[i].CloneTo(graph)
	}

	network := &forkedMLP{
		g:               graph,
		rootLayers:      rootLayers,
		headLayers:      headLayers,
		input:           input,
		outputs:         f.outputs,
		numInputs:       f.numInputs,
		batchSize:       batchSize,
		rootHiddenSizes: f.rootHiddenSizes,
		rootBiases:      f.rootBiases,
		rootActivations: f.rootActivations,
	}

	if err := network.fwd(input); err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not compute forward "+
			"pass: %v", err)
	}

	return network, nil
}

// BatchSize returns the batch size of inputs to the network
func (f *forkedMLP) BatchSize() int {
	return f.batchSize
}

// Features returns the number of features in a single observation
// vector that the network takes as input
func (f *forkedMLP) Features() int {
	return f.numInputs
}

// Outputs returns the number of outputs predicted per head per batch
// row
func (f *forkedMLP) Outputs() int {
	return f.outputs
}

// SetInput sets the value of the input node before running the forward
// pass. The input is given in row major order.
func (f *forkedMLP) SetInput(input []float64) error {
	if len(input) != f.numInputs*f.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", f.numInputs*f.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(f.input.Shape()...),
	)
	return G.Let(f.input, inputTensor)
}

// Set sets the weights of the forkedMLP to be equal to the weights of
// another NeuralNet
func (f *forkedMLP) Set(source NeuralNet) error {
	return setLearnables(f, source)
}

// Learnables returns the learnable nodes of the forkedMLP
func (f *forkedMLP) Learnables() G.Nodes {
	// Lazy instantiation
	if f.learnables == nil {
		layers := make([]Layer, 0, len(f.rootLayers)+len(f.headLayers))
		layers = append(layers, f.rootLayers...)
		layers = append(layers, f.headLayers...)

		f.learnables = make(G.Nodes, 0, 2*len(layers))
		for i := range layers {
			f.learnables = append(f.learnables, layers[i].Weights())
			if bias := layers[i].Bias(); bias != nil {
				f.learnables = append(f.learnables, bias)
			}
		}
	}
	return f.learnables
}

// Model returns the learnable nodes with their gradients
func (f *forkedMLP) Model() []G.ValueGrad {
	// Lazy instantiation
	if f.model == nil {
		f.model = make([]G.ValueGrad, 0, len(f.Learnables()))
		for _, node := range f.Learnables() {
			f.model = append(f.model, node)
		}
	}
	return f.model
}

// fwd performs the forward pass of the forkedMLP on the input node
func (f *forkedMLP) fwd(input *G.Node) error {
	root := input
	var err error
	for i, l := range f.rootLayers {
		if root, err = l.fwd(root); err != nil {
			return fmt.Errorf("fwd: could not compute forward pass of root "+
				"layer %v: %v", i, err)
		}
	}

	f.predictions = make([]*G.Node, len(f.headLayers))
	f.predVals = make([]G.Value, len(f.headLayers))
	for i, l := range f.headLayers {
		pred, err := l.fwd(root)
		if err != nil {
			return fmt.Errorf("fwd: could not compute forward pass of head "+
				"%v: %v", i, err)
		}
		f.predictions[i] = pred
		G.Read(f.predictions[i], &f.predVals[i])
	}

	return nil
}

// Output returns the outputs of the forkedMLP, one value per head,
// after its graph has been run
func (f *forkedMLP) Output() []G.Value {
	return f.predVals
}

// Prediction returns the nodes of the computational graph that store
// the output of each head of the forkedMLP
func (f *forkedMLP) Prediction() []*G.Node {
	return f.predictions
}
