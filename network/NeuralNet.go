// Package network implements feed-forward neural networks on Gorgonia
// computational graphs
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network on a Gorgonia computational
// graph. A NeuralNet operates on batches of a fixed size. To compute
// predictions for a different batch size, the network must be cloned
// with CloneWithBatch, which copies the network weights to a new graph
// with a new input shape.
type NeuralNet interface {
	// Graph returns the computational graph that the network is on
	Graph() *G.ExprGraph

	// Clone and CloneWithBatch clone the network, and its current
	// weights, to a new computational graph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)

	// BatchSize returns the number of rows of the network input
	BatchSize() int

	// Features returns the number of features in a single input
	// observation vector
	Features() int

	// Outputs returns the number of values predicted by the network
	// per output head
	Outputs() int

	// SetInput sets the value of the input node before running the
	// network's graph. The input is given in row major order.
	SetInput([]float64) error

	// Set sets the network weights to be equal to those of another
	// network
	Set(NeuralNet) error

	// Learnables returns the learnable nodes of the network and Model
	// returns those nodes with their gradients
	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Prediction returns the nodes of the computational graph that
	// store the network predictions, one node per output head. Output
	// returns the values of those nodes after the graph has been run.
	Prediction() []*G.Node
	Output() []G.Value
}

// Set sets the weights of dest to be equal to the weights of source
func Set(dest, source NeuralNet) error {
	return dest.Set(source)
}

// setLearnables copies the values of the learnable nodes of source
// into the learnable nodes of dest
func setLearnables(dest, source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return err
		}
	}
	return nil
}
