package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
)

// run computes the forward pass of a network on the argument input,
// returning a copy of its first output head's predictions
func run(t *testing.T, net NeuralNet, input []float64) []float64 {
	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()

	if err := net.SetInput(input); err != nil {
		t.Fatal(err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	data := net.Output()[0].Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}

func TestMLPCloneWithBatchPreservesWeights(t *testing.T) {
	net, err := NewMLP(3, 1, 2, G.NewGraph(), []int{4}, []bool{true},
		[]*Activation{TanH()}, G.GlorotU(1.0))
	if err != nil {
		t.Fatal(err)
	}

	input := []float64{0.1, 0.2, 0.3}
	out := run(t, net, input)

	clone, err := net.CloneWithBatch(2)
	if err != nil {
		t.Fatal(err)
	}
	if clone.BatchSize() != 2 {
		t.Fatalf("expected a batch size of 2, got %v", clone.BatchSize())
	}

	// Both rows of the batch hold the same observation, so both rows
	// of predictions must equal the original network's prediction
	batchOut := run(t, clone, append(append([]float64{}, input...),
		input...))
	if len(batchOut) != 2*len(out) {
		t.Fatalf("expected %v outputs, got %v", 2*len(out), len(batchOut))
	}
	for i := range batchOut {
		if math.Abs(batchOut[i]-out[i%len(out)]) > 1e-12 {
			t.Errorf("output %v: expected %v, got %v", i, out[i%len(out)],
				batchOut[i])
		}
	}
}

func TestSetCopiesWeights(t *testing.T) {
	source, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true},
		[]*Activation{TanH()}, G.GlorotU(1.0))
	if err != nil {
		t.Fatal(err)
	}
	dest, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true},
		[]*Activation{TanH()}, G.GlorotU(1.0))
	if err != nil {
		t.Fatal(err)
	}

	if err := Set(dest, source); err != nil {
		t.Fatal(err)
	}

	input := []float64{0.5, -0.5}
	sourceOut := run(t, source, input)
	destOut := run(t, dest, input)

	for i := range sourceOut {
		if sourceOut[i] != destOut[i] {
			t.Errorf("output %v: expected %v, got %v", i, sourceOut[i],
				destOut[i])
		}
	}
}

func TestMLPWithoutHiddenLayers(t *testing.T) {
	net, err := NewMLP(2, 1, 3, G.NewGraph(), nil, nil, nil, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}

	// A linear net with zeroed weights and biases predicts 0
	out := run(t, net, []float64{1.0, -1.0})
	if len(out) != 3 {
		t.Fatalf("expected 3 outputs, got %v", len(out))
	}
	for i, o := range out {
		if o != 0.0 {
			t.Errorf("output %v: expected 0, got %v", i, o)
		}
	}
}

func TestForkedMLPZeroInitializedHeads(t *testing.T) {
	net, err := NewForkedMLP(2, 1, 1, 2, G.NewGraph(), []int{4},
		[]bool{true}, []*Activation{TanH()}, G.GlorotU(1.0), G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}
	if len(net.Prediction()) != 2 {
		t.Fatalf("expected 2 output heads, got %v", len(net.Prediction()))
	}

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()

	if err := net.SetInput([]float64{0.3, -0.7}); err != nil {
		t.Fatal(err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	// Zero-initialized heads predict 0 regardless of their input
	for head, output := range net.Output() {
		for i, o := range output.Data().([]float64) {
			if o != 0.0 {
				t.Errorf("head %v output %v: expected 0, got %v", head, i, o)
			}
		}
	}
}
