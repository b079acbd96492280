package initwfn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GaussianConfig implements a configuration of a weight initializer
// that draws weights from a Gaussian distribution. The Seed
// determines the weights drawn, so that two initializers with the
// same configuration initialize identical weights.
type GaussianConfig struct {
	Mean, StdDev float64
	Seed         uint64
}

// NewGaussian returns a new Gaussian weight initializer
func NewGaussian(mean, stddev float64, seed uint64) (*InitWFn, error) {
	config := GaussianConfig{
		Mean:   mean,
		StdDev: stddev,
		Seed:   seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (u GaussianConfig) Type() Type {
	return Gaussian
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn. Successive weight tensors initialized by the returned
// InitWFn consume successive draws from a single stream seeded by
// the configuration's Seed.
func (u GaussianConfig) Create() G.InitWFn {
	dist := distuv.Normal{
		Mu:    u.Mean,
		Sigma: u.StdDev,
		Src:   rand.NewSource(u.Seed),
	}

	return func(dt tensor.Dtype, s ...int) interface{} {
		size := tensor.Shape(s).TotalSize()

		switch dt {
		case tensor.Float64:
			backing := make([]float64, size)
			for i := range backing {
				backing[i] = dist.Rand()
			}
			return backing

		case tensor.Float32:
			backing := make([]float32, size)
			for i := range backing {
				backing[i] = float32(dist.Rand())
			}
			return backing

		default:
			panic(fmt.Sprintf("create: unsupported dtype %v for gaussian "+
				"weight initialization", dt))
		}
	}
}
