package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activation selects the non-linearity applied after a layer's affine
// transform. The set is closed: every layer carries exactly one of these,
// chosen at construction time.
type Activation int

const (
	// Identity leaves the pre-activation untouched.
	Identity Activation = iota
	// ReLU clamps negatives to zero element-wise.
	ReLU
	// Softmax normalizes each sample column into a probability distribution.
	Softmax
)

func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case ReLU:
		return "relu"
	case Softmax:
		return "softmax"
	}
	return "unknown"
}

// Apply computes the activation of z into a freshly allocated matrix.
// Softmax is applied per sample column with the usual max-shift for
// numerical stability; columns never interact.
func (a Activation) Apply(z *mat.Dense) *mat.Dense {
	switch a {
	case ReLU:
		out := mat.DenseCopyOf(z)
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Max(0, v)
		}, out)
		return out
	case Softmax:
		return softmaxColumns(z)
	default:
		return mat.DenseCopyOf(z)
	}
}

// Gate multiplies the propagated error signal by the activation derivative
// evaluated at z, element-wise, returning a new matrix.
//
// The ReLU derivative is 1 where z > 0 and 0 elsewhere (the sub-gradient at
// zero is taken as 0). The softmax case reuses the forward softmax of z as
// the gating factor rather than the full Jacobian-vector product; that is
// only consistent with the output-layer cross-entropy shortcut when softmax
// terminates the network, so a non-terminal softmax layer propagates a
// slightly wrong signal. The behavior is kept as is.
func (a Activation) Gate(signal, z *mat.Dense) *mat.Dense {
	switch a {
	case ReLU:
		out := mat.DenseCopyOf(signal)
		out.Apply(func(i, j int, v float64) float64 {
			if z.At(i, j) > 0 {
				return v
			}
			return 0
		}, out)
		return out
	case Softmax:
		s := softmaxColumns(z)
		out := mat.DenseCopyOf(signal)
		out.MulElem(out, s)
		return out
	default:
		return mat.DenseCopyOf(signal)
	}
}

// softmaxColumns computes the numerically stable softmax of every column of
// z independently: shift by the column maximum, exponentiate, divide by the
// column sum.
func softmaxColumns(z *mat.Dense) *mat.Dense {
	rows, cols := z.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		max := math.Inf(-1)
		for i := 0; i < rows; i++ {
			if v := z.At(i, j); v > max {
				max = v
			}
		}
		var sum float64
		for i := 0; i < rows; i++ {
			e := math.Exp(z.At(i, j) - max)
			out.Set(i, j, e)
			sum += e
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, out.At(i, j)/sum)
		}
	}
	return out
}
