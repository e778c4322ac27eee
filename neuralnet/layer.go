package neuralnet

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// WeightScale bounds the uniform range used to initialize weights and
// biases: every parameter starts in [-WeightScale, WeightScale].
const WeightScale = 0.5

// Layer is one dense layer: an affine transform followed by an activation.
// It exclusively owns its weight matrix (outputSize x inputSize) and bias
// vector; both are mutated only by UpdateWeights and never resized.
type Layer struct {
	inputSize  int
	outputSize int
	activation Activation

	weights *mat.Dense
	bias    *mat.VecDense
}

// NewLayer creates a layer with parameters drawn uniformly from
// [-WeightScale, WeightScale] using the supplied generator. Stacked layers
// must agree on sizes: this layer's outputSize is the next layer's
// inputSize; a mismatch surfaces as a shape panic on the first forward pass.
func NewLayer(inputSize, outputSize int, activation Activation, rng *rand.Rand) *Layer {
	if inputSize <= 0 || outputSize <= 0 {
		panic(fmt.Sprintf("neuralnet: invalid layer size %dx%d", outputSize, inputSize))
	}
	weights := mat.NewDense(outputSize, inputSize, nil)
	for i := 0; i < outputSize; i++ {
		for j := 0; j < inputSize; j++ {
			weights.Set(i, j, uniform(rng))
		}
	}
	bias := mat.NewVecDense(outputSize, nil)
	for i := 0; i < outputSize; i++ {
		bias.SetVec(i, uniform(rng))
	}
	return &Layer{
		inputSize:  inputSize,
		outputSize: outputSize,
		activation: activation,
		weights:    weights,
		bias:       bias,
	}
}

func uniform(rng *rand.Rand) float64 {
	return (2*rng.Float64() - 1) * WeightScale
}

// InputSize returns the number of input features the layer expects.
func (l *Layer) InputSize() int { return l.inputSize }

// OutputSize returns the number of neurons in the layer.
func (l *Layer) OutputSize() int { return l.outputSize }

// Activation returns the layer's activation kind.
func (l *Layer) Activation() Activation { return l.activation }

// Weights returns the layer's weight matrix. The matrix is live, not a
// copy: the backward pass of the preceding layer reads it in place.
func (l *Layer) Weights() *mat.Dense { return l.weights }

// Bias returns the layer's bias vector, live like Weights.
func (l *Layer) Bias() *mat.VecDense { return l.bias }

// Forward computes the pre-activation Z = W*input + bias (bias broadcast
// across the sample columns) and the post-activation A. Both are returned
// because the backward pass needs Z. input must have exactly inputSize
// rows; one column per sample. Parameters are not touched.
func (l *Layer) Forward(input *mat.Dense) (z, a *mat.Dense) {
	if r, _ := input.Dims(); r != l.inputSize {
		panic(fmt.Sprintf("neuralnet: layer wants %d input rows, got %d", l.inputSize, r))
	}
	_, cols := input.Dims()
	z = mat.NewDense(l.outputSize, cols, nil)
	z.Mul(l.weights, input)
	for j := 0; j < cols; j++ {
		for i := 0; i < l.outputSize; i++ {
			z.Set(i, j, z.At(i, j)+l.bias.AtVec(i))
		}
	}
	return z, l.activation.Apply(z)
}

// Backward propagates the error signal from the next layer through this
// one: nextWeights^T * nextDelta, gated element-wise by this layer's
// activation derivative at its own cached pre-activation z. Pure; no
// parameter mutation.
func (l *Layer) Backward(nextWeights, nextDelta, z *mat.Dense) *mat.Dense {
	var signal mat.Dense
	signal.Mul(nextWeights.T(), nextDelta)
	return l.activation.Gate(&signal, z)
}

// UpdateWeights applies one plain gradient-descent step in place:
// W -= lr*dW, b -= lr*db. Gradient shapes must match the parameters.
// There is no clipping and no finite-value guard; divergent gradients
// diverge the parameters.
func (l *Layer) UpdateWeights(dW *mat.Dense, db *mat.VecDense, learningRate float64) {
	if r, c := dW.Dims(); r != l.outputSize || c != l.inputSize {
		panic(fmt.Sprintf("neuralnet: weight gradient is %dx%d, want %dx%d", r, c, l.outputSize, l.inputSize))
	}
	if db.Len() != l.outputSize {
		panic(fmt.Sprintf("neuralnet: bias gradient has length %d, want %d", db.Len(), l.outputSize))
	}
	for i := 0; i < l.outputSize; i++ {
		for j := 0; j < l.inputSize; j++ {
			l.weights.Set(i, j, l.weights.At(i, j)-learningRate*dW.At(i, j))
		}
		l.bias.SetVec(i, l.bias.AtVec(i)-learningRate*db.AtVec(i))
	}
}
