package neuralnet

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Gradient holds one layer's averaged parameter gradients for a full batch.
type Gradient struct {
	DW *mat.Dense
	DB *mat.VecDense
}

// Network is an ordered stack of dense layers trained by full-batch
// gradient descent. It owns its layers exclusively and keeps no state
// between calls beyond the layer parameters themselves.
type Network struct {
	layers []*Layer

	// OnEpoch, when set, is called after every completed epoch of Train
	// with the 1-based epoch number and the total epoch count. It is a
	// pure observability hook (progress bars and the like) and must not
	// mutate the network.
	OnEpoch func(epoch, epochs int)
}

// NewNetwork builds a network from layers in forward order. Consecutive
// layers must agree on sizes (layer i's output size is layer i+1's input
// size); a disagreement panics on the first forward pass.
func NewNetwork(layers ...*Layer) *Network {
	return &Network{layers: layers}
}

// Layers returns the network's layers in forward order.
func (n *Network) Layers() []*Layer { return n.layers }

// Forward runs every layer in sequence and returns the full activation
// cache [input, Z0, A0, Z1, A1, ...]: the original input followed by each
// layer's pre- and post-activation. The final element is the network's
// prediction. The cache is owned by the caller and feeds Backward.
func (n *Network) Forward(input *mat.Dense) []*mat.Dense {
	cache := make([]*mat.Dense, 0, 2*len(n.layers)+1)
	cache = append(cache, input)
	for _, layer := range n.layers {
		z, a := layer.Forward(cache[len(cache)-1])
		cache = append(cache, z, a)
	}
	return cache
}

// Backward computes one gradient pair per layer from a forward cache and a
// one-hot target (numClasses x numSamples), returned in layer order.
//
// The output layer's error signal is A_last - target, the closed form of
// the softmax-cross-entropy gradient. It is only mathematically right when
// the last layer is Softmax and the targets are one-hot; pairing it with
// any other output activation silently trains against the wrong gradient.
// Remaining layers get their signal from Layer.Backward, walking the cache
// in reverse. Every gradient is averaged over the batch: the bias gradient
// is the row-wise mean of the signal, the weight gradient is
// signal * prevA^T / numSamples.
func (n *Network) Backward(cache []*mat.Dense, target *mat.Dense) []Gradient {
	last := len(n.layers) - 1
	grads := make([]Gradient, len(n.layers))

	delta := &mat.Dense{}
	delta.Sub(cache[len(cache)-1], target)
	_, samples := delta.Dims()
	m := float64(samples)

	// cache[2*i] is layer i's input activation (the network input for i=0).
	grads[last] = layerGradient(delta, cache[2*last], m)
	for i := last - 1; i >= 0; i-- {
		delta = n.layers[i].Backward(n.layers[i+1].Weights(), delta, cache[2*i+1])
		grads[i] = layerGradient(delta, cache[2*i], m)
	}
	return grads
}

func layerGradient(delta, prevA *mat.Dense, m float64) Gradient {
	rows, cols := delta.Dims()
	dW := &mat.Dense{}
	dW.Mul(delta, prevA.T())
	dW.Scale(1/m, dW)

	db := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			sum += delta.At(i, j)
		}
		db.SetVec(i, sum/m)
	}
	return Gradient{DW: dW, DB: db}
}

// UpdateWeights applies every layer's gradient pair with a single shared
// learning rate.
func (n *Network) UpdateWeights(grads []Gradient, learningRate float64) {
	if len(grads) != len(n.layers) {
		panic(fmt.Sprintf("neuralnet: %d gradients for %d layers", len(grads), len(n.layers)))
	}
	for i, layer := range n.layers {
		layer.UpdateWeights(grads[i].DW, grads[i].DB, learningRate)
	}
}

// Train runs full-batch gradient descent for exactly epochs iterations of
// forward, backward, update. There is no shuffling, batching, early
// stopping or convergence check; epochs = 0 computes nothing.
//
// input is features x samples; labels holds one non-negative class index
// per sample column. The one-hot width is inferred from the data as
// max(labels)+1 once per call, so classes that only appear in held-out
// data are invisible here and will misalign the one-hot width; that is the
// caller's responsibility.
//
// Training accuracy is reported to stdout every 10th epoch; OnEpoch, when
// set, fires after every epoch.
func (n *Network) Train(input *mat.Dense, labels []int, learningRate float64, epochs int) {
	numClasses := 0
	for _, label := range labels {
		if label+1 > numClasses {
			numClasses = label + 1
		}
	}
	target := OneHotEncode(labels, numClasses)
	for epoch := 1; epoch <= epochs; epoch++ {
		cache := n.Forward(input)
		grads := n.Backward(cache, target)
		n.UpdateWeights(grads, learningRate)
		if n.OnEpoch != nil {
			n.OnEpoch(epoch, epochs)
		}
		if epoch%10 == 0 {
			fmt.Printf("Epoch %d/%d: accuracy = %.4f\n", epoch, epochs, n.Accuracy(input, labels))
		}
	}
}

// Predict runs a forward pass and returns only the last layer's
// activation (classes x samples), discarding the intermediate cache.
func (n *Network) Predict(input *mat.Dense) *mat.Dense {
	cache := n.Forward(input)
	return cache[len(cache)-1]
}

// Accuracy predicts on input and returns the fraction of sample columns
// whose argmax row equals the corresponding label. A tie in the column
// maximum resolves to the lowest row index.
func (n *Network) Accuracy(input *mat.Dense, labels []int) float64 {
	predictions := n.Predict(input)
	_, cols := predictions.Dims()
	correct := 0
	for j := 0; j < cols; j++ {
		if argmaxColumn(predictions, j) == labels[j] {
			correct++
		}
	}
	return float64(correct) / float64(cols)
}

// argmaxColumn returns the row index of the first maximum in column j.
func argmaxColumn(m *mat.Dense, j int) int {
	rows, _ := m.Dims()
	best := 0
	for i := 1; i < rows; i++ {
		if m.At(i, j) > m.At(best, j) {
			best = i
		}
	}
	return best
}
