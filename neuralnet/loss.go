package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CrossEntropy returns the categorical cross-entropy between predicted
// class probabilities and a one-hot target of the same shape
// (classes x samples), averaged over the sample columns. Probabilities are
// floored at 1e-15 before the log so a confident miss stays finite.
func CrossEntropy(predicted, target *mat.Dense) float64 {
	rows, cols := predicted.Dims()
	var loss float64
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			p := predicted.At(i, j)
			if p < 1e-15 {
				p = 1e-15
			}
			loss -= target.At(i, j) * math.Log(p)
		}
	}
	return loss / float64(cols)
}
