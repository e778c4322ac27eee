package neuralnet

import "gonum.org/v1/gonum/mat"

// OneHotEncode projects integer class labels into a numClasses x
// len(labels) matrix with a single 1 per column at the label's row. A
// label outside [0, numClasses) is dropped silently: its column stays all
// zero. That column can then never match any prediction, which is the
// defined policy rather than an error.
func OneHotEncode(labels []int, numClasses int) *mat.Dense {
	encoded := mat.NewDense(numClasses, len(labels), nil)
	for i, label := range labels {
		if label >= 0 && label < numClasses {
			encoded.Set(label, i, 1)
		}
	}
	return encoded
}
