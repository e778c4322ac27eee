// Package dataset loads and partitions labeled CSV data into the dense
// matrices the neuralnet package consumes.
package dataset

import (
	"math/rand"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Split is one partition of a dataset: X is samples x features, Y holds
// one integer class label per row of X.
type Split struct {
	X *mat.Dense
	Y []int
}

// ReadCSVXY reads a CSV file whose first column is the integer class label
// and whose remaining columns are features, skipping the header line.
// It returns X as samples x features and the label vector. Use Transposed
// to flip X into the features x samples orientation the network expects.
func ReadCSVXY(path string) (*mat.Dense, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DefaultType(series.Float))
	if df.Err != nil {
		return nil, nil, errors.Wrapf(df.Err, "dataset: parse %s", path)
	}
	names := df.Names()
	if len(names) < 2 {
		return nil, nil, errors.Errorf("dataset: %s has %d columns, want a label column plus features", path, len(names))
	}

	rows := df.Nrow()
	labels := make([]int, rows)
	for i, v := range df.Col(names[0]).Float() {
		labels[i] = int(v)
	}

	features := len(names) - 1
	x := mat.NewDense(rows, features, nil)
	for j, name := range names[1:] {
		col := df.Col(name).Float()
		for i := 0; i < rows; i++ {
			x.Set(i, j, col[i])
		}
	}
	return x, labels, nil
}

// Scale multiplies every entry of x by factor in place. Pixel data loaded
// from CSV is brought into [0, 1] with Scale(x, 1.0/255).
func Scale(x *mat.Dense, factor float64) {
	x.Scale(factor, x)
}

// Transposed returns a copy of x with rows and columns swapped, turning
// the samples x features loading orientation into the features x samples
// orientation consumed by the network.
func Transposed(x *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(x.T())
}

// SplitXY shuffles the sample rows with the supplied generator and cuts
// them into len(proportions) partitions of floor(p*n) rows each; the last
// partition absorbs the rounding remainder so every row lands in exactly
// one split. Proportions are expected to sum to 1 (e.g. {0.7, 0.2, 0.1}
// for train/validation/test).
func SplitXY(x *mat.Dense, y []int, proportions []float64, rng *rand.Rand) []Split {
	rows, features := x.Dims()
	indices := rng.Perm(rows)

	sizes := make([]int, len(proportions))
	total := 0
	for i, p := range proportions {
		sizes[i] = int(p * float64(rows))
		total += sizes[i]
	}
	if len(sizes) > 0 {
		sizes[len(sizes)-1] += rows - total
	}

	splits := make([]Split, 0, len(sizes))
	start := 0
	for _, size := range sizes {
		part := Split{
			X: mat.NewDense(size, features, nil),
			Y: make([]int, size),
		}
		for i := 0; i < size; i++ {
			src := indices[start+i]
			part.X.SetRow(i, mat.Row(nil, src, x))
			part.Y[i] = y[src]
		}
		splits = append(splits, part)
		start += size
	}
	return splits
}
