package dataset

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadCSVXY(t *testing.T) {
	path := writeCSV(t, "label,p0,p1,p2\n1,0,128,255\n0,64,32,16\n")

	x, y, err := ReadCSVXY(path)
	require.NoError(t, err)

	rows, cols := x.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []int{1, 0}, y)

	want := mat.NewDense(2, 3, []float64{
		0, 128, 255,
		64, 32, 16,
	})
	assert.True(t, mat.EqualApprox(want, x, 1e-12), "X mismatch:\n%v", mat.Formatted(x))
}

func TestReadCSVXYMissingFile(t *testing.T) {
	_, _, err := ReadCSVXY(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestReadCSVXYLabelOnlyColumns(t *testing.T) {
	path := writeCSV(t, "label\n1\n0\n")
	_, _, err := ReadCSVXY(path)
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	x := mat.NewDense(1, 3, []float64{0, 51, 255})
	Scale(x, 1.0/255.0)
	assert.InDelta(t, 0.0, x.At(0, 0), 1e-12)
	assert.InDelta(t, 0.2, x.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, x.At(0, 2), 1e-12)
}

func TestTransposed(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	flipped := Transposed(x)
	r, c := flipped.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, flipped.At(0, 1))

	// The copy is independent of the source.
	flipped.Set(0, 0, 99)
	assert.Equal(t, 1.0, x.At(0, 0))
}

func TestSplitXYSizes(t *testing.T) {
	const rows = 10
	x := mat.NewDense(rows, 2, nil)
	y := make([]int, rows)
	for i := 0; i < rows; i++ {
		x.Set(i, 0, float64(i))
		x.Set(i, 1, float64(10*i))
		y[i] = i
	}

	splits := SplitXY(x, y, []float64{0.5, 0.3, 0.2}, rand.New(rand.NewSource(1)))
	require.Len(t, splits, 3)
	assert.Len(t, splits[0].Y, 5)
	assert.Len(t, splits[1].Y, 3)
	assert.Len(t, splits[2].Y, 2)

	// Every row lands in exactly one split, with features still attached
	// to their label.
	var all []int
	for _, split := range splits {
		r, _ := split.X.Dims()
		require.Equal(t, len(split.Y), r)
		for i, label := range split.Y {
			assert.Equal(t, float64(label), split.X.At(i, 0))
			assert.Equal(t, float64(10*label), split.X.At(i, 1))
			all = append(all, label)
		}
	}
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)
}

func TestSplitXYLastSplitAbsorbsRemainder(t *testing.T) {
	x := mat.NewDense(7, 1, []float64{0, 1, 2, 3, 4, 5, 6})
	y := []int{0, 1, 2, 3, 4, 5, 6}
	splits := SplitXY(x, y, []float64{0.5, 0.5}, rand.New(rand.NewSource(2)))
	require.Len(t, splits, 2)
	// floor(0.5*7) = 3, the tail takes the remaining 4.
	assert.Len(t, splits[0].Y, 3)
	assert.Len(t, splits[1].Y, 4)
}

func TestSplitXYDeterministicForSeed(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
	y := []int{0, 1, 2, 3, 4, 5}
	a := SplitXY(x, y, []float64{0.5, 0.5}, rand.New(rand.NewSource(3)))
	b := SplitXY(x, y, []float64{0.5, 0.5}, rand.New(rand.NewSource(3)))
	assert.Equal(t, a[0].Y, b[0].Y)
	assert.Equal(t, a[1].Y, b[1].Y)
}
