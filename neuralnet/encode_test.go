package neuralnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneHotEncode(t *testing.T) {
	labels := []int{0, 2, 1, 2}
	encoded := OneHotEncode(labels, 3)

	rows, cols := encoded.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 4, cols)

	for j, label := range labels {
		for i := 0; i < rows; i++ {
			want := 0.0
			if i == label {
				want = 1.0
			}
			assert.Equal(t, want, encoded.At(i, j), "entry (%d,%d)", i, j)
		}
	}
}

func TestOneHotEncodeDropsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		label int
	}{
		{"negative", -1},
		{"equal to numClasses", 3},
		{"far above numClasses", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := OneHotEncode([]int{tt.label}, 3)
			for i := 0; i < 3; i++ {
				assert.Equal(t, 0.0, encoded.At(i, 0))
			}
		})
	}
}

func TestOneHotEncodeRoundTrip(t *testing.T) {
	labels := []int{3, 0, 1, 2, 1, 0}
	encoded := OneHotEncode(labels, 4)
	for j, label := range labels {
		assert.Equal(t, label, argmaxColumn(encoded, j))
	}
}
