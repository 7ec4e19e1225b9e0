package ml_test

import (
	"testing"

	"github.com/tedll/tedll/ml"
	_ "github.com/tedll/tedll/ml/backend"
)

func TestDump(t *testing.T) {
	b, err := ml.NewBackend("dense", ml.BackendParams{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	ctx := b.NewContext()
	defer ctx.Close()

	tests := []struct {
		name   string
		tensor ml.Tensor
		opts   []ml.DumpOptions
		want   string
	}{
		{
			name:   "matrix",
			tensor: ctx.FromFloats([]float32{1, 2, 3, 4}, 2, 2),
			opts:   []ml.DumpOptions{ml.DumpWithPrecision(1)},
			want:   "[[ 1.0,  2.0],\n [ 3.0,  4.0]]",
		},
		{
			name:   "ints",
			tensor: ctx.FromInts([]int32{1, -2}, 2),
			want:   "[ 1, -2]",
		},
		{
			name:   "gekuerzt",
			tensor: ctx.FromInts([]int32{1, 2, 3, 4, 5}, 5),
			opts:   []ml.DumpOptions{ml.DumpWithThreshold(2), ml.DumpWithEdgeItems(1)},
			want:   "[ 1, ...,  5]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ml.Dump(tt.tensor, tt.opts...); got != tt.want {
				t.Errorf("Dump() = %q, erwartet %q", got, tt.want)
			}
		})
	}
}
