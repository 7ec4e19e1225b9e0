// tensor_reduce.go - Reduktionen entlang einer Dimension
// Enthaelt: Sum, Mean, Max
//
// Der Tensor wird als (outer, n, inner) betrachtet, n ist die Groesse von dim.
// Jede Zeile der Laenge inner wird in den Akkumulator ihres outer-Index gefaltet.

package dense

import (
	"fmt"
	"slices"

	"gorgonia.org/vecf32"

	"github.com/tedll/tedll/ml"
)

// reduce reduziert entlang dim und entfernt die Dimension aus der Shape
// op faltet row elementweise in acc.
func (t *Tensor) reduce(dim int, op func(acc, row []float32)) *Tensor {
	if dim < 0 || dim >= len(t.shape) {
		panic(fmt.Errorf("invalid dimension %d for shape %v", dim, t.shape))
	}

	src := t.floats()
	outer, n, inner := numel(t.shape[:dim]), t.shape[dim], numel(t.shape[dim+1:])

	dst := make([]float32, outer*inner)
	if n > 0 {
		for o := range outer {
			acc := dst[o*inner : (o+1)*inner]
			base := o * n * inner

			copy(acc, src[base:base+inner])
			for k := 1; k < n; k++ {
				op(acc, src[base+k*inner:base+(k+1)*inner])
			}
		}
	}

	return newTensor(t.b, ml.DTypeF32, dst, slices.Delete(slices.Clone(t.shape), dim, dim+1))
}

// Sum summiert entlang dim
func (t *Tensor) Sum(ctx ml.Context, dim int) ml.Tensor {
	return t.reduce(dim, vecf32.Add)
}

// Mean mittelt entlang dim
func (t *Tensor) Mean(ctx ml.Context, dim int) ml.Tensor {
	r := t.Sum(ctx, dim).(*Tensor)
	vecf32.Scale(r.f32, 1/float32(t.shape[dim]))
	return r
}

// Max bildet das Maximum entlang dim
func (t *Tensor) Max(ctx ml.Context, dim int) ml.Tensor {
	return t.reduce(dim, func(acc, row []float32) {
		for i, v := range row {
			if v > acc[i] {
				acc[i] = v
			}
		}
	})
}
