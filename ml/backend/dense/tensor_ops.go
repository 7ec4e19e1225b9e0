// tensor_ops.go - Tensor Arithmetik-Operationen
// Enthaelt: Add, Mul, Scale und numpy-artiges Broadcasting

package dense

import (
	"fmt"
	"slices"

	"gorgonia.org/vecf32"

	"github.com/tedll/tedll/ml"
)

// broadcastShape berechnet die gemeinsame Shape zweier Operanden
func broadcastShape(a, b []int) []int {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 1; i <= n; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}

		switch {
		case da == db, db == 1:
			out[n-i] = da
		case da == 1:
			out[n-i] = db
		default:
			panic(fmt.Errorf("cannot broadcast %v and %v", a, b))
		}
	}

	return out
}

// broadcastStrides gibt die Element-Strides von shape relativ zu out zurueck
// Gebroadcastete Achsen erhalten Stride 0.
func broadcastStrides(shape, out []int) []int {
	strides := make([]int, len(out))
	s := 1
	for i := 1; i <= len(shape); i++ {
		d := shape[len(shape)-i]
		if d != 1 {
			strides[len(out)-i] = s
		}
		s *= d
	}

	return strides
}

// broadcast wendet f elementweise auf a und b an
func broadcast[T float32 | int32](a, b []T, sa, sb, out []int, f func(x, y T) T) []T {
	dst := make([]T, numel(out))
	stA, stB := broadcastStrides(sa, out), broadcastStrides(sb, out)

	idx := make([]int, len(out))
	var ia, ib int
	for i := range dst {
		dst[i] = f(a[ia], b[ib])

		for d := len(out) - 1; d >= 0; d-- {
			idx[d]++
			ia += stA[d]
			ib += stB[d]
			if idx[d] < out[d] {
				break
			}

			ia -= stA[d] * out[d]
			ib -= stB[d] * out[d]
			idx[d] = 0
		}
	}

	return dst
}

// binary fuehrt eine elementweise Operation mit Broadcasting aus
// fast wird fuer gleich geformte F32-Operanden verwendet und arbeitet in-place auf der Kopie von t.
func (t *Tensor) binary(t2 ml.Tensor, fast func(a, b []float32), f32 func(x, y float32) float32, i32 func(x, y int32) int32) *Tensor {
	o := t2.(*Tensor)
	if t.dtype != o.dtype {
		panic(fmt.Errorf("dtype mismatch: %v and %v", t.dtype, o.dtype))
	}

	out := broadcastShape(t.shape, o.shape)
	switch t.dtype {
	case ml.DTypeF32:
		if slices.Equal(t.shape, o.shape) {
			dst := slices.Clone(t.floats())
			fast(dst, o.floats())
			return newTensor(t.b, ml.DTypeF32, dst, out)
		}

		return newTensor(t.b, ml.DTypeF32, broadcast(t.floats(), o.floats(), t.shape, o.shape, out, f32), out)
	case ml.DTypeI32:
		return newTensor(t.b, ml.DTypeI32, broadcast(t.ints(), o.ints(), t.shape, o.shape, out, i32), out)
	default:
		panic(fmt.Errorf("unsupported dtype %v", t.dtype))
	}
}

// Add addiert zwei Tensoren elementweise
func (t *Tensor) Add(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(t2, vecf32.Add,
		func(x, y float32) float32 { return x + y },
		func(x, y int32) int32 { return x + y })
}

// Mul multipliziert zwei Tensoren elementweise
func (t *Tensor) Mul(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	return t.binary(t2, vecf32.Mul,
		func(x, y float32) float32 { return x * y },
		func(x, y int32) int32 { return x * y })
}

// Scale multipliziert alle Elemente mit s
func (t *Tensor) Scale(ctx ml.Context, s float64) ml.Tensor {
	dst := slices.Clone(t.floats())
	vecf32.Scale(dst, float32(s))
	return newTensor(t.b, ml.DTypeF32, dst, t.shape)
}
