// context.go - Tensor-Erstellungsmethoden fuer Context
// Enthaelt: Empty(), Zeros(), FromFloats(), FromInts(), Arange(), Close()

package dense

import (
	"fmt"
	"slices"

	"github.com/tedll/tedll/ml"
)

// Context erzeugt Tensoren fuer einen Forward-Aufruf
// Speicher wird vom GC verwaltet, Close ist daher ohne Wirkung.
type Context struct {
	b *Backend
}

// checkShape prueft ob die Daten zur Shape passen
func checkShape[S ~[]E, E any](s S, shape ...int) {
	if len(shape) == 0 || slices.ContainsFunc(shape, func(d int) bool { return d < 0 }) || len(s) != numel(shape) {
		panic(fmt.Errorf("invalid shape %v for %d values", shape, len(s)))
	}
}

// Empty erstellt einen neuen Tensor (mit Nullen, da Go-Speicher initialisiert ist)
func (c *Context) Empty(dtype ml.DType, shape ...int) ml.Tensor {
	return c.Zeros(dtype, shape...)
}

// Zeros erstellt einen mit Nullen initialisierten Tensor
func (c *Context) Zeros(dtype ml.DType, shape ...int) ml.Tensor {
	switch dtype {
	case ml.DTypeF32:
		return newTensor(c.b, dtype, make([]float32, numel(shape)), shape)
	case ml.DTypeI32:
		return newTensor(c.b, dtype, make([]int32, numel(shape)), shape)
	default:
		panic(fmt.Errorf("unsupported dtype %v", dtype))
	}
}

// FromFloats erstellt einen Tensor aus Float32-Werten
func (c *Context) FromFloats(s []float32, shape ...int) ml.Tensor {
	checkShape(s, shape...)
	return newTensor(c.b, ml.DTypeF32, slices.Clone(s), shape)
}

// FromInts erstellt einen Tensor aus Int32-Werten
func (c *Context) FromInts(s []int32, shape ...int) ml.Tensor {
	checkShape(s, shape...)
	return newTensor(c.b, ml.DTypeI32, slices.Clone(s), shape)
}

// Arange erstellt einen Tensor mit aufsteigenden Werten
func (c *Context) Arange(start, stop, step float32, dtype ml.DType) ml.Tensor {
	switch dtype {
	case ml.DTypeF32:
		arange := make([]float32, 0, int((stop-start)/step))
		for i := start; i < stop; i += step {
			arange = append(arange, i)
		}

		return c.FromFloats(arange, len(arange))
	case ml.DTypeI32:
		arange := make([]int32, 0, int((stop-start)/step))
		for i := start; i < stop; i += step {
			arange = append(arange, int32(i))
		}

		return c.FromInts(arange, len(arange))
	default:
		panic("unsupported dtype for arange")
	}
}

func (c *Context) Close() {}
