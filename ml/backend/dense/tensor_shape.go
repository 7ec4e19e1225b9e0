// tensor_shape.go - Shape-Operationen fuer Tensoren
// Enthaelt: Reshape, Slice, Stack, Rows, Contiguous

package dense

import (
	"fmt"
	"slices"

	"github.com/pdevine/tensor"

	"github.com/tedll/tedll/ml"
)

// inferShape ersetzt ein -1 in shape durch die passende Groesse
func inferShape(t *Tensor, shape []int) []int {
	shape = slices.Clone(shape)
	if i := slices.Index(shape, -1); i >= 0 {
		rest := 1
		for j, d := range shape {
			if j != i {
				rest *= d
			}
		}
		shape[i] = numel(t.shape) / rest
	}

	if numel(shape) != numel(t.shape) {
		panic(fmt.Errorf("cannot reshape %v to %v", t.shape, shape))
	}

	return shape
}

// Contiguous erstellt eine zusammenhaengende, besitzende Kopie
func (t *Tensor) Contiguous(ctx ml.Context) ml.Tensor {
	switch t.dtype {
	case ml.DTypeF32:
		return newTensor(t.b, t.dtype, slices.Clone(t.floats()), t.shape)
	case ml.DTypeI32:
		return newTensor(t.b, t.dtype, slices.Clone(t.ints()), t.shape)
	default:
		panic(fmt.Errorf("unsupported dtype %v", t.dtype))
	}
}

// Reshape aendert die Form des Tensors ohne Datenkopie
// Views werden vorher mit Contiguous kopiert.
func (t *Tensor) Reshape(ctx ml.Context, shape ...int) ml.Tensor {
	if t.owner != nil {
		return t.Contiguous(ctx).Reshape(ctx, shape...)
	}

	shape = inferShape(t, shape)
	switch t.dtype {
	case ml.DTypeF32:
		return newTensor(t.b, t.dtype, t.f32, shape)
	default:
		return newTensor(t.b, t.dtype, t.i32, shape)
	}
}

// Slice erstellt eine View auf [low, high) mit Schrittweite step entlang dim
// Views von Views werden direkt auf dem Besitzer angelegt.
func (t *Tensor) Slice(ctx ml.Context, dim, low, high, step int) ml.Tensor {
	if dim < 0 || dim >= len(t.shape) || low < 0 || high > t.shape[dim] || low >= high || step < 1 {
		panic(fmt.Errorf("invalid slice [%d:%d:%d] of dim %d for shape %v", low, high, step, dim, t.shape))
	}

	owner, bounds := t, make([][3]int, len(t.shape))
	if t.owner != nil {
		owner, bounds = t.owner, slices.Clone(t.bounds)
	} else {
		for i, d := range t.shape {
			bounds[i] = [3]int{0, d, 1}
		}
	}

	b := bounds[dim]
	bounds[dim] = [3]int{b[0] + low*b[2], b[0] + (high-1)*b[2] + 1, b[2] * step}

	// nil bedeutet die volle Achse
	ss := make([]tensor.Slice, len(bounds))
	for i, b := range bounds {
		if b != [3]int{0, owner.shape[i], 1} {
			ss[i] = tensor.S(b[0], b[1], b[2])
		}
	}

	v, err := owner.t.Slice(ss...)
	if err != nil {
		panic(err)
	}

	shape := slices.Clone(t.shape)
	shape[dim] = (high - low + step - 1) / step

	return &Tensor{
		b:      t.b,
		name:   t.name,
		dtype:  t.dtype,
		shape:  shape,
		t:      v.(*tensor.Dense),
		owner:  owner,
		bounds: bounds,
	}
}

// stack fuegt gleich geformte Bloecke entlang einer neuen Achse zusammen
func stack[T float32 | int32](parts [][]T, shape []int, dim int) []T {
	inner := numel(shape[dim:])
	outer := numel(shape[:dim])

	dst := make([]T, 0, inner*outer*len(parts))
	for o := range outer {
		for _, p := range parts {
			dst = append(dst, p[o*inner:(o+1)*inner]...)
		}
	}

	return dst
}

// Stack stapelt t und s entlang einer neuen Dimension an Position dim
func (t *Tensor) Stack(ctx ml.Context, dim int, s ...ml.Tensor) ml.Tensor {
	if dim < 0 || dim > len(t.shape) {
		panic(fmt.Errorf("invalid dimension %d for shape %v", dim, t.shape))
	}

	all := make([]*Tensor, 0, len(s)+1)
	all = append(all, t)
	for _, st := range s {
		o := st.(*Tensor)
		if o.dtype != t.dtype || !slices.Equal(o.shape, t.shape) {
			panic(fmt.Errorf("cannot stack %v %v with %v %v", t.dtype, t.shape, o.dtype, o.shape))
		}
		all = append(all, o)
	}

	shape := slices.Insert(slices.Clone(t.shape), dim, len(all))
	switch t.dtype {
	case ml.DTypeF32:
		parts := make([][]float32, len(all))
		for i, p := range all {
			parts[i] = p.floats()
		}
		return newTensor(t.b, t.dtype, stack(parts, t.shape, dim), shape)
	case ml.DTypeI32:
		parts := make([][]int32, len(all))
		for i, p := range all {
			parts[i] = p.ints()
		}
		return newTensor(t.b, t.dtype, stack(parts, t.shape, dim), shape)
	default:
		panic(fmt.Errorf("unsupported dtype %v", t.dtype))
	}
}

// gather kopiert die Zeilen ids aus table
func gather[T float32 | int32](table []T, rows, rowSize int, ids []int32) []T {
	dst := make([]T, 0, len(ids)*rowSize)
	for _, id := range ids {
		if id < 0 || int(id) >= rows {
			panic(fmt.Errorf("row %d out of range [0, %d)", id, rows))
		}
		dst = append(dst, table[int(id)*rowSize:(int(id)+1)*rowSize]...)
	}

	return dst
}

// Rows gibt Zeilen nach Indizes zurueck (Embedding-Lookup)
func (t *Tensor) Rows(ctx ml.Context, t2 ml.Tensor) ml.Tensor {
	ids := t2.(*Tensor)
	shape := append(ids.Shape(), t.shape[1:]...)
	rowSize := numel(t.shape[1:])

	switch t.dtype {
	case ml.DTypeF32:
		return newTensor(t.b, t.dtype, gather(t.floats(), t.shape[0], rowSize, ids.ints()), shape)
	case ml.DTypeI32:
		return newTensor(t.b, t.dtype, gather(t.ints(), t.shape[0], rowSize, ids.ints()), shape)
	default:
		panic(fmt.Errorf("unsupported dtype %v", t.dtype))
	}
}
