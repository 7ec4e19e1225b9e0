// tensor.go - Tensor-Struktur und Basis-Methoden
// Enthaelt: Tensor struct, Shape, Floats, Ints, FromFloats, FromInts, LogValue

package dense

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pdevine/tensor"

	"github.com/tedll/tedll/ml"
)

// Tensor repraesentiert einen dichten Tensor
// Besitzende Tensoren halten ihre Daten in f32/i32. Views (owner != nil)
// teilen den Speicher des Besitzers und werden beim Lesen materialisiert.
type Tensor struct {
	b     *Backend
	name  string
	dtype ml.DType
	shape []int

	t   *tensor.Dense
	f32 []float32
	i32 []int32

	// owner und bounds (low, high, step je Dimension des Besitzers) sind nur bei Views gesetzt
	owner  *Tensor
	bounds [][3]int
}

// newTensor erstellt einen besitzenden Tensor ueber den gegebenen Daten
func newTensor(b *Backend, dtype ml.DType, backing any, shape []int) *Tensor {
	t := &Tensor{
		b:     b,
		dtype: dtype,
		shape: slices.Clone(shape),
		t:     tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)),
	}

	switch v := backing.(type) {
	case []float32:
		t.f32 = v
	case []int32:
		t.i32 = v
	default:
		panic(fmt.Errorf("unsupported backing %T", backing))
	}

	return t
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// LogValue gibt den Tensor als slog-Wert zurueck
func (t *Tensor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", t.name),
		slog.String("type", t.dtype.String()),
		slog.Any("shape", t.shape),
		slog.Bool("view", t.owner != nil),
	)
}

// Dim gibt die Groesse einer Dimension zurueck
func (t *Tensor) Dim(n int) int {
	return t.shape[n]
}

// Shape gibt die Form des Tensors zurueck
func (t *Tensor) Shape() []int {
	return slices.Clone(t.shape)
}

// DType gibt den Datentyp zurueck
func (t *Tensor) DType() ml.DType {
	return t.dtype
}

// materialize gibt die Daten einer View zusammenhaengend zurueck
func (t *Tensor) materialize() any {
	switch v := t.t.Materialize().Data().(type) {
	case float32:
		return []float32{v}
	case int32:
		return []int32{v}
	default:
		return v
	}
}

// floats gibt die Werte ohne Kopie zurueck, sofern t kein View ist
func (t *Tensor) floats() []float32 {
	if t.dtype != ml.DTypeF32 {
		panic(fmt.Errorf("expected f32 tensor, got %v", t.dtype))
	}

	if t.owner == nil {
		return t.f32
	}

	return t.materialize().([]float32)
}

// ints gibt die Werte ohne Kopie zurueck, sofern t kein View ist
func (t *Tensor) ints() []int32 {
	if t.dtype != ml.DTypeI32 {
		panic(fmt.Errorf("expected i32 tensor, got %v", t.dtype))
	}

	if t.owner == nil {
		return t.i32
	}

	return t.materialize().([]int32)
}

// Floats gibt eine Kopie der Float32-Werte zurueck
func (t *Tensor) Floats() []float32 {
	return slices.Clone(t.floats())
}

// Ints gibt eine Kopie der Int32-Werte zurueck
func (t *Tensor) Ints() []int32 {
	return slices.Clone(t.ints())
}

// FromFloats ueberschreibt die Werte an Ort und Stelle
func (t *Tensor) FromFloats(s []float32) {
	if t.owner != nil {
		panic("cannot write into a view")
	}

	checkShape(s, t.shape...)
	copy(t.floats(), s)
}

// FromInts ueberschreibt die Werte an Ort und Stelle
func (t *Tensor) FromInts(s []int32) {
	if t.owner != nil {
		panic("cannot write into a view")
	}

	checkShape(s, t.shape...)
	copy(t.ints(), s)
}
