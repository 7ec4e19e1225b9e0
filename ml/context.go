// context.go - Context und Tensor Interfaces fuer ML-Operationen
// Dieses Modul definiert die Schnittstellen fuer Tensor-Operationen und Compute-Kontexte.
//
// Shapes werden von aussen nach innen angegeben (row-major), die letzte
// Dimension ist zusammenhaengend im Speicher.
package ml

// Context represents an execution context for tensor operations.
type Context interface {
	Empty(dtype DType, shape ...int) Tensor
	Zeros(dtype DType, shape ...int) Tensor
	FromFloats(s []float32, shape ...int) Tensor
	FromInts(s []int32, shape ...int) Tensor

	// Arange creates a 1D tensor with values within an interval [start, stop) increased by step.
	Arange(start, stop, step float32, dtype DType) Tensor

	Close()
}

// Tensor represents a multi-dimensional array with various operations.
//
// Operations panic on invalid arguments (mismatched shapes, wrong dtypes,
// out of range indices). Callers validate user input before reaching the
// substrate.
type Tensor interface {
	Dim(n int) int
	Shape() []int
	DType() DType

	Floats() []float32
	Ints() []int32

	// FromFloats and FromInts overwrite the values in place. Views created
	// from this tensor observe the new values.
	FromFloats([]float32)
	FromInts([]int32)

	// Add and Mul broadcast their operands numpy-style.
	Add(ctx Context, t2 Tensor) Tensor
	Mul(ctx Context, t2 Tensor) Tensor
	Scale(ctx Context, s float64) Tensor

	// Sum, Mean and Max reduce along dim and remove it from the shape.
	Sum(ctx Context, dim int) Tensor
	Mean(ctx Context, dim int) Tensor
	Max(ctx Context, dim int) Tensor

	Reshape(ctx Context, shape ...int) Tensor

	// Slice returns a view of the elements [low, high) with the given step
	// along dim. The view shares storage with t.
	Slice(ctx Context, dim, low, high, step int) Tensor

	// Stack stacks t and s along a new dimension inserted at dim.
	Stack(ctx Context, dim int, s ...Tensor) Tensor

	// Rows gathers rows of t (along the first dimension) by the int32 indices
	// in t2. The result has shape t2.Shape() followed by t.Shape()[1:].
	Rows(ctx Context, t2 Tensor) Tensor

	Contiguous(ctx Context) Tensor
}
