// types.go - Datentypen fuer Tensor-Elemente
// Dieses Modul definiert DType und die Namen der unterstuetzten Typen.
package ml

// DType represents the data type of tensor elements.
type DType int

const (
	DTypeOther DType = iota
	DTypeF32
	DTypeI32
)

// String gibt den Namen des Datentyps zurueck
func (d DType) String() string {
	switch d {
	case DTypeF32:
		return "f32"
	case DTypeI32:
		return "i32"
	default:
		return "other"
	}
}
