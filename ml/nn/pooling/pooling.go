// Package pooling - Merge-Funktionen ueber eine Achse
//
// Eine Merge-Funktion reduziert einen Tensor entlang einer Achse und
// entfernt diese Achse aus der Shape. Region-Embeddings verwenden sie,
// um die Fenster-Achse zusammenzufassen.
package pooling

import (
	"fmt"
	"strings"

	"github.com/tedll/tedll/ml"
)

// MergeFunc reduces t along axis and returns a tensor without that axis.
type MergeFunc func(ctx ml.Context, t ml.Tensor, axis int) ml.Tensor

type Type uint32

const (
	TypeNone Type = iota
	TypeSum
	TypeMean
	TypeMax
)

func (t Type) String() string {
	switch t {
	case TypeSum:
		return "sum"
	case TypeMean:
		return "mean"
	case TypeMax:
		return "max"
	default:
		return "none"
	}
}

// ParseType gibt den Pooling-Typ zu einem Namen zurueck
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return TypeSum, nil
	case "mean", "avg":
		return TypeMean, nil
	case "max":
		return TypeMax, nil
	default:
		return TypeNone, fmt.Errorf("unknown pooling type %q", s)
	}
}

// Forward reduziert t entlang axis
func (t Type) Forward(ctx ml.Context, tensor ml.Tensor, axis int) ml.Tensor {
	switch t {
	case TypeSum:
		return tensor.Sum(ctx, axis)
	case TypeMean:
		return tensor.Mean(ctx, axis)
	case TypeMax:
		return tensor.Max(ctx, axis)
	default:
		panic(fmt.Errorf("unsupported pooling type %v", t))
	}
}

// Merge gibt die Merge-Funktion des Typs zurueck, nil fuer TypeNone
func (t Type) Merge() MergeFunc {
	if t == TypeNone {
		return nil
	}

	return t.Forward
}
