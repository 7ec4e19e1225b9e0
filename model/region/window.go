package region

import (
	"fmt"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/model"
)

// WindowAlignment splits every sequence into sliding windows of Size
// consecutive ids. Positions outside the sequence are dropped, not padded.
type WindowAlignment struct {
	Size int
}

func NewWindowAlignment(size int) (*WindowAlignment, error) {
	if size < 1 {
		return nil, &model.ConfigError{Field: "win_size", Value: size, Reason: "must be positive"}
	}

	return &WindowAlignment{Size: size}, nil
}

// Forward returns a (batch, length-Size+1, Size) tensor with
// out[b, i, :] = seq[b, i:i+Size]. Sequences shorter than Size fail with a
// *model.ShapeError.
func (w *WindowAlignment) Forward(ctx ml.Context, seq ml.Tensor) (ml.Tensor, error) {
	if err := model.CheckSequence("window alignment", seq, w.Size); err != nil {
		return nil, err
	}

	n := seq.Dim(1) - w.Size + 1
	shifted := make([]ml.Tensor, w.Size)
	for i := range shifted {
		shifted[i] = seq.Slice(ctx, 1, i, i+n, 1)
	}

	return shifted[0].Stack(ctx, 2, shifted[1:]...), nil
}

// Radius is the number of positions trimmed on each side, size/2 rounded down.
func Radius(size int) int {
	return size / 2
}

// centers gibt seq[:, r:L-r] zurueck, die Zentren der Fenster
// Bei geraden Fenstergroessen passt die Anzahl nicht zu den Fenstern.
func centers(ctx ml.Context, seq ml.Tensor, size, windows int) (ml.Tensor, error) {
	r := Radius(size)
	n := seq.Dim(1) - 2*r
	if n < 1 || n != windows {
		return nil, &model.ShapeError{
			Op:     "trim",
			Shape:  seq.Shape(),
			Reason: fmt.Sprintf("%d centers for %d windows of size %d", n, windows, size),
		}
	}

	return seq.Slice(ctx, 1, r, r+n, 1), nil
}
