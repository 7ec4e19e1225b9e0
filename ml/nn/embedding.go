package nn

import "github.com/tedll/tedll/ml"

type Embedding struct {
	Weight ml.Tensor `param:"W"`
}

func (m *Embedding) Forward(ctx ml.Context, hiddenState ml.Tensor) ml.Tensor {
	return m.Weight.Rows(ctx, hiddenState)
}
