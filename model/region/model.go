package region

import (
	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/model"
)

func init() {
	model.Register("embedding", single(newEmbeddingLayer))
	model.Register("window_pool", single(NewWindowPool))
	model.Register("scalar_region", single(NewScalarRegion))
	model.Register("word_context_region", single(NewWordContextRegion))
	model.Register("context_word_region", single(NewContextWordRegion))
	model.Register("multi_region", func(b ml.Backend, c model.Config) (model.Model, error) {
		m, err := NewMultiRegion(b, c)
		if err != nil {
			return nil, err
		}

		return m, nil
	})
}

// single passt einen Konstruktor fuer Layer mit einer Ausgabe an
func single[L model.Layer](f func(ml.Backend, model.Config) (L, error)) func(ml.Backend, model.Config) (model.Model, error) {
	return func(b ml.Backend, c model.Config) (model.Model, error) {
		l, err := f(b, c)
		if err != nil {
			return nil, err
		}

		return model.Single(l), nil
	}
}

func newEmbeddingLayer(b ml.Backend, c model.Config) (*Embedding, error) {
	return NewEmbedding(b, c.NameOr("embedding"), c.VocabSize, c.EmbSize, c.Initializer)
}
