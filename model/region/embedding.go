package region

import (
	"fmt"
	"log/slog"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn"
	"github.com/tedll/tedll/model"
)

// Embedding ist die Lookup-Tabelle (vocab_size, emb_size) aller Varianten
type Embedding struct {
	nn.Embedding `param:""`

	VocabSize int
	EmbSize   int
}

// NewEmbedding allokiert die Tabelle name+"_W"
// Ohne Initialisierer wird ml.DefaultInitializer verwendet.
func NewEmbedding(b ml.Backend, name string, vocabSize, embSize int, init ml.Initializer) (*Embedding, error) {
	if b == nil {
		return nil, &model.ConfigError{Field: "backend", Reason: "must not be nil"}
	}
	if vocabSize < 1 {
		return nil, &model.ConfigError{Field: "vocab_size", Value: vocabSize, Reason: "must be positive"}
	}
	if embSize < 1 {
		return nil, &model.ConfigError{Field: "emb_size", Value: embSize, Reason: "must be positive"}
	}
	if init == nil {
		init = ml.DefaultInitializer()
	}

	w, err := b.NewVariable(name+"_W", init, vocabSize, embSize)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	slog.Debug("created embedding", "name", name, "vocab_size", vocabSize, "emb_size", embSize)
	return &Embedding{
		Embedding: nn.Embedding{Weight: w},
		VocabSize: vocabSize,
		EmbSize:   embSize,
	}, nil
}

// Forward gibt die Embeddings der IDs zurueck
// Die Shape der IDs bleibt erhalten, emb_size wird angehaengt.
func (e *Embedding) Forward(ctx ml.Context, ids ml.Tensor) (ml.Tensor, error) {
	if ids.DType() != ml.DTypeI32 {
		return nil, &model.ShapeError{Op: "embedding", Shape: ids.Shape(), Reason: fmt.Sprintf("expected i32 token ids, got %v", ids.DType())}
	}

	if err := checkIDs(ids, e.VocabSize); err != nil {
		return nil, err
	}

	return e.Embedding.Forward(ctx, ids), nil
}

// checkIDs prueft, dass alle IDs in [0, limit) liegen
func checkIDs(ids ml.Tensor, limit int) error {
	for _, id := range ids.Ints() {
		if id < 0 || int(id) >= limit {
			return &model.RangeError{ID: id, Limit: limit}
		}
	}

	return nil
}
