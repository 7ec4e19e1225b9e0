package region

import (
	"fmt"
	"log/slog"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn/pooling"
	"github.com/tedll/tedll/model"
)

// WindowPool pools the token embeddings of every window with the merge
// function. It has no context kernel in its computation.
type WindowPool struct {
	Embedding *Embedding `param:""`

	// Kernel is allocated for parameter parity with the other variants and
	// is never read.
	Kernel ml.Tensor `param:"K"`

	WinSize int

	align *WindowAlignment
	merge pooling.MergeFunc
}

// NewWindowPool allokiert name+"_K" und danach name+"_W"
func NewWindowPool(b ml.Backend, c model.Config) (*WindowPool, error) {
	if err := validate(b, c); err != nil {
		return nil, err
	}

	align, err := NewWindowAlignment(c.WinSize)
	if err != nil {
		return nil, err
	}

	name := c.NameOr("win_pool_embedding")
	init := initializer(c)

	kernel, err := b.NewVariable(name+"_K", init, c.VocabSize, c.WinSize, c.EmbSize)
	if err != nil {
		return nil, fmt.Errorf("window pool: %w", err)
	}

	emb, err := NewEmbedding(b, name, c.VocabSize, c.EmbSize, init)
	if err != nil {
		return nil, err
	}

	slog.Debug("created layer", "arch", "window_pool", "name", name, "win_size", c.WinSize)
	return &WindowPool{
		Embedding: emb,
		Kernel:    kernel,
		WinSize:   c.WinSize,
		align:     align,
		merge:     c.Merge,
	}, nil
}

// Forward gibt (batch, length-win+1, emb_size) zurueck
func (p *WindowPool) Forward(ctx ml.Context, seq ml.Tensor) (ml.Tensor, error) {
	windows, err := p.align.Forward(ctx, seq)
	if err != nil {
		return nil, err
	}

	emb, err := p.Embedding.Forward(ctx, windows)
	if err != nil {
		return nil, err
	}

	return p.merge(ctx, emb, 2), nil
}
