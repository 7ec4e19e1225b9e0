package region

import (
	"fmt"
	"log/slog"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn/pooling"
	"github.com/tedll/tedll/model"
)

// ContextRegion weights the embeddings of every window with the context
// kernel of the window's center token. Depth is the size of the last kernel
// axis: 1 gates each window position with a scalar, emb_size gates every
// embedding dimension separately.
type ContextRegion struct {
	Embedding *Embedding `param:""`

	// Kernel has shape (vocab_size, win_size, depth)
	Kernel ml.Tensor `param:"K"`

	WinSize int
	Depth   int

	align *WindowAlignment
	merge pooling.MergeFunc
}

// NewScalarRegion creates a ContextRegion with one scalar per window offset.
func NewScalarRegion(b ml.Backend, c model.Config) (*ContextRegion, error) {
	return newContextRegion(b, c, "scalar_region", 1)
}

// NewWordContextRegion creates a ContextRegion with a full emb_size kernel.
func NewWordContextRegion(b ml.Backend, c model.Config) (*ContextRegion, error) {
	return newContextRegion(b, c, "word_context_region", c.EmbSize)
}

func newContextRegion(b ml.Backend, c model.Config, arch string, depth int) (*ContextRegion, error) {
	if err := validate(b, c); err != nil {
		return nil, err
	}

	align, err := NewWindowAlignment(c.WinSize)
	if err != nil {
		return nil, err
	}

	name := c.NameOr(arch + "_embedding")
	init := initializer(c)

	kernel, err := b.NewVariable(name+"_K", init, c.VocabSize, c.WinSize, depth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arch, err)
	}

	emb, err := NewEmbedding(b, name, c.VocabSize, c.EmbSize, init)
	if err != nil {
		return nil, err
	}

	slog.Debug("created layer", "arch", arch, "name", name, "win_size", c.WinSize, "depth", depth)
	return &ContextRegion{
		Embedding: emb,
		Kernel:    kernel,
		WinSize:   c.WinSize,
		Depth:     depth,
		align:     align,
		merge:     c.Merge,
	}, nil
}

// Forward gibt (batch, length-win+1, emb_size) zurueck
func (r *ContextRegion) Forward(ctx ml.Context, seq ml.Tensor) (ml.Tensor, error) {
	return weightedRegion(ctx, seq, r.align, r.Embedding, r.Kernel, r.merge)
}

// weightedRegion ist der gemeinsame Kern aller Kontext-Kernel-Varianten:
//
//	windows = align(seq)                       (B, n, w)
//	emb     = lookup(windows)                  (B, n, w, E)
//	weights = kernel[seq[:, r:L-r]]            (B, n, w, k), k in {1, E}
//	out     = merge(emb * weights, axis=2)     (B, n, E)
func weightedRegion(ctx ml.Context, seq ml.Tensor, align *WindowAlignment, emb *Embedding, kernel ml.Tensor, merge pooling.MergeFunc) (ml.Tensor, error) {
	windows, err := align.Forward(ctx, seq)
	if err != nil {
		return nil, err
	}

	winEmb, err := emb.Forward(ctx, windows)
	if err != nil {
		return nil, err
	}

	trimmed, err := centers(ctx, seq, align.Size, windows.Dim(1))
	if err != nil {
		return nil, err
	}

	weights := kernel.Rows(ctx, trimmed)
	return merge(ctx, winEmb.Mul(ctx, weights), 2), nil
}
