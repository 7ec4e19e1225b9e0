package region

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn/pooling"
	"github.com/tedll/tedll/model"
)

// KernelView is the part of the largest context kernel used by one window
// size: Owner[:, Offset:Offset+Size, :]. The view shares storage with Owner,
// updates to Owner are visible through it.
type KernelView struct {
	ml.Tensor

	Owner  ml.Tensor
	Offset int
	Size   int
}

// MultiRegion computes region embeddings for several window sizes at once.
// All sizes share the embedding table and the context kernel of the largest
// size.
type MultiRegion struct {
	Embedding *Embedding `param:""`

	// Kernel is the owning kernel (vocab_size, max(WinSizes), emb_size)
	Kernel ml.Tensor `param:"K"`

	// Kernels und WinSizes sind aufsteigend sortiert
	Kernels  []KernelView
	WinSizes []int

	aligns []*WindowAlignment
	merge  pooling.MergeFunc
}

// NewMultiRegion allokiert name+"_K_<n-1>" und danach name+"_W"
func NewMultiRegion(b ml.Backend, c model.Config) (*MultiRegion, error) {
	if err := validate(b, c); err != nil {
		return nil, err
	}

	if len(c.WinSizes) == 0 {
		return nil, &model.ConfigError{Field: "win_sizes", Reason: "must not be empty"}
	}

	sizes := slices.Clone(c.WinSizes)
	slices.Sort(sizes)

	aligns := make([]*WindowAlignment, len(sizes))
	for i, size := range sizes {
		align, err := NewWindowAlignment(size)
		if err != nil {
			return nil, err
		}
		aligns[i] = align
	}

	name := c.NameOr("multi_region_embedding")
	init := initializer(c)
	largest := sizes[len(sizes)-1]

	kernel, err := b.NewVariable(fmt.Sprintf("%s_K_%d", name, len(sizes)-1), init, c.VocabSize, largest, c.EmbSize)
	if err != nil {
		return nil, fmt.Errorf("multi region: %w", err)
	}

	emb, err := NewEmbedding(b, name, c.VocabSize, c.EmbSize, init)
	if err != nil {
		return nil, err
	}

	ctx := b.NewContext()
	defer ctx.Close()

	kernels := make([]KernelView, len(sizes))
	for i, size := range sizes {
		view := KernelView{Tensor: kernel, Owner: kernel, Size: size}
		if i < len(sizes)-1 {
			view.Offset = Radius(largest) - Radius(size)
			view.Tensor = kernel.Slice(ctx, 1, view.Offset, view.Offset+size, 1)
		}
		kernels[i] = view
	}

	slog.Debug("created layer", "arch", "multi_region", "name", name, "win_sizes", sizes)
	return &MultiRegion{
		Embedding: emb,
		Kernel:    kernel,
		Kernels:   kernels,
		WinSizes:  sizes,
		aligns:    aligns,
		merge:     c.Merge,
	}, nil
}

// Forward returns one (batch, length-size+1, emb_size) tensor per window
// size in ascending order. The outputs are not merged across sizes.
func (m *MultiRegion) Forward(ctx ml.Context, seq ml.Tensor) ([]ml.Tensor, error) {
	regions := make([]ml.Tensor, len(m.Kernels))
	for i, kernel := range m.Kernels {
		t, err := weightedRegion(ctx, seq, m.aligns[i], m.Embedding, kernel.Tensor, m.merge)
		if err != nil {
			return nil, fmt.Errorf("window size %d: %w", kernel.Size, err)
		}
		regions[i] = t
	}

	return regions, nil
}
