package region

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/ml/nn/pooling"
	"github.com/tedll/tedll/model"
)

// ContextWordRegion embeds every (token, window offset) pair as its own
// unit row and weights it with the word embedding of the window center.
type ContextWordRegion struct {
	// Units hat vocab_size*win_size Zeilen, Zeile j*vocab_size+id gehoert
	// zu Token id an Fenster-Offset j
	Units *Embedding `param:""`
	Words ml.Tensor  `param:"wordmeb"`

	VocabSize int
	WinSize   int

	// bias[j] = j*vocab_size
	bias  ml.Tensor
	align *WindowAlignment
	merge pooling.MergeFunc
}

// NewContextWordRegion allokiert name+"_W" (Einheiten) und danach name+"_wordmeb"
func NewContextWordRegion(b ml.Backend, c model.Config) (*ContextWordRegion, error) {
	if err := validate(b, c); err != nil {
		return nil, err
	}

	align, err := NewWindowAlignment(c.WinSize)
	if err != nil {
		return nil, err
	}

	if c.VocabSize > math.MaxInt32/c.WinSize {
		return nil, &model.ConfigError{Field: "vocab_size", Value: c.VocabSize, Reason: fmt.Sprintf("times win_size %d exceeds the i32 id range", c.WinSize)}
	}

	name := c.NameOr("embedding")
	init := initializer(c)

	units, err := NewEmbedding(b, name, c.VocabSize*c.WinSize, c.EmbSize, init)
	if err != nil {
		return nil, err
	}

	words, err := b.NewVariable(name+"_wordmeb", init, c.VocabSize, c.EmbSize)
	if err != nil {
		return nil, fmt.Errorf("context word region: %w", err)
	}

	bias := make([]int32, c.WinSize)
	for j := range bias {
		bias[j] = int32(j * c.VocabSize)
	}

	ctx := b.NewContext()
	defer ctx.Close()

	slog.Debug("created layer", "arch", "context_word_region", "name", name, "win_size", c.WinSize)
	return &ContextWordRegion{
		Units:     units,
		Words:     words,
		VocabSize: c.VocabSize,
		WinSize:   c.WinSize,
		bias:      ctx.FromInts(bias, len(bias)),
		align:     align,
		merge:     c.Merge,
	}, nil
}

// shiftedWindows gibt windows + bias zurueck
// Jede ID zeigt danach auf die Zeile ihres Fenster-Offsets in Units.
func (r *ContextWordRegion) shiftedWindows(ctx ml.Context, seq ml.Tensor) (ml.Tensor, error) {
	windows, err := r.align.Forward(ctx, seq)
	if err != nil {
		return nil, err
	}

	if err := checkIDs(seq, r.VocabSize); err != nil {
		return nil, err
	}

	return windows.Add(ctx, r.bias), nil
}

// Forward gibt (batch, length-win+1, emb_size) zurueck
func (r *ContextWordRegion) Forward(ctx ml.Context, seq ml.Tensor) (ml.Tensor, error) {
	shifted, err := r.shiftedWindows(ctx, seq)
	if err != nil {
		return nil, err
	}

	units, err := r.Units.Forward(ctx, shifted)
	if err != nil {
		return nil, err
	}

	trimmed, err := centers(ctx, seq, r.WinSize, shifted.Dim(1))
	if err != nil {
		return nil, err
	}

	words := r.Words.Rows(ctx, trimmed)
	words = words.Reshape(ctx, words.Dim(0), words.Dim(1), 1, words.Dim(2))

	return r.merge(ctx, units.Mul(ctx, words), 2), nil
}
