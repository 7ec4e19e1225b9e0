package region

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tedll/tedll/ml/nn/pooling"
)

func TestWindowPool(t *testing.T) {
	tests := []struct {
		merge pooling.Type
		want  []float32
	}{
		{pooling.TypeSum, []float32{3, 6, 9, 6, 9, 12, 9, 12, 15}},
		{pooling.TypeMean, []float32{1, 2, 3, 2, 3, 4, 3, 4, 5}},
		{pooling.TypeMax, []float32{2, 3, 4, 3, 4, 5, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.merge.String(), func(t *testing.T) {
			b := newTestBackend(t)
			ctx := b.NewContext()

			c := testConfig()
			c.Merge = tt.merge.Merge()
			p, err := NewWindowPool(b, c)
			require.NoError(t, err)
			require.Equal(t, []string{"win_pool_embedding_K", "win_pool_embedding_W"}, b.Variables())

			// W[v, e] = v + e
			p.Embedding.Weight.FromFloats(fill(15, func(i int) float32 { return float32(i/3 + i%3) }))

			out, err := p.Forward(ctx, sequence(ctx, 0, 1, 2, 3, 4))
			require.NoError(t, err)
			checkTensor(t, out, []int{1, 3, 3}, tt.want)
		})
	}
}

func TestWindowPoolWindowOne(t *testing.T) {
	for _, merge := range []pooling.Type{pooling.TypeSum, pooling.TypeMean, pooling.TypeMax} {
		t.Run(merge.String(), func(t *testing.T) {
			b := newTestBackend(t)
			ctx := b.NewContext()

			c := testConfig()
			c.WinSize, c.Merge = 1, merge.Merge()
			p, err := NewWindowPool(b, c)
			require.NoError(t, err)

			p.Embedding.Weight.FromFloats(fill(15, func(i int) float32 { return float32(i/3 + i%3) }))

			// Ein Fenster pro Token gibt die Embeddings unveraendert zurueck
			out, err := p.Forward(ctx, ctx.FromInts([]int32{4, 0, 2, 1, 3, 3}, 2, 3))
			require.NoError(t, err)
			checkTensor(t, out, []int{2, 3, 3}, []float32{4, 5, 6, 0, 1, 2, 2, 3, 4, 1, 2, 3, 3, 4, 5, 3, 4, 5})
		})
	}
}

func TestWindowPoolBatch(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	c := testConfig()
	c.Merge = pooling.TypeMax.Merge()
	p, err := NewWindowPool(b, c)
	require.NoError(t, err)

	// W[v, e] = v - e
	p.Embedding.Weight.FromFloats(fill(15, func(i int) float32 { return float32(i/3 - i%3) }))

	out, err := p.Forward(ctx, ctx.FromInts([]int32{0, 1, 2, 3, 4, 2, 0, 1}, 2, 4))
	require.NoError(t, err)
	checkTensor(t, out, []int{2, 2, 3}, []float32{
		2, 1, 0, 3, 2, 1,
		4, 3, 2, 2, 1, 0,
	})
}

func TestWindowPoolIgnoresKernel(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	p, err := NewWindowPool(b, testConfig())
	require.NoError(t, err)

	seq := sequence(ctx, 4, 0, 3, 1)
	before, err := p.Forward(ctx, seq)
	require.NoError(t, err)

	p.Kernel.FromFloats(make([]float32, 45))
	after, err := p.Forward(ctx, seq)
	require.NoError(t, err)

	require.Equal(t, before.Floats(), after.Floats())
}

func TestWindowPoolEvenWindow(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	c := testConfig()
	c.WinSize = 2
	p, err := NewWindowPool(b, c)
	require.NoError(t, err)

	out, err := p.Forward(ctx, sequence(ctx, 0, 1, 2, 3, 4))
	require.NoError(t, err)
	checkTensor(t, out, []int{1, 4, 3}, nil)
}

func TestWindowPoolTooShort(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	p, err := NewWindowPool(b, testConfig())
	require.NoError(t, err)

	_, err = p.Forward(ctx, sequence(ctx, 0, 1))
	requireShapeError(t, err)
}
