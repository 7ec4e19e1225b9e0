package region

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/model"
)

func multiConfig() model.Config {
	c := testConfig()
	c.EmbSize = 2
	c.WinSizes = []int{5, 3}
	return c
}

func TestMultiRegionKernels(t *testing.T) {
	b := newTestBackend(t)

	m, err := NewMultiRegion(b, multiConfig())
	require.NoError(t, err)
	require.Equal(t, []string{"multi_region_embedding_K_1", "multi_region_embedding_W"}, b.Variables())
	require.Equal(t, []int{3, 5}, m.WinSizes)
	require.Equal(t, []int{5, 5, 2}, m.Kernel.Shape())

	require.Len(t, m.Kernels, 2)
	require.Equal(t, 1, m.Kernels[0].Offset)
	require.Equal(t, 3, m.Kernels[0].Size)
	require.Equal(t, []int{5, 3, 2}, m.Kernels[0].Shape())
	require.Equal(t, 0, m.Kernels[1].Offset)
	require.Equal(t, 5, m.Kernels[1].Size)

	// Schreiben in den Besitzer ist in allen Views sichtbar
	m.Kernel.FromFloats(fill(50, func(i int) float32 { return float32(i) }))

	var want []float32
	for v := range 5 {
		for j := 1; j < 4; j++ {
			for e := range 2 {
				want = append(want, float32(v*10+j*2+e))
			}
		}
	}

	require.Equal(t, want, m.Kernels[0].Floats())
	require.Equal(t, m.Kernel.Floats(), m.Kernels[1].Floats())
}

func TestMultiRegionForward(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	m, err := NewMultiRegion(b, multiConfig())
	require.NoError(t, err)

	seq := sequence(ctx, 0, 4, 1, 3, 2, 2, 1)
	out, err := m.Forward(ctx, seq)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Jede Fenstergroesse entspricht einem WordContextRegion mit dem
	// zugehoerigen Teil des Kernels
	for i, size := range m.WinSizes {
		ref := newTestBackend(t)

		c := multiConfig()
		c.WinSize = size
		r, err := NewWordContextRegion(ref, c)
		require.NoError(t, err)

		r.Kernel.FromFloats(m.Kernels[i].Floats())
		r.Embedding.Weight.FromFloats(m.Embedding.Weight.Floats())

		refCtx := ref.NewContext()
		want, err := r.Forward(refCtx, refCtx.FromInts(seq.Ints(), seq.Shape()...))
		require.NoError(t, err)

		checkTensor(t, out[i], []int{1, 7 - size + 1, 2}, want.Floats())
	}
}

func TestMultiRegionSingleSize(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	c := multiConfig()
	c.WinSizes = []int{3}
	m, err := NewMultiRegion(b, c)
	require.NoError(t, err)
	require.Equal(t, []string{"multi_region_embedding_K_0", "multi_region_embedding_W"}, b.Variables())

	out, err := m.Forward(ctx, sequence(ctx, 0, 1, 2))
	require.NoError(t, err)
	require.Len(t, out, 1)
	checkTensor(t, out[0], []int{1, 1, 2}, nil)
}

func TestMultiRegionWindowOne(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	c := multiConfig()
	c.WinSizes = []int{1, 3}
	m, err := NewMultiRegion(b, c)
	require.NoError(t, err)
	require.Equal(t, 1, m.Kernels[0].Offset)
	require.Equal(t, []int{5, 1, 2}, m.Kernels[0].Shape())

	// K[v, j, e] = j + 1, W[v, e] = v + e
	m.Kernel.FromFloats(fill(30, func(i int) float32 { return float32((i/2)%3 + 1) }))
	m.Embedding.Weight.FromFloats(fill(10, func(i int) float32 { return float32(i/2 + i%2) }))

	out, err := m.Forward(ctx, sequence(ctx, 0, 1, 2, 3))
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Fenster 1 liest nur die mittlere Spalte des Kernels
	checkTensor(t, out[0], []int{1, 4, 2}, []float32{0, 2, 2, 4, 4, 6, 6, 8})
	checkTensor(t, out[1], []int{1, 2, 2}, []float32{8, 14, 14, 20})
}

func TestMultiRegionTooShort(t *testing.T) {
	b := newTestBackend(t)
	ctx := b.NewContext()

	m, err := NewMultiRegion(b, multiConfig())
	require.NoError(t, err)

	// Laenge 4 reicht fuer Fenster 3, nicht fuer Fenster 5
	_, err = m.Forward(ctx, sequence(ctx, 0, 1, 2, 3))
	requireShapeError(t, err)
	require.Contains(t, err.Error(), "window size 5")
}

func TestMultiRegionConfigErrors(t *testing.T) {
	b := newTestBackend(t)

	c := multiConfig()
	c.WinSizes = nil
	_, err := NewMultiRegion(b, c)
	requireConfigError(t, err, "win_sizes")

	c.WinSizes = []int{3, 0}
	_, err = NewMultiRegion(b, c)
	requireConfigError(t, err, "win_size")

	require.Empty(t, b.Variables())
}

func TestMultiRegionParameters(t *testing.T) {
	b := newTestBackend(t)

	m, err := NewMultiRegion(b, multiConfig())
	require.NoError(t, err)

	params := model.Parameters(m)
	require.Len(t, params, 2)
	require.Equal(t, "W", params[0].Name)
	require.Equal(t, "K", params[1].Name)

	// Views zaehlen nicht als eigene Parameter
	require.Equal(t, 5*2+5*5*2, model.ParameterCount(m))
}

func TestMultiRegionDoesNotSortCallerSizes(t *testing.T) {
	b := newTestBackend(t)

	sizes := []int{5, 3}
	c := multiConfig()
	c.WinSizes = sizes
	_, err := NewMultiRegion(b, c)
	require.NoError(t, err)
	require.Equal(t, []int{5, 3}, sizes)
}

var _ ml.Tensor = KernelView{}
