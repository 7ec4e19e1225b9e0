// initializer.go - Initialisierer fuer Variablen
// Dieses Modul enthaelt:
// - Initializer: Schnittstelle zum Befuellen neuer Variablen
// - VarianceScaling: Fan-basierte Initialisierung (Default)
// - Constant/Values: feste Werte, vor allem fuer Tests und Tools
package ml

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer produces the initial values of a variable with the given shape.
// dst has exactly the number of elements described by shape.
type Initializer interface {
	Fill(src rand.Source, shape []int, dst []float32)
}

// InitializerFunc adapts a function to the Initializer interface
type InitializerFunc func(src rand.Source, shape []int, dst []float32)

func (f InitializerFunc) Fill(src rand.Source, shape []int, dst []float32) {
	f(src, shape, dst)
}

// FanMode selects the fan used by VarianceScaling
type FanMode int

const (
	FanIn FanMode = iota
	FanOut
	FanAvg
)

// VarianceScaling draws values whose variance is scaled by the fan of the
// variable. Without Uniform the values come from a normal distribution with
// stddev sqrt(1.3*Factor/n), truncated at two standard deviations. With
// Uniform they come from [-sqrt(3*Factor/n), sqrt(3*Factor/n)].
type VarianceScaling struct {
	// Factor 0 bedeutet 2.0
	Factor  float64
	Mode    FanMode
	Uniform bool
}

// DefaultInitializer gibt den Standard-Initialisierer zurueck (Factor 2, FanIn, normal)
func DefaultInitializer() Initializer {
	return VarianceScaling{Factor: 2, Mode: FanIn}
}

// fans berechnet fan_in und fan_out einer Shape
// Fuehrende Dimensionen (alle ausser den letzten zwei) multiplizieren beide.
func fans(shape []int) (fanIn, fanOut float64) {
	if len(shape) == 0 {
		return 1, 1
	}

	fanOut = float64(shape[len(shape)-1])
	fanIn = fanOut
	if len(shape) > 1 {
		fanIn = float64(shape[len(shape)-2])
	}

	for i := 0; i < len(shape)-2; i++ {
		fanIn *= float64(shape[i])
		fanOut *= float64(shape[i])
	}

	return fanIn, fanOut
}

func (v VarianceScaling) Fill(src rand.Source, shape []int, dst []float32) {
	factor := v.Factor
	if factor == 0 {
		factor = 2
	}

	fanIn, fanOut := fans(shape)
	n := fanIn
	switch v.Mode {
	case FanOut:
		n = fanOut
	case FanAvg:
		n = (fanIn + fanOut) / 2
	}

	if v.Uniform {
		limit := math32.Sqrt(float32(3 * factor / n))
		d := distuv.Uniform{Min: -float64(limit), Max: float64(limit), Src: src}
		for i := range dst {
			dst[i] = float32(d.Rand())
		}
		return
	}

	sigma := math32.Sqrt(float32(1.3 * factor / n))
	d := distuv.Normal{Mu: 0, Sigma: float64(sigma), Src: src}
	for i := range dst {
		x := float32(d.Rand())
		for math32.Abs(x) > 2*sigma {
			x = float32(d.Rand())
		}
		dst[i] = x
	}
}

// Constant fills every element with the same value
type Constant float32

func (c Constant) Fill(_ rand.Source, _ []int, dst []float32) {
	for i := range dst {
		dst[i] = float32(c)
	}
}

// Values fills a variable with explicit values in row-major order
type Values []float32

func (v Values) Fill(_ rand.Source, shape []int, dst []float32) {
	if len(v) != len(dst) {
		panic(fmt.Errorf("initializer: %d values for shape %v", len(v), shape))
	}

	copy(dst, v)
}
