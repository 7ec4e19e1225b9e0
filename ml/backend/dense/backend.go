// backend.go - Backend-Struktur und Variablen-Speicher
// Enthaelt: Backend struct, init(), New, NewVariable, Get, Variables, Close
//
// Das dense-Backend rechnet eager auf der CPU. Variablen werden in einer
// geordneten Map gehalten, damit Auflistungen der Erstellungsreihenfolge folgen.

package dense

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/rand"

	"github.com/tedll/tedll/ml"
)

func init() {
	ml.RegisterBackend("dense", New)
}

// Backend ist die reine Go-Implementierung von ml.Backend
type Backend struct {
	// mu schuetzt variables und src
	mu        sync.Mutex
	src       rand.Source
	variables *orderedmap.OrderedMap[string, *Tensor]
}

// New erstellt ein neues Backend mit der Seed aus params
func New(params ml.BackendParams) (ml.Backend, error) {
	return &Backend{
		src:       rand.NewSource(params.Seed),
		variables: orderedmap.New[string, *Tensor](),
	}, nil
}

// Close gibt alle Variablen frei
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.variables = orderedmap.New[string, *Tensor]()
}

// NewVariable erstellt eine benannte Variable und befuellt sie mit init
// Ohne Initialisierer wird ml.DefaultInitializer verwendet.
func (b *Backend) NewVariable(name string, init ml.Initializer, shape ...int) (ml.Tensor, error) {
	if len(shape) == 0 || slices.ContainsFunc(shape, func(d int) bool { return d < 1 }) {
		return nil, fmt.Errorf("variable %q: invalid shape %v", name, shape)
	}

	if init == nil {
		init = ml.DefaultInitializer()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.variables.Get(name); ok {
		return nil, ml.ErrNameConflict{Name: name}
	}

	data := make([]float32, numel(shape))
	init.Fill(b.src, slices.Clone(shape), data)

	t := newTensor(b, ml.DTypeF32, data, shape)
	t.name = name
	b.variables.Set(name, t)

	slog.Debug("created variable", "name", name, "shape", shape)
	return t, nil
}

// Get gibt die Variable mit dem Namen zurueck oder nil
func (b *Backend) Get(name string) ml.Tensor {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.variables.Get(name); ok {
		return t
	}

	return nil
}

// Variables gibt die Variablennamen in Erstellungsreihenfolge zurueck
func (b *Backend) Variables() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, b.variables.Len())
	for pair := b.variables.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// NewContext erstellt einen neuen Kontext fuer Zwischenergebnisse
func (b *Backend) NewContext() ml.Context {
	return &Context{b: b}
}
