// Package model - Layer-Interface, Konfiguration und Registrierung
//
// Dieses Paket definiert die Schnittstellen der Embedding-Layer und
// stellt Funktionen zur Erstellung registrierter Architekturen bereit.
//
// Hauptkomponenten:
// - Layer/Model: Interfaces fuer Layer mit einer bzw. mehreren Ausgaben
// - Config: Konstruktionsparameter aller Architekturen
// - Register/New: Registrierung und Erstellung nach Architektur-Name
// - Forward: Prueft die Eingabe und fuehrt den Vorwaerts-Pass durch

package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/tedll/tedll/ml"
	_ "github.com/tedll/tedll/ml/backend"
	"github.com/tedll/tedll/ml/nn/pooling"
)

// Fehler-Definitionen
var ErrUnsupportedModel = errors.New("model not supported")

// Layer ist ein Embedding-Layer mit genau einer Ausgabe
type Layer interface {
	Forward(ml.Context, ml.Tensor) (ml.Tensor, error)
}

// Model ist ein Embedding-Layer mit einer Ausgabe pro Fenstergroesse
type Model interface {
	Forward(ml.Context, ml.Tensor) ([]ml.Tensor, error)
}

// Config enthaelt die Konstruktionsparameter eines Layers
type Config struct {
	// Name ist das Praefix aller Variablen des Layers. Leer bedeutet
	// den Standardnamen der Architektur.
	Name string

	VocabSize int
	EmbSize   int

	// WinSize wird von Layern mit einer Fenstergroesse verwendet,
	// WinSizes von MultiRegion.
	WinSize  int
	WinSizes []int

	// Merge reduziert die Fenster-Achse und muss gesetzt sein
	Merge pooling.MergeFunc

	// Initializer ist optional, Default ist ml.DefaultInitializer
	Initializer ml.Initializer
}

// NameOr gibt c.Name zurueck oder def, falls kein Name gesetzt ist
func (c Config) NameOr(def string) string {
	if c.Name != "" {
		return c.Name
	}

	return def
}

// single passt einen Layer an das Model-Interface an
type single struct {
	Layer Layer `param:""`
}

func (s single) Forward(ctx ml.Context, seq ml.Tensor) ([]ml.Tensor, error) {
	t, err := s.Layer.Forward(ctx, seq)
	if err != nil {
		return nil, err
	}

	return []ml.Tensor{t}, nil
}

// Single macht aus einem Layer ein Model mit einer Ausgabe
func Single(l Layer) Model {
	return single{Layer: l}
}

// models speichert registrierte Konstruktoren
var models = make(map[string]func(ml.Backend, Config) (Model, error))

// Register registriert einen Konstruktor fuer eine Architektur
func Register(name string, f func(ml.Backend, Config) (Model, error)) {
	if _, ok := models[name]; ok {
		panic("model: model already registered")
	}

	models[name] = f
}

// Architectures gibt die registrierten Architekturen sortiert zurueck
func Architectures() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// suggest gibt die registrierte Architektur mit dem kleinsten Editierabstand zurueck
func suggest(arch string) string {
	best, dist := "", -1
	for _, name := range Architectures() {
		if d := levenshtein.ComputeDistance(arch, name); dist < 0 || d < dist {
			best, dist = name, d
		}
	}

	return best
}

// New erstellt einen Layer der Architektur arch auf dem Backend b
func New(arch string, b ml.Backend, c Config) (Model, error) {
	f, ok := models[arch]
	if !ok {
		if s := suggest(arch); s != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnsupportedModel, arch, s)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, arch)
	}

	if b == nil {
		return nil, &ConfigError{Field: "backend", Reason: "must not be nil"}
	}

	return f(b, c)
}

// CheckSequence prueft, dass seq eine (batch, length) Sequenz von Token-IDs
// mit mindestens minLength Positionen ist
func CheckSequence(op string, seq ml.Tensor, minLength int) error {
	if seq == nil {
		return &ShapeError{Op: op, Reason: "sequence is nil"}
	}

	shape := seq.Shape()
	switch {
	case seq.DType() != ml.DTypeI32:
		return &ShapeError{Op: op, Shape: shape, Reason: fmt.Sprintf("expected i32 token ids, got %v", seq.DType())}
	case len(shape) != 2:
		return &ShapeError{Op: op, Shape: shape, Reason: "expected shape (batch, length)"}
	case shape[1] < minLength:
		return &ShapeError{Op: op, Shape: shape, Reason: fmt.Sprintf("length %d is shorter than window size %d", shape[1], minLength)}
	}

	return nil
}

// Forward prueft die Eingabe und fuehrt den Vorwaerts-Pass durch
func Forward(ctx ml.Context, m Model, seq ml.Tensor) ([]ml.Tensor, error) {
	if err := CheckSequence("forward", seq, 1); err != nil {
		return nil, err
	}

	return m.Forward(ctx, seq)
}
