// Package region - Region-Embedding-Layer
//
// Dieses Paket implementiert die Eingangsstufe eines Textklassifikators:
// Token-IDs werden auf dichte Vektoren abgebildet, optional kombiniert mit
// dem lokalen Fenster-Kontext jedes Tokens.
//
// Hauptkomponenten:
// - WindowAlignment: gleitende Fenster ueber eine Sequenz
// - Embedding: Lookup-Tabelle (Basis aller Varianten)
// - WindowPool: Pooling ueber die Embeddings eines Fensters
// - ContextRegion: Kontext-Kernel pro Zentrumstoken (skalar oder voll)
// - MultiRegion: mehrere Fenstergroessen mit gemeinsamem Kernel
// - ContextWordRegion: Kontext-Einheiten als eigene Embedding-Zeilen
//
// Alle Forward-Aufrufe sind rein: Gewichte werden nur gelesen.

package region

import (
	"github.com/tedll/tedll/ml"
	"github.com/tedll/tedll/model"
)

// validate prueft die gemeinsamen Konstruktionsparameter
func validate(b ml.Backend, c model.Config) error {
	switch {
	case b == nil:
		return &model.ConfigError{Field: "backend", Reason: "must not be nil"}
	case c.VocabSize < 1:
		return &model.ConfigError{Field: "vocab_size", Value: c.VocabSize, Reason: "must be positive"}
	case c.EmbSize < 1:
		return &model.ConfigError{Field: "emb_size", Value: c.EmbSize, Reason: "must be positive"}
	case c.Merge == nil:
		return &model.ConfigError{Field: "merge", Reason: "function must be set"}
	}

	return nil
}

// initializer gibt den Initialisierer aus c oder den Default zurueck
func initializer(c model.Config) ml.Initializer {
	if c.Initializer != nil {
		return c.Initializer
	}

	return ml.DefaultInitializer()
}
