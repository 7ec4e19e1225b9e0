// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - Bool: Boolean-Getter (Default: false)
// - Uint/Uint64: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// =============================================================================
// Boolean-Getter
// =============================================================================

// Bool gibt eine Funktion zurueck, die einen Bool liest
// Nicht parsebare Werte gelten als gesetzt, TEDLL_JSON=yes schaltet also ein.
func Bool(key string) func() bool {
	return func() bool {
		s := Var(key)
		if s == "" {
			return false
		}

		b, err := strconv.ParseBool(s)
		return err != nil || b
	}
}

// =============================================================================
// Integer-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Uint64 gibt eine Funktion zurueck, die einen uint64 mit Default-Wert liest
func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TEDLL_DEBUG":       {"TEDLL_DEBUG", LogLevel(), "Show additional debug information (e.g. TEDLL_DEBUG=1)"},
		"TEDLL_BACKEND":     {"TEDLL_BACKEND", Backend(), "Numeric backend used for variables and tensors (default: dense)"},
		"TEDLL_SEED":        {"TEDLL_SEED", Seed(), "Seed for variable initializers (default: 0)"},
		"TEDLL_NUM_THREADS": {"TEDLL_NUM_THREADS", NumThreads(), "Maximum number of parallel forward calls (default: number of CPUs)"},
		"TEDLL_JSON":        {"TEDLL_JSON", JSONOutput(), "Write forward results as JSON lines even on a terminal"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
