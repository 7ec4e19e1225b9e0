// config.go - Haupt-Konfigurationsfunktionen fuer tedll
//
// Dieses Modul enthaelt:
// - LogLevel: Gibt Log-Level zurueck (TEDLL_DEBUG)
// - Backend: Gibt den Backend-Namen zurueck (TEDLL_BACKEND)
// - Seed: Gibt die Seed der Initialisierer zurueck (TEDLL_SEED)
// - NumThreads: Gibt die Anzahl paralleler Forward-Aufrufe zurueck (TEDLL_NUM_THREADS)
// - JSONOutput: Erzwingt JSON-Zeilen statt Tabelle (TEDLL_JSON)
//
// Getter und Export sind ausgelagert:
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via TEDLL_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TEDLL_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Backend gibt den Namen des Backends zurueck
// Konfigurierbar via TEDLL_BACKEND
// Default: dense
func Backend() string {
	if s := Var("TEDLL_BACKEND"); s != "" {
		return s
	}

	return "dense"
}

var (
	// Seed seeds the initializers of new variables
	Seed = Uint64("TEDLL_SEED", 0)
	// NumThreads limits the number of parallel forward calls
	NumThreads = Uint("TEDLL_NUM_THREADS", uint(runtime.NumCPU()))
	// JSONOutput disables the table output of forward on terminals
	JSONOutput = Bool("TEDLL_JSON")
)

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
