// backend.go - Backend-Interface und Registrierung
// Dieses Modul definiert das Backend-Interface (Parameter-Speicher) und die Backend-Factory-Funktionen.
package ml

import (
	"fmt"
)

// Backend represents an execution backend. It owns the named, persistent
// variables (weight tables) of all layers built on it.
type Backend interface {
	// Close frees all memory associated with this backend
	Close()

	// NewVariable allocates a variable of the given shape and fills it with
	// init. Names are unique per backend; reusing one fails with ErrNameConflict.
	NewVariable(name string, init Initializer, shape ...int) (Tensor, error)

	// Get returns the variable with the given name or nil.
	Get(name string) Tensor

	// Variables returns the variable names in creation order.
	Variables() []string

	NewContext() Context
}

// BackendParams controls how the backend creates variables
type BackendParams struct {
	// Seed seeds the random source used by initializers. Two backends with
	// the same seed produce identical variables for identical call sequences.
	Seed uint64
}

// ErrNameConflict is returned when a variable name is already taken
type ErrNameConflict struct {
	Name string
}

func (e ErrNameConflict) Error() string {
	return fmt.Sprintf("variable %q already exists", e.Name)
}

var backends = make(map[string]func(BackendParams) (Backend, error))

// RegisterBackend registers a backend factory function.
func RegisterBackend(name string, f func(BackendParams) (Backend, error)) {
	if _, ok := backends[name]; ok {
		panic("backend: backend already registered")
	}

	backends[name] = f
}

// NewBackend creates a new backend instance by name.
func NewBackend(name string, params BackendParams) (Backend, error) {
	if backend, ok := backends[name]; ok {
		return backend(params)
	}

	return nil, fmt.Errorf("unsupported backend %q", name)
}
