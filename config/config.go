// Package config provides the typed attribute store shared by every stage of
// a parse-and-build invocation.
//
// Attributes are identified by typed keys rather than strings: a Key[T]
// couples the attribute's name with its value type, so lookups are checked at
// compile time and new attribute kinds can be declared by any package without
// touching the handler. Reading an attribute that was never registered is an
// explicit error, never a silent default: a processor reading an attribute
// its pipeline composer forgot to register is an integration bug that should
// surface immediately.
package config

import "fmt"

// Key identifies one attribute kind of value type T. Declare keys as
// package-level variables; two keys are the same attribute iff they share the
// same name and value type.
type Key[T any] struct {
	name string
}

// NewKey declares an attribute kind with the given diagnostic name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's diagnostic name.
func (k Key[T]) Name() string { return k.name }

// Handler maps attribute keys to values for the duration of one
// parse-and-build invocation. It is shared, read/write, by every pipeline
// stage and by the tree builder, and is not safe for concurrent use.
type Handler struct {
	values map[any]any
}

// NewHandler creates an empty handler.
func NewHandler() *Handler {
	return &Handler{values: make(map[any]any)}
}

// Set registers or overwrites the attribute identified by key.
func Set[T any](h *Handler, key Key[T], value T) {
	h.values[key] = value
}

// Get returns the attribute identified by key. It fails with a
// *ConfigurationError if the attribute was never registered on this handler.
func Get[T any](h *Handler, key Key[T]) (T, error) {
	v, ok := h.values[key]
	if !ok {
		var zero T
		return zero, &ConfigurationError{Attribute: key.name, Reason: "attribute not registered"}
	}
	return v.(T), nil
}

// Has reports whether the attribute identified by key is registered.
func Has[T any](h *Handler, key Key[T]) bool {
	_, ok := h.values[key]
	return ok
}

// Delete removes the attribute identified by key, if present.
func Delete[T any](h *Handler, key Key[T]) {
	delete(h.values, key)
}

// ConfigurationError reports a defect in how a pipeline was composed: an
// attribute read before registration, or a pipeline run without a handler.
// It indicates a programming error, not bad user input.
type ConfigurationError struct {
	// Attribute is the name of the offending attribute kind, if any.
	Attribute string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Attribute == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: attribute %q: %s", e.Attribute, e.Reason)
}
