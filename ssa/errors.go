package ssa

import "fmt"

// RedefinitionError is returned when a prototype or extern declaration
// conflicts with an existing, incompatible declaration of the same
// name (different arity, or a second body for an already-defined
// function).
type RedefinitionError struct {
	Name    string
	Message string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("redefinition of '%s': %s", e.Name, e.Message)
}
