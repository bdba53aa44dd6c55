package vm

import "sort"

// Env is the session-wide variable environment. The zero value is empty and
// ready to use.
type Env struct {
	vars map[string]float64
}

// Get returns the value bound to name and whether it is bound.
func (e *Env) Get(name string) (float64, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (e *Env) Set(name string, v float64) {
	if e.vars == nil {
		e.vars = make(map[string]float64)
	}
	e.vars[name] = v
}

// Len returns the number of bound variables.
func (e *Env) Len() int {
	return len(e.vars)
}

// Clear removes every binding.
func (e *Env) Clear() {
	clear(e.vars)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
