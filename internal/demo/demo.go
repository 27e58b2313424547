// Package demo holds the sample capabilities wired by the cibuild
// command: a Greeter and a Counter with one delegate each.
package demo

import "cibuild/composite"

// Greeter greets people by name.
type Greeter interface {
	Greet(name string) string
}

// Counter hands out increasing numbers.
type Counter interface {
	Increment() int
}

// Hello is a Greeter that answers "Hello, <name>".
type Hello struct{}

func (Hello) Greet(name string) string { return "Hello, " + name }

// Tally is a Counter starting at zero.  It is not safe for concurrent
// use.
type Tally struct {
	n int
}

// Increment returns the previous count plus one.
func (t *Tally) Increment() int {
	t.n++
	return t.n
}

// Binding returns a fresh binding of Greeter to Hello and Counter to a
// new Tally, in that slot order.
func Binding() composite.Binding {
	return composite.Binding{
		composite.Bind[Greeter](Hello{}),
		composite.Bind[Counter](&Tally{}),
	}
}
