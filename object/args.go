package object

import "reflect"

// Args is an order-dependent argument cursor shared by every level of a
// construct chain. Each init passes the cursor to its ancestor's init before
// reading its own arguments, so the root-most class consumes first.
type Args struct {
	values []any
	pos    int
}

// NewArgs creates a cursor over values.
func NewArgs(values ...any) *Args {
	return &Args{values: values}
}

// ArgsOf extracts the cursor passed to an init slot. It returns nil if the
// slot was invoked without one.
func ArgsOf(args []any) *Args {
	if len(args) == 0 {
		return nil
	}
	a, _ := args[0].(*Args)
	return a
}

// Arg consumes the next argument as a T. It returns def if the cursor is nil,
// exhausted, or the next argument is nil. An argument of the wrong type is a
// contract violation.
func Arg[T any](a *Args, def T) T {
	if a == nil || a.pos >= len(a.values) {
		return def
	}
	v := a.values[a.pos]
	a.pos++
	if v == nil {
		return def
	}
	t, ok := v.(T)
	if !ok {
		panic(Fatal(nil, "arg", "argument %d is %T, want %v", a.pos-1, v, reflect.TypeFor[T]()))
	}
	return t
}

// Len returns the number of arguments not yet consumed.
func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values) - a.pos
}

// Rest consumes and returns every remaining argument.
func (a *Args) Rest() []any {
	if a == nil || a.pos >= len(a.values) {
		return nil
	}
	rest := a.values[a.pos:]
	a.pos = len(a.values)
	return rest
}

// SlotArg returns argument i of a slot call on behalf of class c. A missing
// argument is a contract violation.
func SlotArg(c *Class, op string, args []any, i int) any {
	if i >= len(args) {
		panic(Fatal(c, op, "missing argument %d", i))
	}
	return args[i]
}
