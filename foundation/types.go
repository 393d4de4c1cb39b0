package foundation

import (
	"fmt"

	"github.com/chazu/objective/object"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("objective.foundation")
}

// Range is a location and length into a contiguous collection.
type Range struct {
	Location int
	Length   int
}

// NotFound is returned by searches that find nothing.
var NotFound = Range{Location: -1}

// End returns the index just past the range.
func (r Range) End() int {
	return r.Location + r.Length
}

// String implements the Stringer interface.
func (r Range) String() string {
	return fmt.Sprintf("{%d, %d}", r.Location, r.Length)
}

// checkRange panics unless r lies within [0, n).
func checkRange(c *object.Class, op string, r Range, n int) {
	if r.Location < 0 || r.Length < 0 || r.End() > n {
		panic(object.Fatal(c, op, "range %v out of bounds (length %d)", r, n))
	}
}

// Order is the result of a comparison.
type Order int

const (
	OrderAscending  Order = -1
	OrderSame       Order = 0
	OrderDescending Order = 1
)

// orderOf converts a three-way comparison result to an Order.
func orderOf(cmp int) Order {
	switch {
	case cmp < 0:
		return OrderAscending
	case cmp > 0:
		return OrderDescending
	}
	return OrderSame
}

// Comparator orders two objects.
type Comparator func(a, b *object.Object) Order

// Predicate selects objects. data is passed through from the caller.
type Predicate func(obj *object.Object, data any) bool

// objectArg extracts an *object.Object argument that must be a kind of c.
func objectArg(c *object.Class, op string, args []any, i int) *object.Object {
	v := object.SlotArg(c, op, args, i)
	obj, _ := v.(*object.Object)
	if !object.IsKind(obj, c) {
		panic(object.Fatal(c, op, "argument %v is not a kind of %s", v, c.Name))
	}
	return obj
}

// result converts a slot's return value to an object, surfacing the error
// if the slot failed to create one.
func result(v any) (*object.Object, error) {
	switch r := v.(type) {
	case *object.Object:
		return r, nil
	case error:
		return nil, r
	}
	return nil, fmt.Errorf("foundation: unexpected result %T", v)
}

// argAt extracts the i'th positional slot argument as a T.
func argAt[T any](c *object.Class, op string, args []any, i int) T {
	if i >= len(args) {
		panic(object.Fatal(c, op, "missing argument %d", i))
	}
	v, ok := args[i].(T)
	if !ok {
		panic(object.Fatal(c, op, "argument %d is %T", i, args[i]))
	}
	return v
}
