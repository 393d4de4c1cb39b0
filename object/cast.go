package object

import "fmt"

// IsKind reports whether o is an instance of c or of one of c's descendants.
// Class identity is descriptor identity.
func IsKind(o *Object, c *Class) bool {
	if o == nil || o.vtable == nil || c == nil {
		return false
	}
	return o.vtable.class.IsSubclassOf(c)
}

// Cast returns o if it is a kind of c, and ErrCast otherwise.
func Cast(o *Object, c *Class) (*Object, error) {
	if !IsKind(o, c) {
		name := "<nil>"
		if c != nil {
			name = c.Name
		}
		return nil, fmt.Errorf("%w: %s is not a kind of %s", ErrCast, o.ClassName(), name)
	}
	return o, nil
}

// CastAs checks o against c and wraps it in a typed view, so that only the
// view's methods are reachable from the result.
func CastAs[T any](o *Object, c *Class, view func(*Object) T) (T, error) {
	obj, err := Cast(o, c)
	if err != nil {
		var zero T
		return zero, err
	}
	return view(obj), nil
}
