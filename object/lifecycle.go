package object

import "fmt"

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// Alloc reserves zeroed storage for an instance of c and stamps it with c's
// dispatch table, building the table first if needed. The result still has
// to be constructed.
func Alloc(c *Class) (*Object, error) {
	vt := c.Ready()
	a := CurrentAllocator()
	slots, err := a.Allocate(c)
	if err != nil {
		return nil, err
	}
	return &Object{
		vtable: vt,
		slots:  slots,
		alloc:  a,
		id:     nextObjectID.Add(1),
	}, nil
}

// Release reclaims an instance's storage. It must only follow Destruct, or be
// applied to storage that was never successfully constructed. Releasing nil
// is a no-op; releasing twice panics.
func Release(o *Object) {
	if o == nil {
		return
	}
	if o.vtable == nil {
		panic(Fatal(nil, "release", "object %d released twice", o.id))
	}
	o.alloc.Free(o.vtable.class, o.slots)
	o.slots = nil
	o.vtable = nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// Construct runs the object's init slot with an Args cursor over args. On
// failure the object is left as raw storage: the caller must Release it, not
// Destruct it.
func Construct(o *Object, args ...any) (*Object, error) {
	return initResult(o, "init", Invoke(o, SelInit, NewArgs(args...)))
}

// ConstructWith runs a named initializer slot, passing args through directly.
// Failure semantics match Construct.
func ConstructWith(o *Object, initializer string, args ...any) (*Object, error) {
	return initResult(o, initializer, Send(o, initializer, args...))
}

// initResult interprets an initializer's return value. An initializer
// succeeds by returning an *Object; it fails by returning nil or an error.
func initResult(o *Object, initializer string, res any) (*Object, error) {
	switch v := res.(type) {
	case *Object:
		if v != nil {
			return v, nil
		}
	case error:
		return nil, fmt.Errorf("%w: %s %s: %w", ErrConstruction, o.ClassName(), initializer, v)
	}
	return nil, fmt.Errorf("%w: %s %s", ErrConstruction, o.ClassName(), initializer)
}

// New allocates and constructs an instance of c. If construction fails the
// storage is released and nothing is returned.
func New(c *Class, args ...any) (*Object, error) {
	o, err := Alloc(c)
	if err != nil {
		return nil, err
	}
	obj, err := Construct(o, args...)
	if err != nil {
		Release(o)
		return nil, err
	}
	return obj, nil
}

// NewWith allocates an instance of c and constructs it through the named
// initializer slot. If construction fails the storage is released.
func NewWith(c *Class, initializer string, args ...any) (*Object, error) {
	o, err := Alloc(c)
	if err != nil {
		return nil, err
	}
	obj, err := ConstructWith(o, initializer, args...)
	if err != nil {
		Release(o)
		return nil, err
	}
	return obj, nil
}

// SuperInit runs ancestor's init slot on self. Every init implementation
// calls it before touching its own fields, and stops if it fails.
func SuperInit(ancestor *Class, self *Object, args *Args) (*Object, error) {
	return initResult(self, "init", InvokeSuper(ancestor, self, SelInit, args))
}

// SuperInitWith runs a named initializer slot as implemented by ancestor.
func SuperInitWith(ancestor *Class, self *Object, initializer string, args ...any) (*Object, error) {
	return initResult(self, initializer, Super(ancestor, self, initializer, args...))
}

// ---------------------------------------------------------------------------
// Destruction
// ---------------------------------------------------------------------------

// Destruct runs the object's dealloc slot. Each dealloc releases what its own
// class acquired and then calls SuperDealloc, so descendants tear down before
// their ancestors.
func Destruct(o *Object) {
	Invoke(o, SelDealloc)
}

// SuperDealloc runs ancestor's dealloc slot on self.
func SuperDealloc(ancestor *Class, self *Object) {
	InvokeSuper(ancestor, self, SelDealloc)
}

// Destroy destructs and releases o.
func Destroy(o *Object) {
	if o == nil {
		return
	}
	Destruct(o)
	Release(o)
}
