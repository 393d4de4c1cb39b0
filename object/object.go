package object

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Object is an allocated instance.
//
// The table pointer is stamped by Alloc and always refers to the most-derived
// class's table. Instance variables are stored ancestor first, so the first
// InstanceSize() slots of any ancestor line up with the ancestor's own layout.
type Object struct {
	vtable *VTable // Pointer to method dispatch table; nil once released
	slots  []any
	alloc  Allocator
	id     uint64
}

var nextObjectID atomic.Uint64

// Class returns the object's most-derived class, or nil once released.
func (o *Object) Class() *Class {
	if o == nil || o.vtable == nil {
		return nil
	}
	return o.vtable.class
}

// ClassName returns the name of the object's class, or "?" if released.
func (o *Object) ClassName() string {
	if c := o.Class(); c != nil {
		return c.Name
	}
	return "?"
}

// VTablePtr returns the object's vtable.
func (o *Object) VTablePtr() *VTable {
	return o.vtable
}

// ID returns the object's process-unique identity.
func (o *Object) ID() uint64 {
	return o.id
}

// table returns the live table, panicking if the object was released.
func (o *Object) table(op string) *VTable {
	if o == nil {
		panic(Fatal(nil, op, "nil object"))
	}
	if o.vtable == nil {
		panic(Fatal(nil, op, "object %d used after release", o.id))
	}
	return o.vtable
}

// ---------------------------------------------------------------------------
// Slot access
// ---------------------------------------------------------------------------

// Slot returns the instance variable at index.
// Panics if index is out of range.
func (o *Object) Slot(index int) any {
	o.table("slot")
	if index < 0 || index >= len(o.slots) {
		panic(Fatal(o.Class(), "slot", "index %d out of range (%d slots)", index, len(o.slots)))
	}
	return o.slots[index]
}

// SetSlot sets the instance variable at index.
// Panics if index is out of range.
func (o *Object) SetSlot(index int, value any) {
	o.table("set slot")
	if index < 0 || index >= len(o.slots) {
		panic(Fatal(o.Class(), "set slot", "index %d out of range (%d slots)", index, len(o.slots)))
	}
	o.slots[index] = value
}

// NumSlots returns the number of instance variable slots.
func (o *Object) NumSlots() int {
	return len(o.slots)
}

// Get returns the instance variable at index as a T. An unset slot yields the
// zero value; a slot holding another type panics.
func Get[T any](o *Object, index int) T {
	v := o.Slot(index)
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		panic(Fatal(o.Class(), "get", "slot %d holds %T, want %v", index, v, reflect.TypeFor[T]()))
	}
	return t
}

// String implements the Stringer interface.
func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s@%d", o.ClassName(), o.id)
}
