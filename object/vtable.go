package object

// Method is the signature of every slot in a dispatch table.
type Method func(self *Object, args ...any) any

// Selector is a slot position in a dispatch table. A selector resolved
// against a class is valid for every descendant of that class.
type Selector int

// VTable holds the method dispatch table for a class.
//
// A table always begins with a copy of its ancestor's table: slot positions
// are inherited unchanged, so a selector resolved against any ancestor is
// valid here. Tables are never written after their class becomes ready.
type VTable struct {
	class   *Class   // The class this vtable belongs to
	methods []Method // Methods indexed by selector
}

// Lookup returns the method at sel, or nil if the slot is unpopulated or out
// of range.
func (vt *VTable) Lookup(sel Selector) Method {
	if sel >= 0 && int(sel) < len(vt.methods) {
		return vt.methods[sel]
	}
	return nil
}

// method returns the method at sel, panicking on a bad selector or an
// unimplemented slot.
func (vt *VTable) method(op string, sel Selector) Method {
	if sel < 0 || int(sel) >= len(vt.methods) {
		panic(Fatal(vt.class, op, "selector %d out of range (%d slots)", sel, len(vt.methods)))
	}
	m := vt.methods[sel]
	if m == nil {
		panic(Fatal(vt.class, op, "slot %q is not implemented", vt.class.slotNames[sel]))
	}
	return m
}

// Class returns the class this vtable belongs to.
func (vt *VTable) Class() *Class {
	return vt.class
}

// MethodCount returns the number of method slots (including nil slots).
func (vt *VTable) MethodCount() int {
	return len(vt.methods)
}
