package object

import "fmt"

// ObjectClass is the root class. Every other class descends from it, so its
// slots occupy the first positions of every dispatch table.
var ObjectClass = &Class{
	Name: "Object",
	Interface: []string{
		"init",
		"dealloc",
		"copy",
		"description",
		"hash",
		"isEqual",
		"isKindOfClass",
	},
}

// Selectors of the root slots. They are valid for every class.
const (
	SelInit Selector = iota
	SelDealloc
	SelCopy
	SelDescription
	SelHash
	SelIsEqual
	SelIsKindOfClass
)

func init() {
	ObjectClass.Initialize = initializeObject
}

func initializeObject(c *Class) {
	c.Override("init", objectInit)
	c.Override("dealloc", objectDealloc)
	c.Override("copy", objectCopy)
	c.Override("description", objectDescription)
	c.Override("hash", objectHash)
	c.Override("isEqual", objectIsEqual)
	c.Override("isKindOfClass", objectIsKindOfClass)
}

// objectInit terminates every construct chain.
func objectInit(self *Object, args ...any) any {
	return self
}

// objectDealloc terminates every destruct chain.
func objectDealloc(self *Object, args ...any) any {
	return nil
}

func objectCopy(self *Object, args ...any) any {
	obj, err := New(self.Class())
	if err != nil {
		return err
	}
	return obj
}

func objectDescription(self *Object, args ...any) any {
	return fmt.Sprintf("%s@%#x", self.ClassName(), self.id)
}

func objectHash(self *Object, args ...any) any {
	return int(self.id)
}

func objectIsEqual(self *Object, args ...any) any {
	other, _ := SlotArg(ObjectClass, "isEqual", args, 0).(*Object)
	return self == other
}

func objectIsKindOfClass(self *Object, args ...any) any {
	c, _ := SlotArg(ObjectClass, "isKindOfClass", args, 0).(*Class)
	return IsKind(self, c)
}

// ---------------------------------------------------------------------------
// Root slot helpers
// ---------------------------------------------------------------------------

// Copy dispatches the copy slot.
func Copy(o *Object) (*Object, error) {
	return initResult(o, "copy", Invoke(o, SelCopy))
}

// Describe dispatches the description slot.
func Describe(o *Object) string {
	if o == nil {
		return "<nil>"
	}
	s, _ := Invoke(o, SelDescription).(string)
	return s
}

// Hash dispatches the hash slot.
func Hash(o *Object) int {
	h, _ := Invoke(o, SelHash).(int)
	return h
}

// Equal dispatches a's isEqual slot. Two nils are equal; nil never equals an
// object.
func Equal(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	eq, _ := Invoke(a, SelIsEqual, b).(bool)
	return eq
}

// IsKindOfClass dispatches the isKindOfClass slot.
func IsKindOfClass(o *Object, c *Class) bool {
	k, _ := Invoke(o, SelIsKindOfClass, c).(bool)
	return k
}
