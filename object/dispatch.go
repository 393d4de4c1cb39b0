package object

// Invoke calls the slot at sel through the object's own (most-derived) table.
func Invoke(o *Object, sel Selector, args ...any) any {
	return o.table("invoke").method("invoke", sel)(o, args...)
}

// Send resolves name against the object's class and invokes it.
func Send(o *Object, name string, args ...any) any {
	vt := o.table("send")
	return vt.method("send", vt.class.Selector(name))(o, args...)
}

// InvokeSuper calls the slot at sel as implemented by ancestor, ignoring any
// override further down the object's class chain. ancestor must be the
// object's class or one of its ancestors.
func InvokeSuper(ancestor *Class, o *Object, sel Selector, args ...any) any {
	return superTable(ancestor, o).method("super", sel)(o, args...)
}

// Super resolves name against ancestor and calls it as implemented there.
func Super(ancestor *Class, o *Object, name string, args ...any) any {
	vt := superTable(ancestor, o)
	return vt.method("super", ancestor.Selector(name))(o, args...)
}

func superTable(ancestor *Class, o *Object) *VTable {
	vt := o.table("super")
	if ancestor == nil {
		panic(Fatal(vt.class, "super", "nil ancestor"))
	}
	if !ancestor.IsSuperclassOf(vt.class) {
		panic(Fatal(vt.class, "super", "%s is not an ancestor", ancestor.Name))
	}
	return ancestor.Ready()
}

// RespondsTo reports whether the object's table has a populated slot with
// this name.
func RespondsTo(o *Object, name string) bool {
	return o.table("responds").class.RespondsTo(name)
}
