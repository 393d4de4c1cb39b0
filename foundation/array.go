package foundation

import (
	"slices"
	"strings"

	"github.com/chazu/objective/object"
)

// ArrayClass describes ordered collections of borrowed object references.
// An Array never destroys its elements.
var ArrayClass = &object.Class{
	Name:       "Array",
	Superclass: object.ObjectClass,
	InstVars:   []string{"elements"},
	Interface: []string{
		"addObject",
		"containsObject",
		"count",
		"filter",
		"indexOfObject",
		"objectAtIndex",
		"removeAllObjects",
		"removeObject",
		"removeObjectAtIndex",
		"sort",
	},
}

var arrayElements = ArrayClass.InstVarIndex("elements")

func init() {
	ArrayClass.Initialize = initializeArray
}

func initializeArray(c *object.Class) {
	c.Override("init", arrayInit)
	c.Override("dealloc", arrayDealloc)
	c.Override("copy", arrayCopy)
	c.Override("description", arrayDescription)
	c.Override("hash", arrayHash)
	c.Override("isEqual", arrayIsEqual)

	c.Override("addObject", arrayAddObject)
	c.Override("containsObject", arrayContainsObject)
	c.Override("count", arrayCount)
	c.Override("filter", arrayFilter)
	c.Override("indexOfObject", arrayIndexOfObject)
	c.Override("objectAtIndex", arrayObjectAtIndex)
	c.Override("removeAllObjects", arrayRemoveAllObjects)
	c.Override("removeObject", arrayRemoveObject)
	c.Override("removeObjectAtIndex", arrayRemoveObjectAtIndex)
	c.Override("sort", arraySort)
}

func elementsOf(o *object.Object) []*object.Object {
	return object.Get[[]*object.Object](o, arrayElements)
}

// arrayInit takes an optional initial element slice, which is copied.
func arrayInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	elems := object.Arg[[]*object.Object](a, nil)
	for i, e := range elems {
		if e == nil {
			panic(object.Fatal(ArrayClass, "init", "nil element at %d", i))
		}
	}
	self.SetSlot(arrayElements, slices.Clone(elems))
	return self
}

func arrayDealloc(self *object.Object, args ...any) any {
	self.SetSlot(arrayElements, nil)
	object.SuperDealloc(object.ObjectClass, self)
	return nil
}

func arrayCopy(self *object.Object, args ...any) any {
	obj, err := object.New(ArrayClass, elementsOf(self))
	if err != nil {
		return err
	}
	return obj
}

func arrayDescription(self *object.Object, args ...any) any {
	elems := elementsOf(self)
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = object.Describe(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func arrayHash(self *object.Object, args ...any) any {
	h := 17
	for _, e := range elementsOf(self) {
		h = 31*h + object.Hash(e)
	}
	return h
}

func arrayIsEqual(self *object.Object, args ...any) any {
	other, _ := object.SlotArg(ArrayClass, "isEqual", args, 0).(*object.Object)
	if other == self {
		return true
	}
	if !object.IsKind(other, ArrayClass) {
		return false
	}
	return slices.EqualFunc(elementsOf(self), elementsOf(other), object.Equal)
}

// ---------------------------------------------------------------------------
// Array slots
// ---------------------------------------------------------------------------

func arrayAddObject(self *object.Object, args ...any) any {
	obj := argAt[*object.Object](ArrayClass, "addObject", args, 0)
	if obj == nil {
		panic(object.Fatal(ArrayClass, "addObject", "nil object"))
	}
	self.SetSlot(arrayElements, append(elementsOf(self), obj))
	return nil
}

// indexOf finds the first element equal to obj, asking obj's isEqual slot.
func indexOf(self, obj *object.Object) int {
	return slices.IndexFunc(elementsOf(self), func(e *object.Object) bool {
		return object.Equal(obj, e)
	})
}

func arrayIndexOfObject(self *object.Object, args ...any) any {
	return indexOf(self, argAt[*object.Object](ArrayClass, "indexOfObject", args, 0))
}

func arrayContainsObject(self *object.Object, args ...any) any {
	return indexOf(self, argAt[*object.Object](ArrayClass, "containsObject", args, 0)) != -1
}

func arrayCount(self *object.Object, args ...any) any {
	return len(elementsOf(self))
}

func checkIndex(op string, index, n int) {
	if index < 0 || index >= n {
		panic(object.Fatal(ArrayClass, op, "index %d out of bounds (count %d)", index, n))
	}
}

func arrayObjectAtIndex(self *object.Object, args ...any) any {
	index := argAt[int](ArrayClass, "objectAtIndex", args, 0)
	elems := elementsOf(self)
	checkIndex("objectAtIndex", index, len(elems))
	return elems[index]
}

func arrayRemoveAllObjects(self *object.Object, args ...any) any {
	self.SetSlot(arrayElements, []*object.Object(nil))
	return nil
}

func arrayRemoveObject(self *object.Object, args ...any) any {
	if i := indexOf(self, argAt[*object.Object](ArrayClass, "removeObject", args, 0)); i != -1 {
		self.SetSlot(arrayElements, slices.Delete(elementsOf(self), i, i+1))
	}
	return nil
}

func arrayRemoveObjectAtIndex(self *object.Object, args ...any) any {
	index := argAt[int](ArrayClass, "removeObjectAtIndex", args, 0)
	elems := elementsOf(self)
	checkIndex("removeObjectAtIndex", index, len(elems))
	self.SetSlot(arrayElements, slices.Delete(elems, index, index+1))
	return nil
}

// arrayFilter returns a new Array of the elements the predicate selects.
func arrayFilter(self *object.Object, args ...any) any {
	pred := argAt[Predicate](ArrayClass, "filter", args, 0)
	var data any
	if len(args) > 1 {
		data = args[1]
	}
	var selected []*object.Object
	for _, e := range elementsOf(self) {
		if pred(e, data) {
			selected = append(selected, e)
		}
	}
	obj, err := object.New(ArrayClass, selected)
	if err != nil {
		return err
	}
	return obj
}

// arraySort sorts the elements in place. The sort is stable.
func arraySort(self *object.Object, args ...any) any {
	cmp := argAt[Comparator](ArrayClass, "sort", args, 0)
	slices.SortStableFunc(elementsOf(self), func(a, b *object.Object) int {
		return int(cmp(a, b))
	})
	return nil
}

// ---------------------------------------------------------------------------
// Array view
// ---------------------------------------------------------------------------

// Array is a typed view of an ArrayClass instance.
type Array struct {
	*object.Object
}

// AsArray casts o to an Array view.
func AsArray(o *object.Object) (Array, error) {
	return object.CastAs(o, ArrayClass, func(o *object.Object) Array { return Array{o} })
}

func arrayView(v any) (Array, error) {
	obj, err := result(v)
	if err != nil {
		return Array{}, err
	}
	return Array{obj}, nil
}

// NewArray creates an Array holding elems.
func NewArray(elems ...*object.Object) (Array, error) {
	obj, err := object.New(ArrayClass, elems)
	if err != nil {
		return Array{}, err
	}
	return Array{obj}, nil
}

func (a Array) AddObject(obj *object.Object) {
	object.Send(a.Object, "addObject", obj)
}

// ContainsObject reports whether an element is equal to obj.
func (a Array) ContainsObject(obj *object.Object) bool {
	return object.Send(a.Object, "containsObject", obj).(bool)
}

// IndexOfObject returns the index of the first element equal to obj, or -1.
func (a Array) IndexOfObject(obj *object.Object) int {
	return object.Send(a.Object, "indexOfObject", obj).(int)
}

func (a Array) ObjectAtIndex(index int) *object.Object {
	return object.Send(a.Object, "objectAtIndex", index).(*object.Object)
}

func (a Array) Count() int {
	return object.Send(a.Object, "count").(int)
}

func (a Array) RemoveObject(obj *object.Object) {
	object.Send(a.Object, "removeObject", obj)
}

func (a Array) RemoveObjectAtIndex(index int) {
	object.Send(a.Object, "removeObjectAtIndex", index)
}

func (a Array) RemoveAllObjects() {
	object.Send(a.Object, "removeAllObjects")
}

// Filter returns a new Array of the elements for which pred returns true.
// The elements are shared with a.
func (a Array) Filter(pred Predicate, data any) (Array, error) {
	return arrayView(object.Send(a.Object, "filter", pred, data))
}

// Sort orders the elements in place.
func (a Array) Sort(cmp Comparator) {
	object.Send(a.Object, "sort", cmp)
}

// Objects returns a copy of the elements.
func (a Array) Objects() []*object.Object {
	return slices.Clone(elementsOf(a.Object))
}

// DestroyWithElements destroys every distinct element and then the array.
// Use it for arrays whose elements the caller owns, such as the results of
// ComponentsSeparatedByString.
func (a Array) DestroyWithElements() {
	seen := make(map[*object.Object]bool)
	for _, e := range elementsOf(a.Object) {
		if !seen[e] {
			seen[e] = true
			object.Destroy(e)
		}
	}
	object.Destroy(a.Object)
}
