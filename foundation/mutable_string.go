package foundation

import (
	"fmt"

	"github.com/chazu/objective/object"
)

// MutableStringClass describes strings that can be edited in place.
var MutableStringClass = &object.Class{
	Name:       "MutableString",
	Superclass: StringClass,
	InstVars:   []string{"capacity"},
	Interface: []string{
		"appendCharacters",
		"appendFormat",
		"appendString",
		"deleteCharactersInRange",
		"initWithCapacity",
		"initWithString",
		"insertCharactersAtIndex",
		"insertStringAtIndex",
		"replaceCharactersInRange",
		"replaceStringInRange",
	},
}

var mutableStringCapacity = MutableStringClass.InstVarIndex("capacity")

func init() {
	MutableStringClass.Initialize = initializeMutableString
}

func initializeMutableString(c *object.Class) {
	c.Override("init", mutableStringInit)
	c.Override("copy", mutableStringCopy)

	c.Override("appendCharacters", mutableStringAppendCharacters)
	c.Override("appendFormat", mutableStringAppendFormat)
	c.Override("appendString", mutableStringAppendString)
	c.Override("deleteCharactersInRange", mutableStringDeleteCharactersInRange)
	c.Override("initWithCapacity", mutableStringInitWithCapacity)
	c.Override("initWithString", mutableStringInitWithString)
	c.Override("insertCharactersAtIndex", mutableStringInsertCharactersAtIndex)
	c.Override("insertStringAtIndex", mutableStringInsertStringAtIndex)
	c.Override("replaceCharactersInRange", mutableStringReplaceCharactersInRange)
	c.Override("replaceStringInRange", mutableStringReplaceStringInRange)
}

// mutableStringInit takes the initial characters and an optional capacity.
func mutableStringInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(StringClass, self, a); err != nil {
		return err
	}
	capacity := object.Arg(a, 0)
	if capacity < 0 {
		return fmt.Errorf("negative capacity %d", capacity)
	}
	self.SetSlot(mutableStringCapacity, max(capacity, len(charsOf(self))))
	return self
}

func mutableStringInitWithCapacity(self *object.Object, args ...any) any {
	capacity := argAt[int](MutableStringClass, "initWithCapacity", args, 0)
	return object.Invoke(self, object.SelInit, object.NewArgs("", capacity))
}

func mutableStringInitWithString(self *object.Object, args ...any) any {
	str := objectArg(StringClass, "initWithString", args, 0)
	obj, err := object.SuperInitWith(StringClass, self, "initWithCharacters", charsOf(str))
	if err != nil {
		return err
	}
	return obj
}

func mutableStringCopy(self *object.Object, args ...any) any {
	obj, err := object.New(MutableStringClass, charsOf(self))
	if err != nil {
		return err
	}
	return obj
}

// setChars stores s, growing the capacity geometrically when it overflows.
func setChars(self *object.Object, s string) {
	capacity := object.Get[int](self, mutableStringCapacity)
	if len(s) > capacity {
		capacity = max(capacity*2, len(s))
		self.SetSlot(mutableStringCapacity, capacity)
	}
	self.SetSlot(stringChars, s)
}

// replace substitutes chars for the characters within r.
func replace(self *object.Object, op string, r Range, chars string) {
	s := charsOf(self)
	checkRange(MutableStringClass, op, r, len(s))
	setChars(self, s[:r.Location]+chars+s[r.End():])
}

func insertAt(self *object.Object, op string, index int, chars string) {
	s := charsOf(self)
	if index < 0 || index > len(s) {
		panic(object.Fatal(MutableStringClass, op, "index %d out of bounds (length %d)", index, len(s)))
	}
	setChars(self, s[:index]+chars+s[index:])
}

func mutableStringAppendCharacters(self *object.Object, args ...any) any {
	setChars(self, charsOf(self)+argAt[string](MutableStringClass, "appendCharacters", args, 0))
	return nil
}

func mutableStringAppendFormat(self *object.Object, args ...any) any {
	format := argAt[string](MutableStringClass, "appendFormat", args, 0)
	setChars(self, charsOf(self)+fmt.Sprintf(format, args[1:]...))
	return nil
}

func mutableStringAppendString(self *object.Object, args ...any) any {
	str := objectArg(StringClass, "appendString", args, 0)
	setChars(self, charsOf(self)+charsOf(str))
	return nil
}

func mutableStringDeleteCharactersInRange(self *object.Object, args ...any) any {
	r := argAt[Range](MutableStringClass, "deleteCharactersInRange", args, 0)
	replace(self, "deleteCharactersInRange", r, "")
	return nil
}

func mutableStringInsertCharactersAtIndex(self *object.Object, args ...any) any {
	chars := argAt[string](MutableStringClass, "insertCharactersAtIndex", args, 0)
	index := argAt[int](MutableStringClass, "insertCharactersAtIndex", args, 1)
	insertAt(self, "insertCharactersAtIndex", index, chars)
	return nil
}

func mutableStringInsertStringAtIndex(self *object.Object, args ...any) any {
	str := objectArg(StringClass, "insertStringAtIndex", args, 0)
	index := argAt[int](MutableStringClass, "insertStringAtIndex", args, 1)
	insertAt(self, "insertStringAtIndex", index, charsOf(str))
	return nil
}

func mutableStringReplaceCharactersInRange(self *object.Object, args ...any) any {
	r := argAt[Range](MutableStringClass, "replaceCharactersInRange", args, 0)
	chars := argAt[string](MutableStringClass, "replaceCharactersInRange", args, 1)
	replace(self, "replaceCharactersInRange", r, chars)
	return nil
}

func mutableStringReplaceStringInRange(self *object.Object, args ...any) any {
	r := argAt[Range](MutableStringClass, "replaceStringInRange", args, 0)
	str := objectArg(StringClass, "replaceStringInRange", args, 1)
	replace(self, "replaceStringInRange", r, charsOf(str))
	return nil
}

// ---------------------------------------------------------------------------
// MutableString view
// ---------------------------------------------------------------------------

// MutableString is a typed view of a MutableStringClass instance. Every
// String method is available on it.
type MutableString struct {
	String
}

// AsMutableString casts o to a MutableString view.
func AsMutableString(o *object.Object) (MutableString, error) {
	return object.CastAs(o, MutableStringClass, func(o *object.Object) MutableString {
		return MutableString{String{o}}
	})
}

func mutableStringView(v any) (MutableString, error) {
	obj, err := result(v)
	if err != nil {
		return MutableString{}, err
	}
	return MutableString{String{obj}}, nil
}

// NewMutableString creates a MutableString holding chars.
func NewMutableString(chars string) (MutableString, error) {
	obj, err := object.New(MutableStringClass, chars)
	if err != nil {
		return MutableString{}, err
	}
	return MutableString{String{obj}}, nil
}

// MutableStringWithCapacity creates an empty MutableString.
func MutableStringWithCapacity(capacity int) (MutableString, error) {
	return mutableStringView(newWith(MutableStringClass, "initWithCapacity", capacity))
}

// MutableStringWithString creates a MutableString holding a copy of s.
func MutableStringWithString(s String) (MutableString, error) {
	return mutableStringView(newWith(MutableStringClass, "initWithString", s.Object))
}

// Capacity returns the number of bytes the string can hold before growing.
func (m MutableString) Capacity() int {
	return object.Get[int](m.Object, mutableStringCapacity)
}

func (m MutableString) AppendCharacters(chars string) {
	object.Send(m.Object, "appendCharacters", chars)
}

func (m MutableString) AppendFormat(format string, args ...any) {
	object.Send(m.Object, "appendFormat", append([]any{format}, args...)...)
}

func (m MutableString) AppendString(s String) {
	object.Send(m.Object, "appendString", s.Object)
}

// DeleteCharactersInRange removes the characters within r.
func (m MutableString) DeleteCharactersInRange(r Range) {
	object.Send(m.Object, "deleteCharactersInRange", r)
}

func (m MutableString) InsertCharactersAtIndex(chars string, index int) {
	object.Send(m.Object, "insertCharactersAtIndex", chars, index)
}

func (m MutableString) InsertStringAtIndex(s String, index int) {
	object.Send(m.Object, "insertStringAtIndex", s.Object, index)
}

// ReplaceCharactersInRange replaces the characters within r with chars.
func (m MutableString) ReplaceCharactersInRange(r Range, chars string) {
	object.Send(m.Object, "replaceCharactersInRange", r, chars)
}

func (m MutableString) ReplaceStringInRange(r Range, s String) {
	object.Send(m.Object, "replaceStringInRange", r, s.Object)
}
