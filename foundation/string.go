package foundation

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/chazu/objective/object"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StringClass describes immutable UTF-8 strings. Ranges over a String are
// byte ranges, so a single code point may span several positions.
var StringClass = &object.Class{
	Name:       "String",
	Superclass: object.ObjectClass,
	InstVars:   []string{"chars"},
	Interface: []string{
		"compareTo",
		"componentsSeparatedByCharacters",
		"componentsSeparatedByString",
		"getData",
		"hasPrefix",
		"hasSuffix",
		"initWithBytes",
		"initWithCharacters",
		"initWithContentsOfFile",
		"initWithData",
		"initWithFormat",
		"lowercaseString",
		"lowercaseStringWithLocale",
		"mutableCopy",
		"rangeOfCharacters",
		"rangeOfString",
		"substring",
		"uppercaseString",
		"uppercaseStringWithLocale",
		"writeToFile",
	},
}

var stringChars = StringClass.InstVarIndex("chars")

func init() {
	StringClass.Initialize = initializeString
}

func initializeString(c *object.Class) {
	c.Override("init", stringInit)
	c.Override("copy", stringCopy)
	c.Override("description", stringDescription)
	c.Override("hash", stringHash)
	c.Override("isEqual", stringIsEqual)

	c.Override("compareTo", stringCompareTo)
	c.Override("componentsSeparatedByCharacters", stringComponentsSeparatedByCharacters)
	c.Override("componentsSeparatedByString", stringComponentsSeparatedByString)
	c.Override("getData", stringGetData)
	c.Override("hasPrefix", stringHasPrefix)
	c.Override("hasSuffix", stringHasSuffix)
	c.Override("initWithBytes", stringInitWithBytes)
	c.Override("initWithCharacters", stringInitWithCharacters)
	c.Override("initWithContentsOfFile", stringInitWithContentsOfFile)
	c.Override("initWithData", stringInitWithData)
	c.Override("initWithFormat", stringInitWithFormat)
	c.Override("lowercaseString", stringLowercaseString)
	c.Override("lowercaseStringWithLocale", stringLowercaseStringWithLocale)
	c.Override("mutableCopy", stringMutableCopy)
	c.Override("rangeOfCharacters", stringRangeOfCharacters)
	c.Override("rangeOfString", stringRangeOfString)
	c.Override("substring", stringSubstring)
	c.Override("uppercaseString", stringUppercaseString)
	c.Override("uppercaseStringWithLocale", stringUppercaseStringWithLocale)
	c.Override("writeToFile", stringWriteToFile)
}

func charsOf(o *object.Object) string {
	return object.Get[string](o, stringChars)
}

// ---------------------------------------------------------------------------
// Initializers
// ---------------------------------------------------------------------------

// stringInit is the designated initializer: it takes the characters as its
// only argument. Every other initializer decodes its input and funnels into
// it through dynamic dispatch, so subclass init slots still run.
func stringInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	self.SetSlot(stringChars, object.Arg(a, ""))
	return self
}

func designate(self *object.Object, chars string) any {
	return object.Invoke(self, object.SelInit, object.NewArgs(chars))
}

func stringInitWithCharacters(self *object.Object, args ...any) any {
	return designate(self, argAt[string](StringClass, "initWithCharacters", args, 0))
}

func stringInitWithBytes(self *object.Object, args ...any) any {
	b := argAt[[]byte](StringClass, "initWithBytes", args, 0)
	enc := argAt[StringEncoding](StringClass, "initWithBytes", args, 1)
	chars, err := decode(b, enc)
	if err != nil {
		return err
	}
	return designate(self, chars)
}

func stringInitWithData(self *object.Object, args ...any) any {
	r := argAt[io.Reader](StringClass, "initWithData", args, 0)
	enc := argAt[StringEncoding](StringClass, "initWithData", args, 1)
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	chars, err := decode(b, enc)
	if err != nil {
		return err
	}
	return designate(self, chars)
}

func stringInitWithContentsOfFile(self *object.Object, args ...any) any {
	path := argAt[string](StringClass, "initWithContentsOfFile", args, 0)
	enc := argAt[StringEncoding](StringClass, "initWithContentsOfFile", args, 1)
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chars, err := decode(b, enc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return designate(self, chars)
}

func stringInitWithFormat(self *object.Object, args ...any) any {
	format := argAt[string](StringClass, "initWithFormat", args, 0)
	return designate(self, fmt.Sprintf(format, args[1:]...))
}

// ---------------------------------------------------------------------------
// Root overrides
// ---------------------------------------------------------------------------

func stringCopy(self *object.Object, args ...any) any {
	obj, err := object.New(StringClass, charsOf(self))
	if err != nil {
		return err
	}
	return obj
}

func stringDescription(self *object.Object, args ...any) any {
	return charsOf(self)
}

func stringHash(self *object.Object, args ...any) any {
	return int(xxh3.HashString(charsOf(self)))
}

func stringIsEqual(self *object.Object, args ...any) any {
	other, _ := object.SlotArg(StringClass, "isEqual", args, 0).(*object.Object)
	if other == self {
		return true
	}
	if !object.IsKind(other, StringClass) {
		return false
	}
	return charsOf(self) == charsOf(other)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// stringCompareTo compares the characters of self within the range against
// at most the same number of leading characters of other.
func stringCompareTo(self *object.Object, args ...any) any {
	other := charsOf(objectArg(StringClass, "compareTo", args, 0))
	r := argAt[Range](StringClass, "compareTo", args, 1)
	s := charsOf(self)
	checkRange(StringClass, "compareTo", r, len(s))

	if len(other) > r.Length {
		other = other[:r.Length]
	}
	return orderOf(strings.Compare(s[r.Location:r.End()], other))
}

func stringHasPrefix(self *object.Object, args ...any) any {
	prefix := charsOf(objectArg(StringClass, "hasPrefix", args, 0))
	return strings.HasPrefix(charsOf(self), prefix)
}

func stringHasSuffix(self *object.Object, args ...any) any {
	suffix := charsOf(objectArg(StringClass, "hasSuffix", args, 0))
	return strings.HasSuffix(charsOf(self), suffix)
}

// stringRangeOfCharacters finds the first character within the range that
// is any of chars.
func stringRangeOfCharacters(self *object.Object, args ...any) any {
	chars := argAt[string](StringClass, "rangeOfCharacters", args, 0)
	r := argAt[Range](StringClass, "rangeOfCharacters", args, 1)
	s := charsOf(self)
	checkRange(StringClass, "rangeOfCharacters", r, len(s))

	sub := s[r.Location:r.End()]
	i := strings.IndexAny(sub, chars)
	if i < 0 {
		return NotFound
	}
	_, size := utf8.DecodeRuneInString(sub[i:])
	return Range{Location: r.Location + i, Length: size}
}

func stringRangeOfString(self *object.Object, args ...any) any {
	needle := charsOf(objectArg(StringClass, "rangeOfString", args, 0))
	r := argAt[Range](StringClass, "rangeOfString", args, 1)
	s := charsOf(self)
	checkRange(StringClass, "rangeOfString", r, len(s))

	i := strings.Index(s[r.Location:r.End()], needle)
	if i < 0 {
		return NotFound
	}
	return Range{Location: r.Location + i, Length: len(needle)}
}

// ---------------------------------------------------------------------------
// Derived strings
// ---------------------------------------------------------------------------

func newStringResult(chars string) any {
	obj, err := object.New(StringClass, chars)
	if err != nil {
		return err
	}
	return obj
}

func stringSubstring(self *object.Object, args ...any) any {
	r := argAt[Range](StringClass, "substring", args, 0)
	s := charsOf(self)
	checkRange(StringClass, "substring", r, len(s))
	return newStringResult(s[r.Location:r.End()])
}

func stringLowercaseString(self *object.Object, args ...any) any {
	return newStringResult(strings.ToLower(charsOf(self)))
}

func stringUppercaseString(self *object.Object, args ...any) any {
	return newStringResult(strings.ToUpper(charsOf(self)))
}

func stringLowercaseStringWithLocale(self *object.Object, args ...any) any {
	tag := language.Make(argAt[string](StringClass, "lowercaseStringWithLocale", args, 0))
	return newStringResult(cases.Lower(tag).String(charsOf(self)))
}

func stringUppercaseStringWithLocale(self *object.Object, args ...any) any {
	tag := language.Make(argAt[string](StringClass, "uppercaseStringWithLocale", args, 0))
	return newStringResult(cases.Upper(tag).String(charsOf(self)))
}

func stringMutableCopy(self *object.Object, args ...any) any {
	obj, err := object.New(MutableStringClass, charsOf(self))
	if err != nil {
		return err
	}
	return obj
}

// splitAny splits s around every occurrence of any character in chars.
// Adjacent separators produce empty components.
func splitAny(s, chars string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(chars, r) {
			parts = append(parts, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(parts, s[start:])
}

func stringComponentsSeparatedByCharacters(self *object.Object, args ...any) any {
	chars := argAt[string](StringClass, "componentsSeparatedByCharacters", args, 0)
	return stringArray(splitAny(charsOf(self), chars))
}

func stringComponentsSeparatedByString(self *object.Object, args ...any) any {
	sep := charsOf(objectArg(StringClass, "componentsSeparatedByString", args, 0))
	s := charsOf(self)
	if sep == "" {
		return stringArray([]string{s})
	}
	return stringArray(strings.Split(s, sep))
}

// stringArray builds an Array of new Strings. The caller owns both the array
// and its elements.
func stringArray(parts []string) any {
	elems := make([]*object.Object, 0, len(parts))
	fail := func(err error) any {
		for _, e := range elems {
			object.Destroy(e)
		}
		return err
	}
	for _, p := range parts {
		s, err := object.New(StringClass, p)
		if err != nil {
			return fail(err)
		}
		elems = append(elems, s)
	}
	arr, err := object.New(ArrayClass, elems)
	if err != nil {
		return fail(err)
	}
	return arr
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func stringGetData(self *object.Object, args ...any) any {
	enc := argAt[StringEncoding](StringClass, "getData", args, 0)
	b, err := encode(charsOf(self), enc)
	if err != nil {
		return err
	}
	return b
}

func stringWriteToFile(self *object.Object, args ...any) any {
	path := argAt[string](StringClass, "writeToFile", args, 0)
	enc := argAt[StringEncoding](StringClass, "writeToFile", args, 1)
	b, err := encode(charsOf(self), enc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		logger().Errorf("write %s: %s", path, err)
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// String view
// ---------------------------------------------------------------------------

// String is a typed view of a StringClass instance.
type String struct {
	*object.Object
}

// AsString casts o to a String view.
func AsString(o *object.Object) (String, error) {
	return object.CastAs(o, StringClass, func(o *object.Object) String { return String{o} })
}

func stringView(v any) (String, error) {
	obj, err := result(v)
	if err != nil {
		return String{}, err
	}
	return String{obj}, nil
}

// NewString creates a String holding chars.
func NewString(chars string) (String, error) {
	return stringView(newStringResult(chars))
}

// StringWithBytes decodes b from enc into a new String.
func StringWithBytes(b []byte, enc StringEncoding) (String, error) {
	return stringView(newWith(StringClass, "initWithBytes", b, enc))
}

// StringWithData reads r to the end and decodes it from enc into a new String.
func StringWithData(r io.Reader, enc StringEncoding) (String, error) {
	return stringView(newWith(StringClass, "initWithData", r, enc))
}

// StringWithContentsOfFile reads the file at path and decodes it from enc.
func StringWithContentsOfFile(path string, enc StringEncoding) (String, error) {
	return stringView(newWith(StringClass, "initWithContentsOfFile", path, enc))
}

// StringWithFormat creates a String from a fmt format and arguments.
func StringWithFormat(format string, args ...any) (String, error) {
	return stringView(newWith(StringClass, "initWithFormat", append([]any{format}, args...)...))
}

// newWith adapts object.NewWith to a single slot-style result.
func newWith(c *object.Class, initializer string, args ...any) any {
	obj, err := object.NewWith(c, initializer, args...)
	if err != nil {
		return err
	}
	return obj
}

// Chars returns the string's characters.
func (s String) Chars() string {
	return charsOf(s.Object)
}

// Len returns the length of the string in bytes.
func (s String) Len() int {
	return len(charsOf(s.Object))
}

// CompareTo compares the characters of s within r against other.
func (s String) CompareTo(other String, r Range) Order {
	return object.Send(s.Object, "compareTo", other.Object, r).(Order)
}

// ComponentsSeparatedByCharacters splits s around any of chars. The caller
// owns the returned Array and its elements.
func (s String) ComponentsSeparatedByCharacters(chars string) (Array, error) {
	return arrayView(object.Send(s.Object, "componentsSeparatedByCharacters", chars))
}

// ComponentsSeparatedByString splits s around sep. The caller owns the
// returned Array and its elements.
func (s String) ComponentsSeparatedByString(sep String) (Array, error) {
	return arrayView(object.Send(s.Object, "componentsSeparatedByString", sep.Object))
}

// Data encodes s in enc.
func (s String) Data(enc StringEncoding) ([]byte, error) {
	switch v := object.Send(s.Object, "getData", enc).(type) {
	case []byte:
		return v, nil
	case error:
		return nil, v
	}
	return nil, nil
}

// HasPrefix reports whether s begins with prefix.
func (s String) HasPrefix(prefix String) bool {
	return object.Send(s.Object, "hasPrefix", prefix.Object).(bool)
}

// HasSuffix reports whether s ends with suffix.
func (s String) HasSuffix(suffix String) bool {
	return object.Send(s.Object, "hasSuffix", suffix.Object).(bool)
}

func (s String) LowercaseString() (String, error) {
	return stringView(object.Send(s.Object, "lowercaseString"))
}

func (s String) LowercaseStringWithLocale(locale string) (String, error) {
	return stringView(object.Send(s.Object, "lowercaseStringWithLocale", locale))
}

func (s String) UppercaseString() (String, error) {
	return stringView(object.Send(s.Object, "uppercaseString"))
}

func (s String) UppercaseStringWithLocale(locale string) (String, error) {
	return stringView(object.Send(s.Object, "uppercaseStringWithLocale", locale))
}

// MutableCopy returns a new MutableString with the characters of s.
func (s String) MutableCopy() (MutableString, error) {
	return mutableStringView(object.Send(s.Object, "mutableCopy"))
}

// RangeOfCharacters finds the first of chars within r, or NotFound.
func (s String) RangeOfCharacters(chars string, r Range) Range {
	return object.Send(s.Object, "rangeOfCharacters", chars, r).(Range)
}

// RangeOfString finds the first occurrence of other within r, or NotFound.
func (s String) RangeOfString(other String, r Range) Range {
	return object.Send(s.Object, "rangeOfString", other.Object, r).(Range)
}

// Substring returns a new String holding the characters of s within r.
func (s String) Substring(r Range) (String, error) {
	return stringView(object.Send(s.Object, "substring", r))
}

// WriteToFile encodes s in enc and writes it to path.
func (s String) WriteToFile(path string, enc StringEncoding) error {
	err, _ := object.Send(s.Object, "writeToFile", path, enc).(error)
	return err
}

// FullRange returns the range covering all of s.
func (s String) FullRange() Range {
	return Range{Length: s.Len()}
}
