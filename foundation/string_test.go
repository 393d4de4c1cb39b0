package foundation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/objective/object"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// String tests
// ---------------------------------------------------------------------------

func TestStringQueries(t *testing.T) {
	s := mustString(t, "hello world")

	if got := s.Chars(); got != "hello world" {
		t.Errorf("Chars = %q", got)
	}
	if got := s.Len(); got != 11 {
		t.Errorf("Len = %d, want 11", got)
	}
	if !s.HasPrefix(mustString(t, "hello")) {
		t.Error("HasPrefix(hello) = false")
	}
	if s.HasPrefix(mustString(t, "world")) {
		t.Error("HasPrefix(world) = true")
	}
	if !s.HasSuffix(mustString(t, "world")) {
		t.Error("HasSuffix(world) = false")
	}

	if got, want := s.RangeOfString(mustString(t, "o"), s.FullRange()), (Range{4, 1}); got != want {
		t.Errorf("RangeOfString(o) = %v, want %v", got, want)
	}
	if got, want := s.RangeOfString(mustString(t, "o"), Range{5, 6}), (Range{7, 1}); got != want {
		t.Errorf("RangeOfString(o, {5, 6}) = %v, want %v", got, want)
	}
	if got := s.RangeOfString(mustString(t, "xyz"), s.FullRange()); got != NotFound {
		t.Errorf("RangeOfString(xyz) = %v, want NotFound", got)
	}
	if got, want := s.RangeOfCharacters("wr", s.FullRange()), (Range{6, 1}); got != want {
		t.Errorf("RangeOfCharacters(wr) = %v, want %v", got, want)
	}
	if got := s.RangeOfCharacters("z", s.FullRange()); got != NotFound {
		t.Errorf("RangeOfCharacters(z) = %v, want NotFound", got)
	}
}

func TestStringRangeOfCharactersMultibyte(t *testing.T) {
	s := mustString(t, "añb")
	if got, want := s.RangeOfCharacters("ñ", s.FullRange()), (Range{1, 2}); got != want {
		t.Errorf("RangeOfCharacters(ñ) = %v, want %v", got, want)
	}
}

func TestStringCompareTo(t *testing.T) {
	s := mustString(t, "hello")

	tests := []struct {
		other string
		r     Range
		want  Order
	}{
		{"hel", Range{0, 3}, OrderSame},
		{"help", Range{0, 3}, OrderSame},
		{"help", Range{0, 5}, OrderAscending},
		{"ell", Range{1, 3}, OrderSame},
		{"abc", Range{0, 5}, OrderDescending},
		{"hello", Range{0, 5}, OrderSame},
		{"hell", Range{0, 5}, OrderDescending},
	}
	for _, tt := range tests {
		if got := s.CompareTo(mustString(t, tt.other), tt.r); got != tt.want {
			t.Errorf("CompareTo(%q, %v) = %d, want %d", tt.other, tt.r, got, tt.want)
		}
	}
}

func TestStringRangeOutOfBoundsPanics(t *testing.T) {
	s := mustString(t, "abc")
	for _, r := range []Range{{0, 4}, {-1, 1}, {2, -1}, {4, 0}} {
		v := expectContractViolation(t, func() { s.Substring(r) })
		if v.Op != "substring" {
			t.Errorf("Op = %q, want substring", v.Op)
		}
	}
	expectContractViolation(t, func() { s.CompareTo(mustString(t, "abc"), Range{1, 3}) })
}

func TestStringDerived(t *testing.T) {
	s := mustString(t, "Hello World")

	check := func(name string, got String, err error, want string) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		defer object.Destroy(got.Object)
		if got.Chars() != want {
			t.Errorf("%s = %q, want %q", name, got.Chars(), want)
		}
		if got.Object == s.Object {
			t.Errorf("%s returned the receiver", name)
		}
	}

	sub, err := s.Substring(Range{6, 5})
	check("Substring", sub, err, "World")
	lower, err := s.LowercaseString()
	check("LowercaseString", lower, err, "hello world")
	upper, err := s.UppercaseString()
	check("UppercaseString", upper, err, "HELLO WORLD")

	i := mustString(t, "i")
	tr, err := i.UppercaseStringWithLocale("tr")
	check("UppercaseStringWithLocale(tr)", tr, err, "İ")
	en, err := i.UppercaseStringWithLocale("en_US")
	check("UppercaseStringWithLocale(en_US)", en, err, "I")
	dotted := mustString(t, "I")
	trLower, err := dotted.LowercaseStringWithLocale("tr")
	check("LowercaseStringWithLocale(tr)", trLower, err, "ı")
}

func TestStringComponents(t *testing.T) {
	tests := []struct {
		name  string
		split func(s String) (Array, error)
		input string
		want  []string
	}{
		{
			name:  "by string",
			split: func(s String) (Array, error) { return s.ComponentsSeparatedByString(mustString(t, ", ")) },
			input: "a, b, , c",
			want:  []string{"a", "b", "", "c"},
		},
		{
			name:  "by empty string",
			split: func(s String) (Array, error) { return s.ComponentsSeparatedByString(mustString(t, "")) },
			input: "abc",
			want:  []string{"abc"},
		},
		{
			name:  "by characters",
			split: func(s String) (Array, error) { return s.ComponentsSeparatedByCharacters(" ;") },
			input: "a b;c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "adjacent separators",
			split: func(s String) (Array, error) { return s.ComponentsSeparatedByCharacters(",") },
			input: ",a,,",
			want:  []string{"", "a", "", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr, err := tt.split(mustString(t, tt.input))
			if err != nil {
				t.Fatalf("split failed: %v", err)
			}
			defer arr.DestroyWithElements()
			if diff := cmp.Diff(tt.want, chars(arr)); diff != "" {
				t.Errorf("components mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringComponentsOutOfMemoryCleansUp(t *testing.T) {
	s := mustString(t, "a,b,c")
	sep := mustString(t, ",")

	// Each String and the Array cost two cells: three components fit, the
	// array does not.
	budget := object.NewBudgetAllocator(7)
	defer object.SetAllocator(object.SetAllocator(budget))

	if _, err := s.ComponentsSeparatedByString(sep); !errors.Is(err, object.ErrOutOfMemory) {
		t.Fatalf("err = %v, want ErrOutOfMemory", err)
	}
	if budget.Live() != 0 {
		t.Errorf("Live = %d, want 0", budget.Live())
	}
}

func TestStringRootSlots(t *testing.T) {
	a := mustString(t, "same")
	b := mustString(t, "same")
	c := mustString(t, "different")

	if !object.Equal(a.Object, b.Object) {
		t.Error("equal strings compare unequal")
	}
	if object.Equal(a.Object, c.Object) {
		t.Error("different strings compare equal")
	}
	if object.Hash(a.Object) != object.Hash(b.Object) {
		t.Error("equal strings hash differently")
	}
	if got := object.Describe(a.Object); got != "same" {
		t.Errorf("Describe = %q, want same", got)
	}

	arr, err := NewArray()
	if err != nil {
		t.Fatal(err)
	}
	defer object.Destroy(arr.Object)
	if object.Equal(a.Object, arr.Object) {
		t.Error("string equals an array")
	}

	cp, err := object.Copy(a.Object)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	defer object.Destroy(cp)
	if cp == a.Object || !object.Equal(cp, a.Object) {
		t.Error("Copy should return a distinct equal string")
	}
	if cp.Class() != StringClass {
		t.Errorf("Copy class = %s, want String", cp.Class())
	}
}

func TestStringWithFormat(t *testing.T) {
	s, err := StringWithFormat("%d-%s", 7, "x")
	if err != nil {
		t.Fatalf("StringWithFormat failed: %v", err)
	}
	defer object.Destroy(s.Object)
	if s.Chars() != "7-x" {
		t.Errorf("Chars = %q, want 7-x", s.Chars())
	}
}

func TestStringWithData(t *testing.T) {
	s, err := StringWithData(strings.NewReader("streamed"), StringEncodingUTF8)
	if err != nil {
		t.Fatalf("StringWithData failed: %v", err)
	}
	defer object.Destroy(s.Object)
	if s.Chars() != "streamed" {
		t.Errorf("Chars = %q, want streamed", s.Chars())
	}
}

// ---------------------------------------------------------------------------
// Encoding tests
// ---------------------------------------------------------------------------

func TestStringEncodingRoundTrip(t *testing.T) {
	tests := []struct {
		enc  StringEncoding
		text string
	}{
		{StringEncodingASCII, "plain text"},
		{StringEncodingLatin1, "Grüße"},
		{StringEncodingLatin2, "Grüße, Łódź"},
		{StringEncodingMacRoman, "Grüße"},
		{StringEncodingUTF8, "héllo, 世界"},
		{StringEncodingUTF16, "héllo, 世界"},
		{StringEncodingUTF32, "héllo, 世界"},
		{StringEncodingWCP1250, "Grüße"},
		{StringEncodingWCP1251, "Привет"},
		{StringEncodingWCP1252, "Grüße €"},
	}
	for _, tt := range tests {
		t.Run(tt.enc.String(), func(t *testing.T) {
			s := mustString(t, tt.text)
			data, err := s.Data(tt.enc)
			if err != nil {
				t.Fatalf("Data failed: %v", err)
			}
			back, err := StringWithBytes(data, tt.enc)
			if err != nil {
				t.Fatalf("StringWithBytes failed: %v", err)
			}
			defer object.Destroy(back.Object)
			if back.Chars() != tt.text {
				t.Errorf("round trip = %q, want %q", back.Chars(), tt.text)
			}
		})
	}
}

func TestStringInvalidBytesFailConstruction(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		enc  StringEncoding
	}{
		{"ASCII high bit", []byte{'a', 0xff}, StringEncodingASCII},
		{"UTF-8 truncated", []byte{0xe4, 0xb8}, StringEncodingUTF8},
		{"UTF-16 lone high surrogate", []byte{0xd8, 0x00}, StringEncodingUTF16},
		{"UTF-16 lone low surrogate", []byte{0x00, 0x41, 0xdc, 0x00}, StringEncodingUTF16},
		{"UTF-16 odd length", []byte{0x00, 0x41, 0x00}, StringEncodingUTF16},
		{"UTF-16 little-endian lone surrogate", []byte{0xff, 0xfe, 0x00, 0xd8}, StringEncodingUTF16},
		{"UTF-32 out of range", []byte{0x00, 0x11, 0x00, 0x00}, StringEncodingUTF32},
		{"UTF-32 surrogate", []byte{0x00, 0x00, 0xd8, 0x00}, StringEncodingUTF32},
		{"UTF-32 misaligned", []byte{0x00, 0x00, 0x41}, StringEncodingUTF32},
		{"CP1252 unmapped", []byte{'a', 0x81}, StringEncodingWCP1252},
		{"CP1251 unmapped", []byte{0x98}, StringEncodingWCP1251},
		{"unknown encoding", []byte("x"), StringEncoding(99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StringWithBytes(tt.b, tt.enc)
			if !errors.Is(err, object.ErrConstruction) {
				t.Errorf("err = %v, want ErrConstruction", err)
			}
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("err = %v, want ErrEncoding", err)
			}
		})
	}
}

func TestStringExplicitReplacementCharacter(t *testing.T) {
	tests := []struct {
		b   []byte
		enc StringEncoding
	}{
		{[]byte{0xff, 0xfd}, StringEncodingUTF16},
		{[]byte{0x00, 0x00, 0xff, 0xfd}, StringEncodingUTF32},
		{[]byte{0xef, 0xbf, 0xbd}, StringEncodingUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.enc.String(), func(t *testing.T) {
			s, err := StringWithBytes(tt.b, tt.enc)
			if err != nil {
				t.Fatalf("StringWithBytes failed: %v", err)
			}
			defer object.Destroy(s.Object)
			if s.Chars() != "\uFFFD" {
				t.Errorf("Chars() = %q, want U+FFFD", s.Chars())
			}
		})
	}
}

func TestStringUnencodableData(t *testing.T) {
	s := mustString(t, "世界")
	for _, enc := range []StringEncoding{StringEncodingASCII, StringEncodingLatin1} {
		if _, err := s.Data(enc); !errors.Is(err, ErrEncoding) {
			t.Errorf("Data(%s) err = %v, want ErrEncoding", enc, err)
		}
	}
}

func TestStringFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf16.txt")
	s := mustString(t, "on disk, 世界")
	if err := s.WriteToFile(path, StringEncodingUTF16); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}

	back, err := StringWithContentsOfFile(path, StringEncodingUTF16)
	if err != nil {
		t.Fatalf("StringWithContentsOfFile failed: %v", err)
	}
	defer object.Destroy(back.Object)
	if !object.Equal(back.Object, s.Object) {
		t.Errorf("read back %q, want %q", back.Chars(), s.Chars())
	}

	if _, err := StringWithContentsOfFile(filepath.Join(t.TempDir(), "missing"), StringEncodingUTF8); !errors.Is(err, object.ErrConstruction) {
		t.Errorf("missing file err = %v, want ErrConstruction", err)
	}
}

func TestParseStringEncoding(t *testing.T) {
	tests := map[string]StringEncoding{
		"utf-8":        StringEncodingUTF8,
		"UTF-16":       StringEncodingUTF16,
		"iso-8859-1":   StringEncodingLatin1,
		"windows-1251": StringEncodingWCP1251,
		"macroman":     StringEncodingMacRoman,
	}
	for name, want := range tests {
		got, err := ParseStringEncoding(name)
		if err != nil || got != want {
			t.Errorf("ParseStringEncoding(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseStringEncoding("EBCDIC"); !errors.Is(err, ErrEncoding) {
		t.Errorf("ParseStringEncoding(EBCDIC) err = %v, want ErrEncoding", err)
	}
}

// ---------------------------------------------------------------------------
// MutableString tests
// ---------------------------------------------------------------------------

func TestMutableStringEditing(t *testing.T) {
	m, err := NewMutableString("hello")
	if err != nil {
		t.Fatalf("NewMutableString failed: %v", err)
	}
	defer object.Destroy(m.Object)

	steps := []struct {
		edit func()
		want string
	}{
		{func() { m.AppendCharacters(" world") }, "hello world"},
		{func() { m.AppendFormat(" %d", 42) }, "hello world 42"},
		{func() { m.AppendString(mustString(t, "!")) }, "hello world 42!"},
		{func() { m.InsertCharactersAtIndex(">", 0) }, ">hello world 42!"},
		{func() { m.DeleteCharactersInRange(Range{0, 1}) }, "hello world 42!"},
		{func() { m.ReplaceCharactersInRange(Range{0, 5}, "HOWDY") }, "HOWDY world 42!"},
		{func() { m.ReplaceStringInRange(Range{6, 5}, mustString(t, "there")) }, "HOWDY there 42!"},
		{func() { m.InsertStringAtIndex(mustString(t, "?"), m.Len()) }, "HOWDY there 42!?"},
	}
	for i, step := range steps {
		step.edit()
		if got := m.Chars(); got != step.want {
			t.Fatalf("step %d: Chars = %q, want %q", i, got, step.want)
		}
		if m.Capacity() < m.Len() {
			t.Fatalf("step %d: Capacity %d < Len %d", i, m.Capacity(), m.Len())
		}
	}

	// String slots still work on the mutable subclass.
	if !m.HasPrefix(mustString(t, "HOWDY")) {
		t.Error("HasPrefix on MutableString = false")
	}
}

func TestMutableStringCapacity(t *testing.T) {
	m, err := MutableStringWithCapacity(16)
	if err != nil {
		t.Fatalf("MutableStringWithCapacity failed: %v", err)
	}
	defer object.Destroy(m.Object)

	if m.Len() != 0 || m.Capacity() != 16 {
		t.Errorf("Len, Capacity = %d, %d; want 0, 16", m.Len(), m.Capacity())
	}
	m.AppendCharacters(strings.Repeat("x", 20))
	if m.Capacity() != 32 {
		t.Errorf("Capacity after growth = %d, want 32", m.Capacity())
	}
}

func TestMutableStringNamedInitializersRunSubclassInit(t *testing.T) {
	obj, err := object.NewWith(MutableStringClass, "initWithBytes", []byte("bytes"), StringEncodingUTF8)
	if err != nil {
		t.Fatalf("NewWith failed: %v", err)
	}
	defer object.Destroy(obj)

	m, err := AsMutableString(obj)
	if err != nil {
		t.Fatalf("AsMutableString failed: %v", err)
	}
	if m.Chars() != "bytes" || m.Capacity() != 5 {
		t.Errorf("Chars, Capacity = %q, %d; want bytes, 5", m.Chars(), m.Capacity())
	}
}

func TestMutableStringWithString(t *testing.T) {
	s := mustString(t, "seed")
	m, err := MutableStringWithString(s)
	if err != nil {
		t.Fatalf("MutableStringWithString failed: %v", err)
	}
	defer object.Destroy(m.Object)

	if m.Chars() != "seed" || m.Capacity() != 4 {
		t.Errorf("Chars, Capacity = %q, %d; want seed, 4", m.Chars(), m.Capacity())
	}
	m.AppendCharacters("ling")
	if s.Chars() != "seed" {
		t.Errorf("source changed to %q", s.Chars())
	}

	expectContractViolation(t, func() {
		object.NewWith(MutableStringClass, "initWithString")
	})
}

func TestIsEqualWithoutArgumentPanics(t *testing.T) {
	s := mustString(t, "x")
	a, err := NewArray()
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	defer object.Destroy(a.Object)

	for _, obj := range []*object.Object{s.Object, a.Object} {
		v := expectContractViolation(t, func() { object.Send(obj, "isEqual") })
		if !strings.Contains(v.Msg, "missing argument") {
			t.Errorf("%s: Msg = %q, want missing argument", obj.ClassName(), v.Msg)
		}
	}
}

func TestMutableCopy(t *testing.T) {
	s := mustString(t, "original")
	m, err := s.MutableCopy()
	if err != nil {
		t.Fatalf("MutableCopy failed: %v", err)
	}
	defer object.Destroy(m.Object)

	m.AppendCharacters("!")
	if s.Chars() != "original" {
		t.Errorf("original changed to %q", s.Chars())
	}
	if m.Chars() != "original!" {
		t.Errorf("copy = %q, want original!", m.Chars())
	}

	cp, err := object.Copy(m.Object)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	defer object.Destroy(cp)
	if cp.Class() != MutableStringClass {
		t.Errorf("Copy class = %s, want MutableString", cp.Class())
	}
}

func TestMutableStringCasts(t *testing.T) {
	s := mustString(t, "immutable")
	if _, err := AsMutableString(s.Object); !errors.Is(err, object.ErrCast) {
		t.Errorf("AsMutableString(String) err = %v, want ErrCast", err)
	}

	m, err := NewMutableString("mutable")
	if err != nil {
		t.Fatal(err)
	}
	defer object.Destroy(m.Object)
	if _, err := AsString(m.Object); err != nil {
		t.Errorf("AsString(MutableString) failed: %v", err)
	}
}

func TestMutableStringIndexOutOfBoundsPanics(t *testing.T) {
	m, err := NewMutableString("abc")
	if err != nil {
		t.Fatal(err)
	}
	defer object.Destroy(m.Object)

	expectContractViolation(t, func() { m.InsertCharactersAtIndex("x", 4) })
	expectContractViolation(t, func() { m.DeleteCharactersInRange(Range{2, 2}) })
	if m.Chars() != "abc" {
		t.Errorf("Chars = %q after failed edits, want abc", m.Chars())
	}
}
