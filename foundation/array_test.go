package foundation

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/objective/object"
	"github.com/google/go-cmp/cmp"
)

func byChars(a, b *object.Object) Order {
	return orderOf(strings.Compare(charsOf(a), charsOf(b)))
}

func mustArray(t *testing.T, words ...string) Array {
	t.Helper()
	elems := make([]*object.Object, len(words))
	for i, w := range words {
		elems[i] = mustString(t, w).Object
	}
	arr, err := NewArray(elems...)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	t.Cleanup(func() { object.Destroy(arr.Object) })
	return arr
}

// ---------------------------------------------------------------------------
// Array tests
// ---------------------------------------------------------------------------

func TestArrayMembership(t *testing.T) {
	arr := mustArray(t, "a", "b", "c")

	if arr.Count() != 3 {
		t.Fatalf("Count = %d, want 3", arr.Count())
	}
	if got := charsOf(arr.ObjectAtIndex(1)); got != "b" {
		t.Errorf("ObjectAtIndex(1) = %q, want b", got)
	}

	// Membership asks the needle's isEqual, so an equal but distinct String
	// is found.
	needle := mustString(t, "c")
	if got := arr.IndexOfObject(needle.Object); got != 2 {
		t.Errorf("IndexOfObject(c) = %d, want 2", got)
	}
	if !arr.ContainsObject(needle.Object) {
		t.Error("ContainsObject(c) = false")
	}
	if arr.ContainsObject(mustString(t, "z").Object) {
		t.Error("ContainsObject(z) = true")
	}
}

func TestArrayMutation(t *testing.T) {
	arr := mustArray(t, "a", "b", "c", "b")

	arr.RemoveObject(mustString(t, "b").Object)
	if diff := cmp.Diff([]string{"a", "c", "b"}, chars(arr)); diff != "" {
		t.Errorf("after RemoveObject (-want +got):\n%s", diff)
	}
	arr.RemoveObject(mustString(t, "missing").Object)
	if arr.Count() != 3 {
		t.Errorf("RemoveObject(missing) changed count to %d", arr.Count())
	}

	arr.RemoveObjectAtIndex(0)
	arr.AddObject(mustString(t, "d").Object)
	if diff := cmp.Diff([]string{"c", "b", "d"}, chars(arr)); diff != "" {
		t.Errorf("after RemoveObjectAtIndex/AddObject (-want +got):\n%s", diff)
	}

	arr.RemoveAllObjects()
	if arr.Count() != 0 {
		t.Errorf("Count after RemoveAllObjects = %d", arr.Count())
	}
}

func TestArrayContractViolations(t *testing.T) {
	arr := mustArray(t, "a")

	expectContractViolation(t, func() { arr.ObjectAtIndex(1) })
	expectContractViolation(t, func() { arr.RemoveObjectAtIndex(-1) })
	expectContractViolation(t, func() { arr.AddObject(nil) })
	expectContractViolation(t, func() { NewArray(nil) })
}

func TestArrayFilterAndSort(t *testing.T) {
	arr := mustArray(t, "pear", "apple", "plum", "fig")

	long, err := arr.Filter(func(o *object.Object, data any) bool {
		return len(charsOf(o)) >= data.(int)
	}, 4)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	defer object.Destroy(long.Object)
	if diff := cmp.Diff([]string{"pear", "apple", "plum"}, chars(long)); diff != "" {
		t.Errorf("Filter (-want +got):\n%s", diff)
	}
	if long.ObjectAtIndex(0) != arr.ObjectAtIndex(0) {
		t.Error("Filter should share elements with the receiver")
	}

	arr.Sort(byChars)
	if diff := cmp.Diff([]string{"apple", "fig", "pear", "plum"}, chars(arr)); diff != "" {
		t.Errorf("Sort (-want +got):\n%s", diff)
	}
}

func TestArrayRootSlots(t *testing.T) {
	a := mustArray(t, "x", "y")
	b := mustArray(t, "x", "y")
	c := mustArray(t, "y", "x")

	if !object.Equal(a.Object, b.Object) {
		t.Error("arrays with equal elements compare unequal")
	}
	if object.Equal(a.Object, c.Object) {
		t.Error("arrays in different order compare equal")
	}
	if object.Hash(a.Object) != object.Hash(b.Object) {
		t.Error("equal arrays hash differently")
	}
	if got := object.Describe(a.Object); got != "(x, y)" {
		t.Errorf("Describe = %q, want (x, y)", got)
	}

	cp, err := object.Copy(a.Object)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	defer object.Destroy(cp)
	if !object.Equal(cp, a.Object) {
		t.Error("Copy is not equal to the original")
	}
	cpArr, _ := AsArray(cp)
	cpArr.RemoveAllObjects()
	if a.Count() != 2 {
		t.Error("mutating the copy changed the original")
	}
}

func TestArrayBorrowsElements(t *testing.T) {
	s := mustString(t, "survivor")
	arr, err := NewArray(s.Object, s.Object)
	if err != nil {
		t.Fatal(err)
	}
	object.Destroy(arr.Object)

	if s.Chars() != "survivor" {
		t.Errorf("element damaged by array destruction: %q", s.Chars())
	}
}

func TestArrayDestroyWithElementsSkipsDuplicates(t *testing.T) {
	s, err := NewString("shared")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewArray(s.Object, s.Object)
	if err != nil {
		t.Fatal(err)
	}
	arr.DestroyWithElements()

	if s.Class() != nil {
		t.Error("element still live after DestroyWithElements")
	}
}

func TestAsArray(t *testing.T) {
	s := mustString(t, "not an array")
	if _, err := AsArray(s.Object); !errors.Is(err, object.ErrCast) {
		t.Errorf("AsArray(String) err = %v, want ErrCast", err)
	}
}

// ---------------------------------------------------------------------------
// IndexPath tests
// ---------------------------------------------------------------------------

func mustIndexPath(t *testing.T, indexes ...int) IndexPath {
	t.Helper()
	p, err := NewIndexPath(indexes...)
	if err != nil {
		t.Fatalf("NewIndexPath(%v) failed: %v", indexes, err)
	}
	t.Cleanup(func() { object.Destroy(p.Object) })
	return p
}

func TestIndexPath(t *testing.T) {
	p := mustIndexPath(t, 1, 2, 3)

	if p.Length() != 3 {
		t.Errorf("Length = %d, want 3", p.Length())
	}
	if got := p.IndexAtPosition(1); got != 2 {
		t.Errorf("IndexAtPosition(1) = %d, want 2", got)
	}
	if got := object.Describe(p.Object); got != "[1, 2, 3]" {
		t.Errorf("Describe = %q, want [1, 2, 3]", got)
	}

	indexes := p.Indexes()
	indexes[0] = 99
	if p.IndexAtPosition(0) != 1 {
		t.Error("Indexes exposes internal storage")
	}

	expectContractViolation(t, func() { p.IndexAtPosition(3) })
	expectContractViolation(t, func() { p.IndexAtPosition(-1) })
}

func TestIndexPathEquality(t *testing.T) {
	p := mustIndexPath(t, 1, 2, 3)
	q := mustIndexPath(t, 1, 2, 3)
	r := mustIndexPath(t, 1, 2)

	if !object.Equal(p.Object, p.Object) {
		t.Error("path not equal to itself")
	}
	if !object.Equal(p.Object, q.Object) {
		t.Error("equal paths compare unequal")
	}
	if object.Equal(p.Object, r.Object) {
		t.Error("paths of different length compare equal")
	}
	if object.Hash(p.Object) != object.Hash(q.Object) {
		t.Error("equal paths hash differently")
	}

	cp, err := object.Copy(p.Object)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	defer object.Destroy(cp)
	if !object.Equal(cp, p.Object) {
		t.Error("Copy is not equal to the original")
	}
}

func TestIndexPathWithIndex(t *testing.T) {
	obj, err := object.NewWith(IndexPathClass, "initWithIndex", 5)
	if err != nil {
		t.Fatalf("NewWith(initWithIndex) failed: %v", err)
	}
	defer object.Destroy(obj)
	p, _ := AsIndexPath(obj)
	if diff := cmp.Diff([]int{5}, p.Indexes()); diff != "" {
		t.Errorf("Indexes (-want +got):\n%s", diff)
	}
}

func TestEmptyIndexPathFailsConstruction(t *testing.T) {
	budget := object.NewBudgetAllocator(100)
	defer object.SetAllocator(object.SetAllocator(budget))

	_, err := NewIndexPath()
	if !errors.Is(err, object.ErrConstruction) || !errors.Is(err, ErrEmptyIndexPath) {
		t.Errorf("err = %v, want ErrConstruction wrapping ErrEmptyIndexPath", err)
	}
	if budget.Live() != 0 {
		t.Errorf("Live = %d after failed construction, want 0", budget.Live())
	}
}
