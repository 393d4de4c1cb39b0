package foundation

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/objective/object"
)

// ErrEmptyIndexPath is returned when an IndexPath is constructed without
// any indexes.
var ErrEmptyIndexPath = errors.New("index path has no indexes")

// IndexPathClass describes immutable paths of indexes into nested
// collections.
var IndexPathClass = &object.Class{
	Name:       "IndexPath",
	Superclass: object.ObjectClass,
	InstVars:   []string{"indexes"},
	Interface: []string{
		"indexAtPosition",
		"initWithIndex",
		"initWithIndexes",
		"length",
	},
}

var indexPathIndexes = IndexPathClass.InstVarIndex("indexes")

func init() {
	IndexPathClass.Initialize = initializeIndexPath
}

func initializeIndexPath(c *object.Class) {
	c.Override("init", indexPathInit)
	c.Override("copy", indexPathCopy)
	c.Override("dealloc", indexPathDealloc)
	c.Override("description", indexPathDescription)
	c.Override("hash", indexPathHash)
	c.Override("isEqual", indexPathIsEqual)

	c.Define("indexAtPosition", indexPathIndexAtPosition)
	c.Define("initWithIndex", indexPathInitWithIndex)
	c.Define("initWithIndexes", indexPathInitWithIndexes)
	c.Define("length", indexPathLength)
}

func indexesOf(o *object.Object) []int {
	return object.Get[[]int](o, indexPathIndexes)
}

func indexPathInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	indexes := object.Arg[[]int](a, nil)
	if len(indexes) == 0 {
		return ErrEmptyIndexPath
	}
	self.SetSlot(indexPathIndexes, slices.Clone(indexes))
	return self
}

func indexPathInitWithIndex(self *object.Object, args ...any) any {
	index := argAt[int](IndexPathClass, "initWithIndex", args, 0)
	return object.Invoke(self, object.SelInit, object.NewArgs([]int{index}))
}

func indexPathInitWithIndexes(self *object.Object, args ...any) any {
	indexes := argAt[[]int](IndexPathClass, "initWithIndexes", args, 0)
	return object.Invoke(self, object.SelInit, object.NewArgs(indexes))
}

func indexPathCopy(self *object.Object, args ...any) any {
	obj, err := object.New(IndexPathClass, indexesOf(self))
	if err != nil {
		return err
	}
	return obj
}

func indexPathDealloc(self *object.Object, args ...any) any {
	self.SetSlot(indexPathIndexes, nil)
	object.SuperDealloc(object.ObjectClass, self)
	return nil
}

func indexPathDescription(self *object.Object, args ...any) any {
	var b strings.Builder
	b.WriteByte('[')
	for i, index := range indexesOf(self) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(index))
	}
	b.WriteByte(']')
	return b.String()
}

func indexPathHash(self *object.Object, args ...any) any {
	h := 17
	for _, index := range indexesOf(self) {
		h = 31*h + index
	}
	return h
}

func indexPathIsEqual(self *object.Object, args ...any) any {
	if object.Super(object.ObjectClass, self, "isEqual", args...).(bool) {
		return true
	}
	other, _ := object.SlotArg(IndexPathClass, "isEqual", args, 0).(*object.Object)
	if !object.IsKind(other, IndexPathClass) {
		return false
	}
	return slices.Equal(indexesOf(self), indexesOf(other))
}

func indexPathIndexAtPosition(self *object.Object, args ...any) any {
	position := argAt[int](IndexPathClass, "indexAtPosition", args, 0)
	indexes := indexesOf(self)
	if position < 0 || position >= len(indexes) {
		panic(object.Fatal(IndexPathClass, "indexAtPosition", "position %d out of bounds (length %d)", position, len(indexes)))
	}
	return indexes[position]
}

func indexPathLength(self *object.Object, args ...any) any {
	return len(indexesOf(self))
}

// ---------------------------------------------------------------------------
// IndexPath view
// ---------------------------------------------------------------------------

// IndexPath is a typed view of an IndexPathClass instance.
type IndexPath struct {
	*object.Object
}

// AsIndexPath casts o to an IndexPath view.
func AsIndexPath(o *object.Object) (IndexPath, error) {
	return object.CastAs(o, IndexPathClass, func(o *object.Object) IndexPath { return IndexPath{o} })
}

// NewIndexPath creates an IndexPath. At least one index is required.
func NewIndexPath(indexes ...int) (IndexPath, error) {
	obj, err := object.NewWith(IndexPathClass, "initWithIndexes", indexes)
	if err != nil {
		return IndexPath{}, err
	}
	return IndexPath{obj}, nil
}

func (p IndexPath) IndexAtPosition(position int) int {
	return object.Send(p.Object, "indexAtPosition", position).(int)
}

func (p IndexPath) Length() int {
	return object.Send(p.Object, "length").(int)
}

// Indexes returns a copy of the path's indexes.
func (p IndexPath) Indexes() []int {
	return slices.Clone(indexesOf(p.Object))
}
