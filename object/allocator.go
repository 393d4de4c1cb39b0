package object

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Allocator reserves and reclaims instance storage.
type Allocator interface {
	// Allocate returns zeroed storage for one instance of c.
	Allocate(c *Class) ([]any, error)
	// Free reclaims storage previously returned by Allocate for c.
	Free(c *Class, slots []any)
}

// HeapAllocator allocates from the Go heap without limit.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(c *Class) ([]any, error) {
	return make([]any, c.InstanceSize()), nil
}

// Free implements Allocator.
func (HeapAllocator) Free(*Class, []any) {}

// BudgetAllocator allocates from the Go heap but refuses to keep more than a
// fixed number of cells live. Every instance costs one cell for its header
// plus one per instance variable.
type BudgetAllocator struct {
	mu       sync.Mutex
	maxCells int
	live     int
}

// NewBudgetAllocator creates an allocator holding at most maxCells live cells.
func NewBudgetAllocator(maxCells int) *BudgetAllocator {
	return &BudgetAllocator{maxCells: maxCells}
}

func cellsFor(c *Class) int {
	return 1 + c.InstanceSize()
}

// Allocate implements Allocator.
func (b *BudgetAllocator) Allocate(c *Class) ([]any, error) {
	n := cellsFor(c)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.live+n > b.maxCells {
		return nil, fmt.Errorf("%w: %s needs %d cells, %d of %d in use",
			ErrOutOfMemory, c.Name, n, b.live, b.maxCells)
	}
	b.live += n
	return make([]any, c.InstanceSize()), nil
}

// Free implements Allocator.
func (b *BudgetAllocator) Free(c *Class, _ []any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.live -= cellsFor(c)
}

// Live returns the number of cells currently in use.
func (b *BudgetAllocator) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

type allocatorBox struct {
	a Allocator
}

var allocator atomic.Pointer[allocatorBox]

func init() {
	allocator.Store(&allocatorBox{a: HeapAllocator{}})
}

// SetAllocator installs a as the process allocator and returns the previous
// one. Objects already allocated are released through the allocator that
// allocated them.
func SetAllocator(a Allocator) Allocator {
	if a == nil {
		a = HeapAllocator{}
	}
	return allocator.Swap(&allocatorBox{a: a}).a
}

// CurrentAllocator returns the process allocator.
func CurrentAllocator() Allocator {
	return allocator.Load().a
}
