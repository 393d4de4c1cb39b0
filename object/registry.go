package object

import (
	"sort"
	"sync"
)

// ---------------------------------------------------------------------------
// ClassTable: registry of ready classes
// ---------------------------------------------------------------------------

// ClassTable records classes by name once they become ready.
// It's thread-safe for concurrent access.
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// Classes holds every class that has been readied in this process. Names are
// diagnostic only; a later class with the same name replaces an earlier one.
var Classes = NewClassTable()

// NewClassTable creates a new empty class table.
func NewClassTable() *ClassTable {
	return &ClassTable{
		classes: make(map[string]*Class),
	}
}

// Register adds a class to the table.
// Returns the previous class with this name, or nil.
func (ct *ClassTable) Register(c *Class) *Class {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	old := ct.classes[c.Name]
	ct.classes[c.Name] = c
	if old == c {
		return nil
	}
	return old
}

// Lookup finds a class by name.
func (ct *ClassTable) Lookup(name string) *Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.classes[name]
}

// Has returns true if a class with this name is registered.
func (ct *ClassTable) Has(name string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	_, ok := ct.classes[name]
	return ok
}

// All returns all registered classes sorted by name.
func (ct *ClassTable) All() []*Class {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	result := make([]*Class, 0, len(ct.classes))
	for _, c := range ct.classes {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Subclasses returns the registered classes whose immediate superclass is c,
// sorted by name.
func (ct *ClassTable) Subclasses(c *Class) []*Class {
	var result []*Class
	for _, sub := range ct.All() {
		if sub.Superclass == c {
			result = append(result, sub)
		}
	}
	return result
}

// Len returns the number of registered classes.
func (ct *ClassTable) Len() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.classes)
}
