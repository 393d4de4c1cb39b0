package object

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// ---------------------------------------------------------------------------
// Class: static class descriptor
// ---------------------------------------------------------------------------

// Class states, in the order a descriptor moves through them.
const (
	classUninitialized int32 = iota
	classInitializing
	classReady
)

// Class describes a single class. Descriptors are declared once per class as
// package-level pointers and must not be copied. Everything other than the
// exported fields is derived the first time the class is used.
type Class struct {
	Name       string   // Class name, for diagnostics only
	Superclass *Class   // Immediate ancestor (nil only for ObjectClass)
	InstVars   []string // Instance variables introduced by this class
	Interface  []string // Method slots introduced by this class, in slot order

	// Initialize populates the class's dispatch table. It runs exactly once,
	// after the ancestor's slots have been copied in, and may only call
	// Override.
	Initialize func(c *Class)

	state  atomic.Int32
	owner  atomic.Int64 // goroutine running Initialize
	mu     sync.Mutex
	vtable *VTable

	slotNames []string
	selectors map[string]Selector
}

// Ready returns the class's dispatch table, building it on first use.
//
// Concurrent first use from several goroutines runs Initialize exactly once;
// every caller returns only after the table is complete.
func (c *Class) Ready() *VTable {
	if c == nil {
		panic(Fatal(nil, "ready", "nil class descriptor"))
	}
	if c.state.Load() == classReady {
		return c.vtable
	}
	return c.initialize()
}

// IsReady reports whether the class's dispatch table has been built.
func (c *Class) IsReady() bool {
	return c.state.Load() == classReady
}

func (c *Class) initialize() *VTable {
	id := goid.Get()
	if c.state.Load() == classInitializing && c.owner.Load() == id {
		panic(Fatal(c, "initialize", "re-entrant initialization"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Load() == classReady {
		return c.vtable
	}

	c.validate()

	c.owner.Store(id)
	c.state.Store(classInitializing)
	defer func() {
		if c.state.Load() != classReady {
			// Initialize panicked; leave the class untouched for the next caller.
			c.vtable = nil
			c.slotNames = nil
			c.selectors = nil
			c.owner.Store(0)
			c.state.Store(classUninitialized)
		}
	}()

	var parent *VTable
	var inherited []string
	if c.Superclass != nil {
		parent = c.Superclass.Ready()
		inherited = c.Superclass.slotNames
	}

	names := make([]string, 0, len(inherited)+len(c.Interface))
	names = append(names, inherited...)
	names = append(names, c.Interface...)

	selectors := make(map[string]Selector, len(names))
	for i, name := range names {
		selectors[name] = Selector(i)
	}

	vt := &VTable{
		class:   c,
		methods: make([]Method, len(names)),
	}
	if parent != nil {
		copy(vt.methods, parent.methods)
	}

	c.slotNames = names
	c.selectors = selectors
	c.vtable = vt

	if c.Initialize != nil {
		c.Initialize(c)
	}

	c.owner.Store(0)
	c.state.Store(classReady)

	Classes.Register(c)
	logger().Debugf("initialized class %s (%d slots, %d inherited, %d instance vars)",
		c.Name, len(names), len(inherited), c.InstanceSize())

	return vt
}

// validate checks the descriptor before any table is built. A malformed
// descriptor is a programming error and panics.
func (c *Class) validate() {
	if c.Name == "" {
		panic(Fatal(c, "initialize", "class has no name"))
	}
	if c.Superclass == nil && c != ObjectClass {
		panic(Fatal(c, "initialize", "class has no superclass; extend ObjectClass"))
	}

	seen := map[*Class]bool{c: true}
	for a := c.Superclass; a != nil; a = a.Superclass {
		if seen[a] {
			panic(Fatal(c, "initialize", "ancestor chain is cyclic at %s", a.Name))
		}
		seen[a] = true
	}

	slots := make(map[string]*Class)
	ivars := make(map[string]*Class)
	for a := c.Superclass; a != nil; a = a.Superclass {
		for _, name := range a.Interface {
			slots[name] = a
		}
		for _, name := range a.InstVars {
			ivars[name] = a
		}
	}
	for _, name := range c.Interface {
		if name == "" {
			panic(Fatal(c, "initialize", "empty slot name"))
		}
		if owner, ok := slots[name]; ok {
			if owner == c {
				panic(Fatal(c, "initialize", "slot %q declared twice", name))
			}
			panic(Fatal(c, "initialize", "slot %q is already declared by %s; override it instead", name, owner.Name))
		}
		slots[name] = c
	}
	for _, name := range c.InstVars {
		if name == "" {
			panic(Fatal(c, "initialize", "empty instance variable name"))
		}
		if owner, ok := ivars[name]; ok {
			panic(Fatal(c, "initialize", "instance variable %q is already declared by %s", name, owner.Name))
		}
		ivars[name] = c
	}
}

// Override installs m in the named slot of the class being initialized. The
// slot may be introduced by the class itself or inherited from an ancestor.
// Override may only be called from the class's own Initialize.
func (c *Class) Override(name string, m Method) {
	if c.state.Load() != classInitializing || c.owner.Load() != goid.Get() {
		panic(Fatal(c, "override", "slot %q written outside Initialize", name))
	}
	if m == nil {
		panic(Fatal(c, "override", "nil method for slot %q", name))
	}
	sel, ok := c.selectors[name]
	if !ok {
		panic(Fatal(c, "override", "no slot named %q", name))
	}
	c.vtable.methods[sel] = m
}

// Define installs m in a slot the class introduces itself. It is Override
// restricted to the class's own Interface.
func (c *Class) Define(name string, m Method) {
	if !slices.Contains(c.Interface, name) {
		panic(Fatal(c, "define", "slot %q is not introduced by %s", name, c.Name))
	}
	c.Override(name, m)
}

// Selector resolves a slot name to its position in the class's table. The
// position is shared by every descendant of the class.
func (c *Class) Selector(name string) Selector {
	c.Ready()
	sel, ok := c.selectors[name]
	if !ok {
		panic(Fatal(c, "selector", "no slot named %q", name))
	}
	return sel
}

// RespondsTo reports whether the class has a populated slot with this name.
func (c *Class) RespondsTo(name string) bool {
	vt := c.Ready()
	sel, ok := c.selectors[name]
	return ok && vt.methods[sel] != nil
}

// SlotNames returns every slot name in table order, inherited slots first.
func (c *Class) SlotNames() []string {
	c.Ready()
	names := make([]string, len(c.slotNames))
	copy(names, c.slotNames)
	return names
}

// SlotOwner returns the class that introduced the slot at sel.
func (c *Class) SlotOwner(sel Selector) *Class {
	for current := c; current != nil; current = current.Superclass {
		if int(sel) >= current.interfaceOffset() {
			if int(sel) < current.InterfaceSize() {
				return current
			}
			return nil
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Footprints
// ---------------------------------------------------------------------------

// InterfaceSize returns the number of slots in the class's dispatch table,
// including every inherited slot.
func (c *Class) InterfaceSize() int {
	return c.interfaceOffset() + len(c.Interface)
}

func (c *Class) interfaceOffset() int {
	if c.Superclass == nil {
		return 0
	}
	return c.Superclass.InterfaceSize()
}

// InstanceSize returns the number of instance variable slots an instance of
// the class carries, including inherited ones.
func (c *Class) InstanceSize() int {
	return c.instVarOffset() + len(c.InstVars)
}

// instVarOffset returns the starting slot index for this class's instance variables.
func (c *Class) instVarOffset() int {
	if c.Superclass == nil {
		return 0
	}
	return c.Superclass.InstanceSize()
}

// InstVarIndex returns the slot index for an instance variable by name.
// Returns -1 if the variable is not found.
func (c *Class) InstVarIndex(name string) int {
	for i, n := range c.InstVars {
		if n == name {
			return c.instVarOffset() + i
		}
	}
	if c.Superclass != nil {
		return c.Superclass.InstVarIndex(name)
	}
	return -1
}

// AllInstVarNames returns all instance variable names including inherited ones.
func (c *Class) AllInstVarNames() []string {
	if c.Superclass == nil {
		return append([]string(nil), c.InstVars...)
	}
	inherited := c.Superclass.AllInstVarNames()
	return append(inherited, c.InstVars...)
}

// ---------------------------------------------------------------------------
// Class hierarchy helpers
// ---------------------------------------------------------------------------

// IsSubclassOf returns true if c is a subclass of other (or is the same class).
func (c *Class) IsSubclassOf(other *Class) bool {
	for current := c; current != nil; current = current.Superclass {
		if current == other {
			return true
		}
	}
	return false
}

// IsSuperclassOf returns true if c is a superclass of other (or is the same class).
func (c *Class) IsSuperclassOf(other *Class) bool {
	return other.IsSubclassOf(c)
}

// Superclasses returns all superclasses from immediate parent to root.
func (c *Class) Superclasses() []*Class {
	var result []*Class
	for current := c.Superclass; current != nil; current = current.Superclass {
		result = append(result, current)
	}
	return result
}

// Depth returns the inheritance depth (0 for the root class).
func (c *Class) Depth() int {
	depth := 0
	for current := c.Superclass; current != nil; current = current.Superclass {
		depth++
	}
	return depth
}

// String implements the Stringer interface.
func (c *Class) String() string {
	return c.Name
}
