package foundation

import (
	"sync"
	"sync/atomic"

	"github.com/chazu/objective/object"
	"github.com/petermattis/goid"
)

// LockClass describes non-recursive mutual exclusion locks. A Lock remembers
// the goroutine holding it: unlocking from any other goroutine, or locking
// twice from the same one, is a contract violation.
var LockClass = &object.Class{
	Name:       "Lock",
	Superclass: object.ObjectClass,
	InstVars:   []string{"mutex"},
	Interface: []string{
		"lock",
		"tryLock",
		"unlock",
	},
}

var lockMutex = LockClass.InstVarIndex("mutex")

type mutex struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine holding mu, or 0
}

func init() {
	LockClass.Initialize = initializeLock
}

func initializeLock(c *object.Class) {
	c.Override("init", lockInit)
	c.Override("dealloc", lockDealloc)

	c.Override("lock", lockLock)
	c.Override("tryLock", lockTryLock)
	c.Override("unlock", lockUnlock)
}

func mutexOf(o *object.Object) *mutex {
	return object.Get[*mutex](o, lockMutex)
}

// holds reports whether the calling goroutine holds o's lock.
func holds(o *object.Object) bool {
	return mutexOf(o).owner.Load() == goid.Get()
}

func lockInit(self *object.Object, args ...any) any {
	if _, err := object.SuperInit(object.ObjectClass, self, object.ArgsOf(args)); err != nil {
		return err
	}
	self.SetSlot(lockMutex, &mutex{})
	return self
}

func lockDealloc(self *object.Object, args ...any) any {
	if owner := mutexOf(self).owner.Load(); owner != 0 {
		panic(object.Fatal(self.Class(), "dealloc", "lock destroyed while held by goroutine %d", owner))
	}
	self.SetSlot(lockMutex, nil)
	object.SuperDealloc(object.ObjectClass, self)
	return nil
}

func lockLock(self *object.Object, args ...any) any {
	m := mutexOf(self)
	id := goid.Get()
	if m.owner.Load() == id {
		panic(object.Fatal(self.Class(), "lock", "lock already held by the calling goroutine"))
	}
	m.mu.Lock()
	m.owner.Store(id)
	return nil
}

func lockTryLock(self *object.Object, args ...any) any {
	m := mutexOf(self)
	if !m.mu.TryLock() {
		return false
	}
	m.owner.Store(goid.Get())
	return true
}

func lockUnlock(self *object.Object, args ...any) any {
	m := mutexOf(self)
	if m.owner.Load() != goid.Get() {
		panic(object.Fatal(self.Class(), "unlock", "lock not held by the calling goroutine"))
	}
	m.owner.Store(0)
	m.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Lock view
// ---------------------------------------------------------------------------

// Lock is a typed view of a LockClass instance. It satisfies sync.Locker.
type Lock struct {
	*object.Object
}

// AsLock casts o to a Lock view.
func AsLock(o *object.Object) (Lock, error) {
	return object.CastAs(o, LockClass, func(o *object.Object) Lock { return Lock{o} })
}

// NewLock creates an unlocked Lock.
func NewLock() (Lock, error) {
	obj, err := object.New(LockClass)
	if err != nil {
		return Lock{}, err
	}
	return Lock{obj}, nil
}

func (l Lock) Lock() {
	object.Send(l.Object, "lock")
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l Lock) TryLock() bool {
	return object.Send(l.Object, "tryLock").(bool)
}

func (l Lock) Unlock() {
	object.Send(l.Object, "unlock")
}

var _ sync.Locker = Lock{}
