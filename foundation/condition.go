package foundation

import (
	"slices"
	"sync"
	"time"

	"github.com/chazu/objective/object"
)

// ConditionClass describes condition variables. A Condition is its own
// Lock: wait and waitUntilDate must be called while holding it.
var ConditionClass = &object.Class{
	Name:       "Condition",
	Superclass: LockClass,
	InstVars:   []string{"waiters"},
	Interface: []string{
		"broadcast",
		"signal",
		"wait",
		"waitUntilDate",
	},
}

var conditionWaiters = ConditionClass.InstVarIndex("waiters")

// waitQueue hands each waiter its own channel, so that a timed wait can
// withdraw without consuming a signal meant for another goroutine.
type waitQueue struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

func init() {
	ConditionClass.Initialize = initializeCondition
}

func initializeCondition(c *object.Class) {
	c.Override("init", conditionInit)
	c.Override("dealloc", conditionDealloc)

	c.Override("broadcast", conditionBroadcast)
	c.Override("signal", conditionSignal)
	c.Override("wait", conditionWait)
	c.Override("waitUntilDate", conditionWaitUntilDate)
}

func queueOf(o *object.Object) *waitQueue {
	return object.Get[*waitQueue](o, conditionWaiters)
}

func conditionInit(self *object.Object, args ...any) any {
	if _, err := object.SuperInit(LockClass, self, object.ArgsOf(args)); err != nil {
		return err
	}
	self.SetSlot(conditionWaiters, &waitQueue{})
	return self
}

func conditionDealloc(self *object.Object, args ...any) any {
	q := queueOf(self)
	q.mu.Lock()
	n := len(q.waiters)
	q.mu.Unlock()
	if n > 0 {
		panic(object.Fatal(ConditionClass, "dealloc", "condition destroyed with %d waiters", n))
	}
	self.SetSlot(conditionWaiters, nil)
	object.SuperDealloc(LockClass, self)
	return nil
}

func conditionSignal(self *object.Object, args ...any) any {
	q := queueOf(self)
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiters) > 0 {
		close(q.waiters[0])
		q.waiters = q.waiters[1:]
	}
	return nil
}

func conditionBroadcast(self *object.Object, args ...any) any {
	q := queueOf(self)
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ch := range q.waiters {
		close(ch)
	}
	q.waiters = nil
	return nil
}

// await releases the lock, blocks until signaled or until the timer fires,
// and reacquires the lock. It reports whether the waiter was signaled.
func await(self *object.Object, op string, timeout <-chan time.Time) bool {
	if !holds(self) {
		panic(object.Fatal(ConditionClass, op, "condition lock not held by the calling goroutine"))
	}

	q := queueOf(self)
	ch := make(chan struct{})
	q.mu.Lock()
	q.waiters = append(q.waiters, ch)
	q.mu.Unlock()

	object.Send(self, "unlock")
	defer object.Send(self, "lock")

	select {
	case <-ch:
		return true
	case <-timeout:
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	i := slices.Index(q.waiters, ch)
	if i == -1 {
		// Signaled between the timer firing and withdrawal.
		return true
	}
	q.waiters = slices.Delete(q.waiters, i, i+1)
	return false
}

func conditionWait(self *object.Object, args ...any) any {
	await(self, "wait", nil)
	return nil
}

func conditionWaitUntilDate(self *object.Object, args ...any) any {
	date := objectArg(DateClass, "waitUntilDate", args, 0)
	timer := time.NewTimer(time.Until(timeOf(date)))
	defer timer.Stop()
	return await(self, "waitUntilDate", timer.C)
}

// ---------------------------------------------------------------------------
// Condition view
// ---------------------------------------------------------------------------

// Condition is a typed view of a ConditionClass instance. It satisfies
// sync.Locker through its own lock.
type Condition struct {
	*object.Object
}

// AsCondition casts o to a Condition view.
func AsCondition(o *object.Object) (Condition, error) {
	return object.CastAs(o, ConditionClass, func(o *object.Object) Condition { return Condition{o} })
}

// NewCondition creates a Condition with its lock free.
func NewCondition() (Condition, error) {
	obj, err := object.New(ConditionClass)
	if err != nil {
		return Condition{}, err
	}
	return Condition{obj}, nil
}

func (c Condition) Lock() {
	object.Send(c.Object, "lock")
}

func (c Condition) TryLock() bool {
	return object.Send(c.Object, "tryLock").(bool)
}

func (c Condition) Unlock() {
	object.Send(c.Object, "unlock")
}

// Broadcast wakes every waiting goroutine.
func (c Condition) Broadcast() {
	object.Send(c.Object, "broadcast")
}

// Signal wakes the longest-waiting goroutine, if any.
func (c Condition) Signal() {
	object.Send(c.Object, "signal")
}

// Wait blocks until signaled. The lock is released while waiting.
func (c Condition) Wait() {
	object.Send(c.Object, "wait")
}

// WaitUntilDate blocks until signaled or until date passes. It returns false
// on timeout.
func (c Condition) WaitUntilDate(date Date) bool {
	return object.Send(c.Object, "waitUntilDate", date.Object).(bool)
}

var _ sync.Locker = Condition{}
