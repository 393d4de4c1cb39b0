package foundation

import (
	"context"
	"sync"

	"github.com/chazu/objective/object"
)

// ThreadFunction is the body of a Thread. ctx is cancelled when the thread
// is cancelled; the return value is the thread's status.
type ThreadFunction func(ctx context.Context, data any) any

// ThreadClass describes goroutines with an owner-visible lifecycle. A thread
// starts running as soon as it is constructed. Destroying a thread that was
// not detached joins it first.
var ThreadClass = &object.Class{
	Name:       "Thread",
	Superclass: object.ObjectClass,
	InstVars:   []string{"function", "data", "state"},
	Interface: []string{
		"cancel",
		"detach",
		"isCancelled",
		"join",
	},
}

var (
	threadFunction = ThreadClass.InstVarIndex("function")
	threadData     = ThreadClass.InstVarIndex("data")
	threadState    = ThreadClass.InstVarIndex("state")
)

type threadRun struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	status any

	mu       sync.Mutex
	detached bool
}

func init() {
	ThreadClass.Initialize = initializeThread
}

func initializeThread(c *object.Class) {
	c.Override("init", threadInit)
	c.Override("copy", threadCopy)
	c.Override("dealloc", threadDealloc)

	c.Override("cancel", threadCancel)
	c.Override("detach", threadDetach)
	c.Override("isCancelled", threadIsCancelled)
	c.Override("join", threadJoin)
}

func runOf(o *object.Object) *threadRun {
	return object.Get[*threadRun](o, threadState)
}

// threadInit takes the function and an optional data argument, and starts
// the goroutine.
func threadInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	fn := object.Arg[ThreadFunction](a, nil)
	if fn == nil {
		panic(object.Fatal(ThreadClass, "init", "nil thread function"))
	}
	data := object.Arg[any](a, nil)

	ctx, cancel := context.WithCancel(context.Background())
	run := &threadRun{ctx: ctx, cancel: cancel, done: make(chan struct{})}

	self.SetSlot(threadFunction, fn)
	self.SetSlot(threadData, data)
	self.SetSlot(threadState, run)

	go func() {
		defer close(run.done)
		run.status = fn(ctx, data)
	}()
	logger().Debugf("started thread %d", self.ID())
	return self
}

// threadCopy starts a new thread running the same function on the same data.
func threadCopy(self *object.Object, args ...any) any {
	fn := object.Get[ThreadFunction](self, threadFunction)
	obj, err := object.New(ThreadClass, fn, self.Slot(threadData))
	if err != nil {
		return err
	}
	return obj
}

func threadDealloc(self *object.Object, args ...any) any {
	run := runOf(self)
	run.mu.Lock()
	detached := run.detached
	run.mu.Unlock()
	if !detached {
		<-run.done
		run.cancel()
	}
	self.SetSlot(threadState, nil)
	object.SuperDealloc(object.ObjectClass, self)
	return nil
}

func threadCancel(self *object.Object, args ...any) any {
	runOf(self).cancel()
	return nil
}

func threadDetach(self *object.Object, args ...any) any {
	run := runOf(self)
	run.mu.Lock()
	run.detached = true
	run.mu.Unlock()
	return nil
}

func threadIsCancelled(self *object.Object, args ...any) any {
	return runOf(self).ctx.Err() != nil
}

// threadJoin waits for the thread to return and yields its status.
func threadJoin(self *object.Object, args ...any) any {
	run := runOf(self)
	run.mu.Lock()
	detached := run.detached
	run.mu.Unlock()
	if detached {
		panic(object.Fatal(ThreadClass, "join", "thread %d is detached", self.ID()))
	}
	<-run.done
	return run.status
}

// ---------------------------------------------------------------------------
// Thread view
// ---------------------------------------------------------------------------

// Thread is a typed view of a ThreadClass instance.
type Thread struct {
	*object.Object
}

// AsThread casts o to a Thread view.
func AsThread(o *object.Object) (Thread, error) {
	return object.CastAs(o, ThreadClass, func(o *object.Object) Thread { return Thread{o} })
}

// NewThread starts fn on data in a new goroutine.
func NewThread(fn ThreadFunction, data any) (Thread, error) {
	obj, err := object.New(ThreadClass, fn, data)
	if err != nil {
		return Thread{}, err
	}
	return Thread{obj}, nil
}

// Cancel cancels the context passed to the thread's function.
func (t Thread) Cancel() {
	object.Send(t.Object, "cancel")
}

// Detach releases the owner from joining the thread. A detached thread may
// not be joined.
func (t Thread) Detach() {
	object.Send(t.Object, "detach")
}

func (t Thread) IsCancelled() bool {
	return object.Send(t.Object, "isCancelled").(bool)
}

// Join waits for the thread's function to return and yields its result.
func (t Thread) Join() any {
	return object.Send(t.Object, "join")
}
