package foundation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/chazu/objective/object"
	"github.com/google/uuid"
)

// TaskState is the lifecycle state of a URLSessionTask.
type TaskState int

const (
	TaskSuspended TaskState = iota
	TaskRunning
	TaskCanceling
	TaskCompleted
)

func (s TaskState) String() string {
	switch s {
	case TaskSuspended:
		return "suspended"
	case TaskRunning:
		return "running"
	case TaskCanceling:
		return "canceling"
	case TaskCompleted:
		return "completed"
	}
	return fmt.Sprintf("TaskState(%d)", int(s))
}

// ErrNoRequest is returned when a task is constructed without a request.
var ErrNoRequest = errors.New("task has no request")

// TaskCompletion is called once a task completes, successfully or not. It
// runs before Wait returns, so it must not wait on the task itself.
type TaskCompletion func(task *object.Object)

// URLSessionTaskClass describes a single HTTP exchange. Tasks are created
// suspended and start on the first resume. Subclasses consume the response
// body by overriding didReceiveResponse.
var URLSessionTaskClass = &object.Class{
	Name:       "URLSessionTask",
	Superclass: object.ObjectClass,
	InstVars:   []string{"request", "client", "completion", "state"},
	Interface: []string{
		"cancel",
		"didReceiveResponse",
		"resume",
		"state",
		"suspend",
		"wait",
	},
}

var (
	taskRequest    = URLSessionTaskClass.InstVarIndex("request")
	taskClient     = URLSessionTaskClass.InstVarIndex("client")
	taskCompletion = URLSessionTaskClass.InstVarIndex("completion")
	taskRun        = URLSessionTaskClass.InstVarIndex("state")
)

type taskProgress struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	state    TaskState
	started  bool
	resumed  chan struct{} // closed while running
	response *http.Response
	err      error
}

func init() {
	URLSessionTaskClass.Initialize = initializeURLSessionTask
}

func initializeURLSessionTask(c *object.Class) {
	c.Override("init", taskInit)
	c.Override("dealloc", taskDealloc)
	c.Override("description", taskDescription)

	c.Override("cancel", taskCancel)
	c.Override("didReceiveResponse", taskDidReceiveResponse)
	c.Override("resume", taskResume)
	c.Override("state", taskStateOf)
	c.Override("suspend", taskSuspend)
	c.Override("wait", taskWait)
}

func progressOf(o *object.Object) *taskProgress {
	return object.Get[*taskProgress](o, taskRun)
}

// taskInit takes the request, an optional client and an optional completion.
func taskInit(self *object.Object, args ...any) any {
	a := object.ArgsOf(args)
	if _, err := object.SuperInit(object.ObjectClass, self, a); err != nil {
		return err
	}
	req := object.Arg[*http.Request](a, nil)
	if req == nil {
		return ErrNoRequest
	}
	client := object.Arg[*http.Client](a, nil)
	if client == nil {
		client = http.DefaultClient
	}
	completion := object.Arg[TaskCompletion](a, nil)

	ctx, cancel := context.WithCancel(req.Context())
	self.SetSlot(taskRequest, req.WithContext(ctx))
	self.SetSlot(taskClient, client)
	self.SetSlot(taskCompletion, completion)
	self.SetSlot(taskRun, &taskProgress{
		id:      uuid.New(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   TaskSuspended,
		resumed: make(chan struct{}),
	})
	return self
}

// taskDealloc cancels a task still in flight and waits for it to finish.
func taskDealloc(self *object.Object, args ...any) any {
	p := progressOf(self)
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	p.cancel()
	if started {
		<-p.done
	}
	self.SetSlot(taskRun, nil)
	object.SuperDealloc(object.ObjectClass, self)
	return nil
}

func taskDescription(self *object.Object, args ...any) any {
	req := object.Get[*http.Request](self, taskRequest)
	return fmt.Sprintf("%s %s %s", req.Method, req.URL, taskStateOf(self))
}

func taskStateOf(self *object.Object, args ...any) any {
	p := progressOf(self)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func taskResume(self *object.Object, args ...any) any {
	p := progressOf(self)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != TaskSuspended {
		return nil
	}
	p.state = TaskRunning
	close(p.resumed)
	if !p.started {
		p.started = true
		go run(self, p)
	}
	return nil
}

// taskSuspend pauses a task. A running task stops consuming its response
// body until resumed.
func taskSuspend(self *object.Object, args ...any) any {
	p := progressOf(self)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == TaskRunning {
		p.state = TaskSuspended
		p.resumed = make(chan struct{})
	}
	return nil
}

func taskCancel(self *object.Object, args ...any) any {
	p := progressOf(self)
	p.mu.Lock()
	if p.state == TaskCompleted || p.state == TaskCanceling {
		p.mu.Unlock()
		return nil
	}
	started := p.started
	p.state = TaskCanceling
	p.mu.Unlock()

	p.cancel()
	if !started {
		p.finish(self, context.Canceled)
	}
	return nil
}

func taskWait(self *object.Object, args ...any) any {
	<-progressOf(self).done
	return nil
}

// taskDidReceiveResponse discards the body.
func taskDidReceiveResponse(self *object.Object, args ...any) any {
	resp := argAt[*http.Response](URLSessionTaskClass, "didReceiveResponse", args, 0)
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return err
	}
	return nil
}

// waitRunning blocks while the task is suspended.
func (p *taskProgress) waitRunning() error {
	p.mu.Lock()
	ch := p.resumed
	p.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// finish records the outcome, marks the task completed, and runs the
// completion.
func (p *taskProgress) finish(self *object.Object, err error) {
	p.mu.Lock()
	p.err = err
	p.state = TaskCompleted
	p.mu.Unlock()

	if completion := object.Get[TaskCompletion](self, taskCompletion); completion != nil {
		completion(self)
	}
	close(p.done)
}

func run(self *object.Object, p *taskProgress) {
	req := object.Get[*http.Request](self, taskRequest)
	client := object.Get[*http.Client](self, taskClient)

	logger().Debugf("task %s: %s %s", p.id, req.Method, req.URL)
	resp, err := client.Do(req)
	if err != nil {
		logger().Infof("task %s: %s", p.id, err)
		p.finish(self, err)
		return
	}
	defer resp.Body.Close()

	p.mu.Lock()
	p.response = resp
	p.mu.Unlock()

	err, _ = object.Send(self, "didReceiveResponse", resp).(error)
	p.finish(self, err)
}

// ---------------------------------------------------------------------------
// URLSessionTask view
// ---------------------------------------------------------------------------

// URLSessionTask is a typed view of a URLSessionTaskClass instance.
type URLSessionTask struct {
	*object.Object
}

// AsURLSessionTask casts o to a URLSessionTask view.
func AsURLSessionTask(o *object.Object) (URLSessionTask, error) {
	return object.CastAs(o, URLSessionTaskClass, func(o *object.Object) URLSessionTask {
		return URLSessionTask{o}
	})
}

// NewURLSessionTask creates a suspended task for req. A nil client uses
// http.DefaultClient.
func NewURLSessionTask(req *http.Request, client *http.Client, completion TaskCompletion) (URLSessionTask, error) {
	obj, err := object.New(URLSessionTaskClass, req, client, completion)
	if err != nil {
		return URLSessionTask{}, err
	}
	return URLSessionTask{obj}, nil
}

// Identifier returns the task's unique identifier.
func (t URLSessionTask) Identifier() uuid.UUID {
	return progressOf(t.Object).id
}

func (t URLSessionTask) Resume() {
	object.Send(t.Object, "resume")
}

func (t URLSessionTask) Suspend() {
	object.Send(t.Object, "suspend")
}

func (t URLSessionTask) Cancel() {
	object.Send(t.Object, "cancel")
}

// Wait blocks until the task completes.
func (t URLSessionTask) Wait() {
	object.Send(t.Object, "wait")
}

func (t URLSessionTask) State() TaskState {
	return object.Send(t.Object, "state").(TaskState)
}

// Request returns the task's request.
func (t URLSessionTask) Request() *http.Request {
	return object.Get[*http.Request](t.Object, taskRequest)
}

// Response returns the response, once received.
func (t URLSessionTask) Response() *http.Response {
	p := progressOf(t.Object)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.response
}

// Err returns the error the task completed with, if any.
func (t URLSessionTask) Err() error {
	p := progressOf(t.Object)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
