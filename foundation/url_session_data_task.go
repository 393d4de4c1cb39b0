package foundation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/chazu/objective/object"
)

const chunkSize = 32 << 10

// URLSessionDataTaskClass describes tasks that accumulate the response body
// in memory.
var URLSessionDataTaskClass = &object.Class{
	Name:       "URLSessionDataTask",
	Superclass: URLSessionTaskClass,
	InstVars:   []string{"data"},
	Interface:  []string{"data"},
}

var dataTaskData = URLSessionDataTaskClass.InstVarIndex("data")

type dataBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func init() {
	URLSessionDataTaskClass.Initialize = initializeURLSessionDataTask
}

func initializeURLSessionDataTask(c *object.Class) {
	c.Override("init", dataTaskInit)
	c.Override("didReceiveResponse", dataTaskDidReceiveResponse)
	c.Override("data", dataTaskDataOf)
}

func bufferOf(o *object.Object) *dataBuffer {
	return object.Get[*dataBuffer](o, dataTaskData)
}

func dataTaskInit(self *object.Object, args ...any) any {
	if _, err := object.SuperInit(URLSessionTaskClass, self, object.ArgsOf(args)); err != nil {
		return err
	}
	self.SetSlot(dataTaskData, &dataBuffer{})
	return self
}

// dataTaskDidReceiveResponse reads the body a chunk at a time, pausing
// between chunks while the task is suspended.
func dataTaskDidReceiveResponse(self *object.Object, args ...any) any {
	resp := argAt[*http.Response](URLSessionDataTaskClass, "didReceiveResponse", args, 0)
	p := progressOf(self)
	b := bufferOf(self)
	chunk := make([]byte, chunkSize)
	for {
		if err := p.waitRunning(); err != nil {
			return err
		}
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			b.mu.Lock()
			b.buf.Write(chunk[:n])
			b.mu.Unlock()
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// dataTaskDataOf returns a copy of the bytes received so far.
func dataTaskDataOf(self *object.Object, args ...any) any {
	b := bufferOf(self)
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// ---------------------------------------------------------------------------
// URLSessionDataTask view
// ---------------------------------------------------------------------------

// URLSessionDataTask is a typed view of a URLSessionDataTaskClass instance.
type URLSessionDataTask struct {
	URLSessionTask
}

// AsURLSessionDataTask casts o to a URLSessionDataTask view.
func AsURLSessionDataTask(o *object.Object) (URLSessionDataTask, error) {
	return object.CastAs(o, URLSessionDataTaskClass, func(o *object.Object) URLSessionDataTask {
		return URLSessionDataTask{URLSessionTask{o}}
	})
}

// NewURLSessionDataTask creates a suspended data task for req. A nil client
// uses http.DefaultClient.
func NewURLSessionDataTask(req *http.Request, client *http.Client, completion TaskCompletion) (URLSessionDataTask, error) {
	obj, err := object.New(URLSessionDataTaskClass, req, client, completion)
	if err != nil {
		return URLSessionDataTask{}, err
	}
	return URLSessionDataTask{URLSessionTask{obj}}, nil
}

// Data returns the body bytes received so far.
func (t URLSessionDataTask) Data() []byte {
	return object.Send(t.Object, "data").([]byte)
}
