package object

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

// logger is looked up on use so that a backend configured after package
// initialization still receives the runtime's messages.
func logger() commonlog.Logger {
	return commonlog.GetLogger("objective.object")
}

var (
	// ErrOutOfMemory is returned by Alloc when the active Allocator cannot
	// reserve storage for an instance.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrConstruction is returned when any level of a construct chain fails.
	ErrConstruction = errors.New("construction failed")

	// ErrCast is returned by Cast when the object is not a kind of the class.
	ErrCast = errors.New("invalid cast")
)

// ContractError describes a broken runtime contract. It is only ever raised
// with panic: a ContractError means the caller's code is wrong, not that the
// environment misbehaved.
type ContractError struct {
	Class string // Class involved, if any
	Op    string // Runtime operation that detected the violation
	Msg   string
}

func (e *ContractError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("object: %s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("object: %s %s: %s", e.Op, e.Class, e.Msg)
}

// Fatal builds a ContractError and logs it at critical level. Callers panic
// with the result:
//
//	panic(object.Fatal(c, "substring", "range %v out of bounds", r))
func Fatal(c *Class, op, format string, args ...any) *ContractError {
	err := &ContractError{Op: op, Msg: fmt.Sprintf(format, args...)}
	if c != nil {
		err.Class = c.Name
	}
	logger().Critical(err.Error())
	return err
}
