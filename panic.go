package nwire

import (
	"fmt"
	rdebug "runtime/debug"

	"github.com/pkg/errors"
)

type panicError struct {
	msg   string
	r     any
	stack string
}

func (err panicError) Error() string {
	return "panic: " + err.msg
}

// setErrorOnPanic should be called as a defer.  It sets an error value
// if there is a panic.
func setErrorOnPanic(ep *error, c *callable) {
	r := recover()
	if r == nil {
		return
	}
	pe := panicError{
		msg:   fmt.Sprint(r),
		r:     r,
		stack: string(rdebug.Stack()),
	}
	*ep = errors.Wrapf(errors.WithStack(pe), "%s", c)
	debugf("recovered panic in %s: %s\n%s", c, pe.msg, pe.stack)
}

// RecoverInterface returns the value that recover() originally
// provided when a factory panicked.  It returns nil if the error
// isn't from a panic.
func RecoverInterface(err error) any {
	if pe, ok := isPanicError(err); ok {
		return pe.r
	}
	return nil
}

// RecoverStack returns the stack from when a factory panic was
// recovered, or "" if the error isn't from a panic.
func RecoverStack(err error) string {
	if pe, ok := isPanicError(err); ok {
		return pe.stack
	}
	return ""
}

func isPanicError(err error) (panicError, bool) {
	var pe panicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return panicError{}, false
}
