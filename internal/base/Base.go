package base

import (
	"errors"
	"fmt"
	"io"
)

/***************************************
 * Errors
 ***************************************/

// Recover turns a panic escaping scope into an error. Debug builds let the
// panic through, so the stack trace is kept.
func Recover(scope func() error) (result error) {
	if !DEBUG_ENABLED {
		defer func() {
			switch err := recover().(type) {
			case nil:
			case error:
				result = err
			default:
				result = fmt.Errorf("%v", err)
			}
		}()
	}
	return scope()
}

// AnyError returns the first non-nil error.
func AnyError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// JoinErrors keeps every non-nil error, or nil if there is none.
func JoinErrors(errs ...error) error {
	return errors.Join(errs...)
}

/***************************************
 * Writers
 ***************************************/

type Flushable interface {
	Flush() error
}

func FlushWriterIFP(w io.Writer) error {
	if flushable, ok := w.(Flushable); ok {
		return flushable.Flush()
	}
	return nil
}
