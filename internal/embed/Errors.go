package embed

import (
	"fmt"
)

// IOError reports an input that could not be read, or an output that could
// not be written or locked.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (x *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", x.Op, x.Path, x.Err)
}
func (x *IOError) Unwrap() error {
	return x.Err
}

// CollisionError reports two inputs deriving the same symbol. Identifier is
// set when the symbols differ but both generate the same C++ name.
type CollisionError struct {
	Symbol     string
	Identifier string
	First      string
	Second     string
}

func (x *CollisionError) Error() string {
	if len(x.Identifier) > 0 {
		return fmt.Sprintf("symbol collision: %q and %q both define %q", x.First, x.Second, x.Identifier)
	}
	if x.First == x.Second {
		return fmt.Sprintf("symbol collision: %q is given twice (symbol %q)", x.First, x.Symbol)
	}
	return fmt.Sprintf("symbol collision: %q and %q both derive symbol %q", x.First, x.Second, x.Symbol)
}

// ArgumentError reports an invalid invocation.
type ArgumentError struct {
	Message string
}

func (x *ArgumentError) Error() string {
	return x.Message
}

func MakeArgumentError(msg string, args ...interface{}) error {
	return &ArgumentError{Message: fmt.Sprintf(msg, args...)}
}
