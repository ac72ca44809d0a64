package store

import "fmt"

// CorruptError reports a store file that exists but does not hold a valid
// task collection. Detail carries the parse or schema diagnostic.
type CorruptError struct {
	Path   string
	Detail string
	Err    error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt task store %s: %s", e.Path, e.Detail)
}

// Unwrap returns the underlying error, if any.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IOError reports an OS-level failure reading or writing the store file.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s task store %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
