package generator

import (
	"fmt"
	"io"
	"os"
)

const filePerm = 0o644

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// writeFile creates or truncates path and writes contents to it. The
// directory must already exist.
func writeFile(path, contents string) (n int, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return 0, &WriteError{Path: path, Cause: err}
	}
	defer func() {
		cerr := f.Close()
		if cerr != nil && err == nil {
			err = &WriteError{Path: path, Cause: cerr}
		}
	}()

	n, err = io.WriteString(f, contents)
	if err != nil {
		return n, &WriteError{Path: path, Cause: err}
	}
	return n, nil
}
