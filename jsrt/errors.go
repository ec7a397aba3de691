package jsrt

import (
	"errors"
	"fmt"
)

// InstallMessage is shown whenever no JavaScript engine backend is linked
// into the running binary.
const InstallMessage = "Chart conversion requires a JavaScript runtime.\n" +
	"Build with the export engine: go build ./cmd/chartbridge (do not pass -tags noexport)\n" +
	"Or link the engine binding directly: import _ \"chartbridge/jsrt/gojavm\""

var (
	ErrRuntimeUnavailable = errors.New("javascript runtime unavailable")
	ErrFileAccess         = errors.New("program file not accessible")
	ErrMarshal            = errors.New("marshal failed")
	ErrTransformation     = errors.New("transformation program failed")
)

// UnavailableError reports a backend that is not registered or could not
// be constructed.
type UnavailableError struct {
	Backend string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("jsrt: backend %q unavailable: %v\n%s", e.Backend, e.Cause, InstallMessage)
	}
	return fmt.Sprintf("jsrt: backend %q unavailable\n%s", e.Backend, InstallMessage)
}

func (e *UnavailableError) Unwrap() error        { return e.Cause }
func (e *UnavailableError) Is(target error) bool { return target == ErrRuntimeUnavailable }

// FileError reports a bundled program that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("jsrt: read program %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error        { return e.Err }
func (e *FileError) Is(target error) bool { return target == ErrFileAccess }

// MarshalError reports a request or response that is not valid JSON.
// Op is "encode" or "decode".
type MarshalError struct {
	Op  string
	Err error
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("jsrt: %s: %v", e.Op, e.Err)
}

func (e *MarshalError) Unwrap() error        { return e.Err }
func (e *MarshalError) Is(target error) bool { return target == ErrMarshal }

// TransformationError carries whatever the transformation program raised,
// as the VM reported it. Err is never rewritten.
type TransformationError struct {
	Program Program
	Err     error
}

func (e *TransformationError) Error() string {
	if e.Program == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Program, e.Err)
}

func (e *TransformationError) Unwrap() error        { return e.Err }
func (e *TransformationError) Is(target error) bool { return target == ErrTransformation }

// Kind classifies err into one of the bridge error kinds. It returns
// "other" for errors produced outside the bridge.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRuntimeUnavailable):
		return "runtime_unavailable"
	case errors.Is(err, ErrFileAccess):
		return "file_access"
	case errors.Is(err, ErrMarshal):
		return "marshal"
	case errors.Is(err, ErrTransformation):
		return "transformation"
	default:
		return "other"
	}
}
