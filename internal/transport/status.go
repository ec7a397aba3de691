package transport

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chartbridge/jsrt"
)

// errorDomain tags the ErrorInfo detail a chartbridge server attaches to
// every bridge error.
const errorDomain = "chartbridge"

// ErrUnreachable reports a gRPC Unavailable that did not come from a
// chartbridge server: the connection failed or the server is shutting down.
var ErrUnreachable = errors.New("conversion server unreachable")

// RemoteError is a bridge error raised on the other side of a gRPC call.
// Error returns the server's message unchanged; errors.Is matches the
// sentinel of Kind.
type RemoteError struct {
	Kind string
	// Op is the marshal direction for Kind "marshal".
	Op  string
	Msg string
}

func (e *RemoteError) Error() string { return e.Msg }

func (e *RemoteError) Is(target error) bool {
	switch e.Kind {
	case "runtime_unavailable":
		return target == jsrt.ErrRuntimeUnavailable
	case "file_access":
		return target == jsrt.ErrFileAccess
	case "marshal":
		return target == jsrt.ErrMarshal
	case "transformation":
		return target == jsrt.ErrTransformation
	}
	return false
}

// ToStatus maps a bridge error onto a gRPC status so that FromStatus on the
// client side can recover its kind.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	kind := jsrt.Kind(err)
	var code codes.Code
	info := &errdetails.ErrorInfo{Domain: errorDomain, Reason: kind}
	switch kind {
	case "runtime_unavailable":
		code = codes.Unavailable
	case "file_access":
		code = codes.FailedPrecondition
	case "marshal":
		code = codes.InvalidArgument
		var me *jsrt.MarshalError
		if errors.As(err, &me) {
			info.Metadata = map[string]string{"op": me.Op}
			if me.Op == "decode" {
				code = codes.Internal
			}
		}
	case "transformation":
		code = codes.Aborted
	default:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return status.FromContextError(err).Err()
		}
		return status.Error(codes.Internal, err.Error())
	}
	st, derr := status.New(code, err.Error()).WithDetails(info)
	if derr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

// FromStatus is the inverse of ToStatus. Errors that carry no status are
// returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return &RemoteError{Kind: info.GetReason(), Op: info.GetMetadata()["op"], Msg: st.Message()}
		}
	}
	switch st.Code() {
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", ErrUnreachable, st.Message())
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		return err
	}
}
