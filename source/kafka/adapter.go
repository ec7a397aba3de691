package kafka

import (
	"context"

	"chartbridge/frame"
)

// EmitFunc hands a frame to the pipeline. The driver treats the frame as
// processed once EmitFunc returns nil.
type EmitFunc func(context.Context, *frame.Frame) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
