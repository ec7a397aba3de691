// Package frame defines the unit of data moved between worker sources and
// sinks.
package frame

import "time"

// Frame is one message: a conversion request read from a source, or a
// reply headed for a sink.
type Frame struct {
	Key     []byte
	Value   []byte
	Headers map[string][]byte
	Ts      time.Time

	// Origin of a source frame; empty for replies.
	Topic     string
	Partition int32
	Offset    int64
}

// Reply builds a frame answering f, keeping its key so replies land on the
// same partition as their requests.
func (f *Frame) Reply(value []byte) *Frame {
	return &Frame{Key: f.Key, Value: value, Ts: time.Now()}
}
