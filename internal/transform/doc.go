// Package transform holds convert.Engine backends that run the
// transformation programs somewhere other than this process. GRPCClient
// forwards every call to a chartbridge server, which owns the JS runtime.
package transform
