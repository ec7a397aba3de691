//go:build !noexport

package main

// The goja engine is the default export engine. Build with -tags noexport
// to produce a binary without it; conversions then report the runtime as
// unavailable unless runtime.backend is grpc.
import _ "chartbridge/jsrt/gojavm"
