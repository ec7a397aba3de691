// Package jsrt loads the bundled chart transformation programs into an
// embeddable JavaScript engine and calls their entry points with JSON
// values. Engine backends register themselves by name (see gojavm); a
// Handle picks one, loads both programs once and serializes calls into
// each program's VM.
package jsrt
