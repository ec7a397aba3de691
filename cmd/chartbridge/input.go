package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"chartbridge/convert"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// decodeDocument accepts JSON or YAML holding a single object.
func decodeDocument(b []byte) (convert.Document, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return convert.Document{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("want an object, got %T", v)
	}
	return convert.Document(m), nil
}

// decodeFields accepts a JSON or YAML list of field objects.
func decodeFields(b []byte) ([]convert.Document, error) {
	var list []map[string]any
	if err := yaml.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	out := make([]convert.Document, 0, len(list))
	for _, f := range list {
		out = append(out, convert.Document(f))
	}
	return out, nil
}

func writeDocument(w io.Writer, doc convert.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
