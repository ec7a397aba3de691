package conversionv1

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeDocument converts any JSON-serializable value holding an object
// into a Struct. Values are normalized through JSON first, since structpb
// only accepts plain maps, slices and scalars.
func EncodeDocument(v any) (*structpb.Struct, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// DecodeDocument returns s as a plain map; a nil Struct yields an empty map.
func DecodeDocument(s *structpb.Struct) map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return s.AsMap()
}
