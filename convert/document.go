package convert

// Document is an opaque JSON object. The bridge never validates its
// contents; that is left to the transformation programs.
type Document map[string]any

// Workflow returns the step list of a DSLToWorkflow result. ok is false
// when the "workflow" key is missing or not a list.
func (d Document) Workflow() (steps []any, ok bool) {
	steps, ok = d["workflow"].([]any)
	return steps, ok
}

// Analytic roles of a field.
const (
	AnalyticDimension = "dimension"
	AnalyticMeasure   = "measure"
)

// Semantic types of a field.
const (
	SemanticNominal      = "nominal"
	SemanticOrdinal      = "ordinal"
	SemanticQuantitative = "quantitative"
	SemanticTemporal     = "temporal"
)

// NewField builds a field descriptor for the VegaToDSL field catalog.
func NewField(fid, name, analyticType, semanticType string) Document {
	return Document{
		"fid":          fid,
		"name":         name,
		"analyticType": analyticType,
		"semanticType": semanticType,
	}
}

// VegaRequest is the envelope handed to the vega-to-dsl program. VisID and
// Name are synthetic identifiers the program requires.
type VegaRequest struct {
	VL        Document   `json:"vl"`
	AllFields []Document `json:"allFields"`
	VisID     string     `json:"visId"`
	Name      string     `json:"name"`
}
