package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"chartbridge/convert"
)

type Converter interface {
	DSLToWorkflow(ctx context.Context, dsl convert.Document) (convert.Document, error)
	Convert(ctx context.Context, req convert.VegaRequest) (convert.Document, error)
}

// Handler serves the conversion endpoints. Ready, when set, backs /healthz.
type Handler struct {
	conv  Converter
	ready func(context.Context) error
}

func NewHandler(conv Converter, ready func(context.Context) error) *Handler {
	return &Handler{conv: conv, ready: ready}
}

type vegaBody struct {
	VL     convert.Document   `json:"vl" binding:"required"`
	Fields []convert.Document `json:"fields"`
	VisID  string             `json:"visId,omitempty"`
	Name   string             `json:"name,omitempty"`
}

// DSLToWorkflow takes the chart DSL document as the request body.
func (h *Handler) DSLToWorkflow(c *gin.Context) {
	var dsl convert.Document
	if err := c.ShouldBindJSON(&dsl); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := h.conv.DSLToWorkflow(c.Request.Context(), dsl)
	if err != nil {
		ConversionError(c, err)
		return
	}
	Success(c, out)
}

func (h *Handler) VegaToDSL(c *gin.Context) {
	var body vegaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := h.conv.Convert(c.Request.Context(), convert.VegaRequest{
		VL:        body.VL,
		AllFields: body.Fields,
		VisID:     body.VisID,
		Name:      body.Name,
	})
	if err != nil {
		ConversionError(c, err)
		return
	}
	Success(c, out)
}

func (h *Handler) Health(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			ConversionError(c, err)
			return
		}
	}
	Success(c, gin.H{"status": "ok"})
}
