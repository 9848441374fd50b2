package v1

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"pmrs/internal/middleware"
	"pmrs/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export streams all patients as a CSV or JSON attachment, selected by
// ?format= (default csv).
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	// Buffer the export so a mid-stream failure can still return a JSON
	// error instead of a truncated file.
	var buf bytes.Buffer
	var err error
	var contentType, filename string

	switch format {
	case "csv":
		contentType = "text/csv"
		filename = "patients_export.csv"
		err = h.svc.ExportCSV(c.Request.Context(), &buf, middleware.GetClaims(c), c.ClientIP())
	case "json":
		contentType = "application/json"
		filename = "patients_export.json"
		err = h.svc.ExportJSON(c.Request.Context(), &buf, middleware.GetClaims(c), c.ClientIP())
	default:
		respondError(c, http.StatusBadRequest, "format must be csv or json")
		return
	}

	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) Import(c *gin.Context) {
	count, err := h.svc.ImportJSON(c.Request.Context(), c.Request.Body, middleware.GetClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"imported": count})
}
