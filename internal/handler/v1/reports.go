package v1

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"pmrs/internal/middleware"
	"pmrs/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// PatientReport generates and downloads the PDF patient report.
func (h *ReportHandler) PatientReport(c *gin.Context) {
	var buf bytes.Buffer
	err := h.svc.GeneratePatientReport(c.Request.Context(), &buf, middleware.GetClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="patient_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
