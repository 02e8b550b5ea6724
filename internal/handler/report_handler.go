package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
	"github.com/baladia/fieldops-api/pkg/export"
	"github.com/baladia/fieldops-api/pkg/response"
)

type attendanceReportService interface {
	Summary(ctx context.Context, req dto.AttendanceReportRequest) ([]models.AttendanceSummary, error)
}

// ReportHandler renders attendance summaries as downloadable PDF reports.
type ReportHandler struct {
	service  attendanceReportService
	exporter *export.PDFExporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(service attendanceReportService, exporter *export.PDFExporter) *ReportHandler {
	if exporter == nil {
		exporter = export.NewPDFExporter()
	}
	return &ReportHandler{service: service, exporter: exporter}
}

// AttendancePDF godoc
// @Summary Attendance summary report as PDF
// @Tags Reports
// @Produce application/pdf
// @Param from query string true "From date (YYYY-MM-DD)"
// @Param to query string true "To date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /reports/attendance [get]
func (h *ReportHandler) AttendancePDF(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if from == nil || to == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from and to dates are required"))
		return
	}

	rows, err := h.service.Summary(c.Request.Context(), dto.AttendanceReportRequest{DateFrom: *from, DateTo: *to})
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.exporter.Render(summaryDataset(rows), "Attendance Summary",
		fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s-%s.pdf", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func summaryDataset(rows []models.AttendanceSummary) export.Dataset {
	headers := []string{"Worker", "Days", "Late Days", "Manual Days", "Late Minutes", "Worked Hours"}
	data := export.Dataset{Headers: headers}
	for _, row := range rows {
		worked := time.Duration(row.TotalMinutes) * time.Minute
		data.Rows = append(data.Rows, map[string]string{
			"Worker":       row.FullName,
			"Days":         fmt.Sprintf("%d", row.Days),
			"Late Days":    fmt.Sprintf("%d", row.LateDays),
			"Manual Days":  fmt.Sprintf("%d", row.ManualDays),
			"Late Minutes": fmt.Sprintf("%d", row.LateMinutes),
			"Worked Hours": fmt.Sprintf("%.1f", worked.Hours()),
		})
	}
	return data
}
