package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
	"github.com/baladia/fieldops-api/pkg/response"
)

type attendanceService interface {
	CheckIn(ctx context.Context, claims *models.JWTClaims, req dto.CheckInRequest) (*models.Attendance, error)
	ManualCheckIn(ctx context.Context, claims *models.JWTClaims, req dto.ManualCheckInRequest) (*models.Attendance, error)
	CheckOut(ctx context.Context, claims *models.JWTClaims, req dto.CheckOutRequest) (*models.Attendance, error)
	Today(ctx context.Context, claims *models.JWTClaims) (*models.Attendance, error)
	History(ctx context.Context, claims *models.JWTClaims, req dto.AttendanceHistoryRequest) ([]models.Attendance, *models.Pagination, error)
	PendingManual(ctx context.Context, page, pageSize int) ([]models.Attendance, *models.Pagination, error)
	ResolveManual(ctx context.Context, claims *models.JWTClaims, id string, req dto.ManualApprovalRequest) (*models.Attendance, error)
}

// AttendanceHandler exposes the check-in/check-out endpoints and the manual
// entry review flow.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// CheckIn godoc
// @Summary GPS check-in for the current day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "GPS sample"
// @Success 201 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	rec, err := h.service.CheckIn(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// ManualCheckIn godoc
// @Summary Manual check-in without GPS verification
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.ManualCheckInRequest true "Reason and optional coordinates"
// @Success 201 {object} response.Envelope
// @Router /attendance/manual [post]
func (h *AttendanceHandler) ManualCheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ManualCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	rec, err := h.service.ManualCheckIn(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// CheckOut godoc
// @Summary Close the active session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckOutRequest false "Optional GPS sample"
// @Success 200 {object} response.Envelope
// @Router /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
			return
		}
	}

	rec, err := h.service.CheckOut(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Today godoc
// @Summary Current day's session, if any
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/today [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rec, err := h.service.Today(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// History godoc
// @Summary Caller's session history
// @Tags Attendance
// @Produce json
// @Param dateFrom query string false "From date (YYYY-MM-DD)"
// @Param dateTo query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	req := dto.AttendanceHistoryRequest{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "limit", 50),
	}
	from, err := parseDateParam(c.Query("dateFrom"))
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateParam(c.Query("dateTo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	req.DateFrom = from
	req.DateTo = to

	rows, pagination, err := h.service.History(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// PendingManual godoc
// @Summary Manual entries awaiting review
// @Tags Attendance
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance/manual/pending [get]
func (h *AttendanceHandler) PendingManual(c *gin.Context) {
	rows, pagination, err := h.service.PendingManual(c.Request.Context(),
		parseQueryInt(c, "page", 1), parseQueryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// ResolveManual godoc
// @Summary Approve or reject a manual entry
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Attendance ID"
// @Param payload body dto.ManualApprovalRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /attendance/manual/{id}/resolve [post]
func (h *AttendanceHandler) ResolveManual(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ManualApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	rec, err := h.service.ResolveManual(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}
