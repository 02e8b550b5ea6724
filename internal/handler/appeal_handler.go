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

type appealService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.AppealRequest) (*models.Appeal, error)
	Pending(ctx context.Context, page, pageSize int) ([]models.Appeal, *models.Pagination, error)
	Review(ctx context.Context, claims *models.JWTClaims, appealID string, req dto.AppealReviewRequest) (*models.Appeal, error)
}

// AppealHandler exposes the appeal workflow.
type AppealHandler struct {
	service appealService
}

// NewAppealHandler constructs the handler.
func NewAppealHandler(service appealService) *AppealHandler {
	return &AppealHandler{service: service}
}

// Submit godoc
// @Summary Open an appeal against an automated rejection
// @Tags Appeals
// @Accept json
// @Produce json
// @Param payload body dto.AppealRequest true "Appeal"
// @Success 201 {object} response.Envelope
// @Router /appeals [post]
func (h *AppealHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	appeal, err := h.service.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appeal)
}

// Pending godoc
// @Summary Appeals awaiting review
// @Tags Appeals
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /appeals/pending [get]
func (h *AppealHandler) Pending(c *gin.Context) {
	rows, pagination, err := h.service.Pending(c.Request.Context(),
		parseQueryInt(c, "page", 1), parseQueryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Review godoc
// @Summary Record the terminal appeal decision
// @Tags Appeals
// @Accept json
// @Produce json
// @Param id path string true "Appeal ID"
// @Param payload body dto.AppealReviewRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /appeals/{id}/review [post]
func (h *AppealHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AppealReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	appeal, err := h.service.Review(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appeal, nil)
}
