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

type taskService interface {
	Complete(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskCompletionRequest) (*models.TaskCompletionResult, error)
	Progress(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskProgressRequest) (*models.Task, error)
	Extend(ctx context.Context, claims *models.JWTClaims, taskID string, req dto.TaskExtensionRequest) (*models.Task, error)
	Reset(ctx context.Context, claims *models.JWTClaims, taskID string) (*models.Task, error)
	LocationWarnings(ctx context.Context, municipalityID string, page, pageSize int) ([]models.Task, *models.Pagination, error)
}

// TaskHandler exposes completion verification and the supervisor controls
// around the distance policy.
type TaskHandler struct {
	service taskService
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Complete godoc
// @Summary Submit task completion with a GPS reading
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body dto.TaskCompletionRequest true "Completion submission"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.TaskCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.service.Complete(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Progress godoc
// @Summary Update completion percentage
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body dto.TaskProgressRequest true "Progress update"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/progress [patch]
func (h *TaskHandler) Progress(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.TaskProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	task, err := h.service.Progress(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Extend godoc
// @Summary Move a task deadline
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body dto.TaskExtensionRequest true "New deadline"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/extend [post]
func (h *TaskHandler) Extend(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.TaskExtensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	task, err := h.service.Extend(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Reset godoc
// @Summary Reopen a rejected task with cleared strikes
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/reset [post]
func (h *TaskHandler) Reset(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	task, err := h.service.Reset(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// LocationWarnings godoc
// @Summary Tasks flagged by a first-strike distance failure
// @Tags Tasks
// @Produce json
// @Param municipalityId query string false "Municipality ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tasks/location-warnings [get]
func (h *TaskHandler) LocationWarnings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	municipalityID := c.Query("municipalityId")
	if municipalityID == "" {
		municipalityID = claims.MunicipalityID
	}

	rows, pagination, err := h.service.LocationWarnings(c.Request.Context(), municipalityID,
		parseQueryInt(c, "page", 1), parseQueryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}
