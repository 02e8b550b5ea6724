package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
)

type taskServiceMock struct {
	result         *models.TaskCompletionResult
	task           *models.Task
	err            error
	municipalityID string
}

func (m *taskServiceMock) Complete(context.Context, *models.JWTClaims, string, dto.TaskCompletionRequest) (*models.TaskCompletionResult, error) {
	return m.result, m.err
}

func (m *taskServiceMock) Progress(context.Context, *models.JWTClaims, string, dto.TaskProgressRequest) (*models.Task, error) {
	return m.task, m.err
}

func (m *taskServiceMock) Extend(context.Context, *models.JWTClaims, string, dto.TaskExtensionRequest) (*models.Task, error) {
	return m.task, m.err
}

func (m *taskServiceMock) Reset(context.Context, *models.JWTClaims, string) (*models.Task, error) {
	return m.task, m.err
}

func (m *taskServiceMock) LocationWarnings(_ context.Context, municipalityID string, _, _ int) ([]models.Task, *models.Pagination, error) {
	m.municipalityID = municipalityID
	if m.err != nil {
		return nil, nil, m.err
	}
	return nil, &models.Pagination{Page: 1, PageSize: 50}, nil
}

func TestTaskHandlerCompleteWarning(t *testing.T) {
	mock := &taskServiceMock{result: &models.TaskCompletionResult{
		Outcome:        models.CompletionWarning,
		DistanceMeters: 420,
		AttemptsUsed:   1,
		Task:           &models.Task{ID: "t1", Status: models.TaskInProgress},
	}}
	h := NewTaskHandler(mock)

	c, w := testContext(t, http.MethodPost, "/tasks/t1/complete", `{"lat":31.95,"lon":35.91}`, workerClaims())
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Complete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"Warning"`)
}

func TestTaskHandlerCompleteTerminalPolicy(t *testing.T) {
	h := NewTaskHandler(&taskServiceMock{err: appErrors.ErrPolicyTerminal})

	c, w := testContext(t, http.MethodPost, "/tasks/t1/complete", `{"lat":31.95,"lon":35.91}`, workerClaims())
	c.Params = gin.Params{{Key: "id", Value: "t1"}}
	h.Complete(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "POLICY_TERMINAL")
}

func TestTaskHandlerProgressBadBody(t *testing.T) {
	h := NewTaskHandler(&taskServiceMock{})

	c, w := testContext(t, http.MethodPatch, "/tasks/t1/progress", `{"progress":`, workerClaims())
	h.Progress(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerLocationWarningsDefaultsMunicipality(t *testing.T) {
	mock := &taskServiceMock{}
	h := NewTaskHandler(mock)

	claims := &models.JWTClaims{UserID: "sup-1", Role: models.RoleSupervisor, MunicipalityID: "m1"}
	c, w := testContext(t, http.MethodGet, "/tasks/location-warnings", "", claims)
	h.LocationWarnings(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m1", mock.municipalityID)
}
