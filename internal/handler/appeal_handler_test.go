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

type appealServiceMock struct {
	appeal     *models.Appeal
	err        error
	reviewedID string
}

func (m *appealServiceMock) Submit(context.Context, *models.JWTClaims, dto.AppealRequest) (*models.Appeal, error) {
	return m.appeal, m.err
}

func (m *appealServiceMock) Pending(context.Context, int, int) ([]models.Appeal, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return []models.Appeal{*m.appeal}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *appealServiceMock) Review(_ context.Context, _ *models.JWTClaims, appealID string, _ dto.AppealReviewRequest) (*models.Appeal, error) {
	m.reviewedID = appealID
	return m.appeal, m.err
}

func TestAppealHandlerSubmit(t *testing.T) {
	mock := &appealServiceMock{appeal: &models.Appeal{ID: "ap-1", Status: models.AppealPending}}
	h := NewAppealHandler(mock)

	body := `{"entity_type":"TaskRejection","entity_id":"a3bb189e-8bf9-4888-9912-ace4e6543002","reason":"GPS drift inside the building"}`
	c, w := testContext(t, http.MethodPost, "/appeals", body, workerClaims())
	h.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ap-1")
}

func TestAppealHandlerSubmitConflict(t *testing.T) {
	h := NewAppealHandler(&appealServiceMock{err: appErrors.ErrOpenAppealExists})

	body := `{"entity_type":"TaskRejection","entity_id":"a3bb189e-8bf9-4888-9912-ace4e6543002","reason":"GPS drift inside the building"}`
	c, w := testContext(t, http.MethodPost, "/appeals", body, workerClaims())
	h.Submit(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAppealHandlerReviewPassesID(t *testing.T) {
	mock := &appealServiceMock{appeal: &models.Appeal{ID: "ap-1", Status: models.AppealApproved}}
	h := NewAppealHandler(mock)

	c, w := testContext(t, http.MethodPost, "/appeals/ap-1/review", `{"approve":true}`, &models.JWTClaims{UserID: "sup-1", Role: models.RoleSupervisor})
	c.Params = gin.Params{{Key: "id", Value: "ap-1"}}
	h.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ap-1", mock.reviewedID)
}
