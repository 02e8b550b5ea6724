package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/middleware"
	"github.com/baladia/fieldops-api/internal/models"
)

type zoneImportServiceMock struct {
	summary *models.ZoneImportSummary
	err     error
	lastReq dto.ZoneImportRequest
}

func (m *zoneImportServiceMock) Import(_ context.Context, req dto.ZoneImportRequest) (*models.ZoneImportSummary, error) {
	m.lastReq = req
	return m.summary, m.err
}

type locationServiceMock struct {
	result *models.LocationResult
	err    error
}

func (m *locationServiceMock) Validate(context.Context, string, string, models.LocationSample) (*models.LocationResult, error) {
	return m.result, m.err
}

func multipartImportRequest(t *testing.T, fields map[string]string, fileField, fileName string, fileBody []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/zones/import", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestZoneHandlerImport(t *testing.T) {
	importer := &zoneImportServiceMock{summary: &models.ZoneImportSummary{Imported: 3, Updated: 1}}
	h := NewZoneHandler(importer, &locationServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartImportRequest(t, map[string]string{
		"municipality_id": "b3bb189e-8bf9-4888-9912-ace4e6543002",
		"format":          "geojson",
		"notes":           "quarterly refresh",
	}, "file", "zones.geojson", []byte(`{"type":"FeatureCollection","features":[]}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	h.Import(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":3`)
	assert.Equal(t, "geojson", importer.lastReq.Format)
	assert.Equal(t, "quarterly refresh", importer.lastReq.Notes)
	assert.NotEmpty(t, importer.lastReq.Payload)
}

func TestZoneHandlerImportMissingFile(t *testing.T) {
	h := NewZoneHandler(&zoneImportServiceMock{}, &locationServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartImportRequest(t, map[string]string{
		"municipality_id": "b3bb189e-8bf9-4888-9912-ace4e6543002",
		"format":          "geojson",
	}, "", "", nil)

	h.Import(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoneHandlerValidateLocation(t *testing.T) {
	zoneID, zoneName := "z1", "Central"
	location := &locationServiceMock{result: &models.LocationResult{Allowed: true, Reason: models.LocationOKInZone, ZoneID: &zoneID, ZoneName: &zoneName}}
	h := NewZoneHandler(&zoneImportServiceMock{}, location)

	c, w := testContext(t, http.MethodPost, "/zones/validate-location", `{"sample":{"lat":31.95,"lon":35.91}}`, workerClaims())
	h.ValidateLocation(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK_IN_ZONE")
}
