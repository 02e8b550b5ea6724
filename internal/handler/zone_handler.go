package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baladia/fieldops-api/internal/dto"
	"github.com/baladia/fieldops-api/internal/models"
	appErrors "github.com/baladia/fieldops-api/pkg/errors"
	"github.com/baladia/fieldops-api/pkg/response"
)

type zoneImportService interface {
	Import(ctx context.Context, req dto.ZoneImportRequest) (*models.ZoneImportSummary, error)
}

type locationService interface {
	Validate(ctx context.Context, userID, municipalityID string, sample models.LocationSample) (*models.LocationResult, error)
}

// ZoneHandler exposes boundary imports and the diagnostic location check.
type ZoneHandler struct {
	importer zoneImportService
	location locationService
}

// NewZoneHandler constructs the handler.
func NewZoneHandler(importer zoneImportService, location locationService) *ZoneHandler {
	return &ZoneHandler{importer: importer, location: location}
}

// Import godoc
// @Summary Import zone boundaries from GeoJSON or shapefile
// @Tags Zones
// @Accept multipart/form-data
// @Produce json
// @Param municipality_id formData string true "Municipality ID"
// @Param format formData string true "geojson or shapefile"
// @Param notes formData string false "Version notes"
// @Param file formData file true "Boundary file (.geojson or .shp)"
// @Param dbf formData file false "Companion DBF for shapefile attributes"
// @Success 200 {object} response.Envelope
// @Router /zones/import [post]
func (h *ZoneHandler) Import(c *gin.Context) {
	req := dto.ZoneImportRequest{
		MunicipalityID: c.PostForm("municipality_id"),
		Format:         c.PostForm("format"),
		Notes:          c.PostForm("notes"),
	}

	payload, err := readFormFile(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	if payload == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a boundary file is required"))
		return
	}
	req.Payload = payload

	dbf, err := readFormFile(c, "dbf")
	if err != nil {
		response.Error(c, err)
		return
	}
	req.DBFPayload = dbf

	summary, err := h.importer.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ValidateLocation godoc
// @Summary Run the validation pipeline for one GPS sample
// @Tags Zones
// @Accept json
// @Produce json
// @Param payload body dto.ValidateLocationRequest true "Sample"
// @Success 200 {object} response.Envelope
// @Router /zones/validate-location [post]
func (h *ZoneHandler) ValidateLocation(c *gin.Context) {
	var req dto.ValidateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.location.Validate(c.Request.Context(), req.UserID, req.MunicipalityID, req.Sample)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// readFormFile returns nil without error when the field is absent.
func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == multipart.ErrMessageTooLarge {
			return nil, appErrors.Clone(appErrors.ErrValidation, "uploaded file is too large")
		}
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read uploaded file")
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read uploaded file")
	}
	return payload, nil
}
