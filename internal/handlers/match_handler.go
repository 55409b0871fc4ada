package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"tmc/cv-tailor/internal/models"
	"tmc/cv-tailor/internal/services"
)

type MatchHandler struct {
	pipeline       services.PipelineService
	storageService services.StorageService
	maxFileSize    int64
}

func NewMatchHandler(
	pipeline services.PipelineService,
	storageService services.StorageService,
	maxFileSize int64,
) *MatchHandler {
	return &MatchHandler{
		pipeline:       pipeline,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleMatch handles POST /match: score a CV against a job description
// without generating a document. The returned match_id can be fed to
// /generate to skip the analysis round there.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to parse multipart form",
		})
	}

	cvFile, err := requiredFile(form, "cv", h.maxFileSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}
	jobFile, err := requiredFile(form, "job", h.maxFileSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	runDir, err := h.storageService.NewRunDir()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "failed to prepare run workspace",
		})
	}
	defer h.storageService.RemoveRunDir(runDir)

	cvPath, err := h.storageService.SaveUpload(cvFile, runDir, "cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}
	jobPath, err := h.storageService.SaveUpload(jobFile, runDir, "job")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	record, err := h.pipeline.Match(c.Context(), cvPath, jobPath)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(models.MatchResponse{
		ID:        record.ID.String(),
		Candidate: record.Profile,
		Match:     record.Result,
	})
}

func requiredFile(form *multipart.Form, field string, maxSize int64) (*multipart.FileHeader, error) {
	files, exists := form.File[field]
	if !exists || len(files) == 0 {
		return nil, fmt.Errorf("%s file is required", field)
	}
	file := files[0]
	if file.Size > maxSize {
		return nil, fmt.Errorf("%s file too large. Max size: %d bytes", field, maxSize)
	}
	return file, nil
}

func optionalFile(form *multipart.Form, field string, maxSize int64) (*multipart.FileHeader, error) {
	files, exists := form.File[field]
	if !exists || len(files) == 0 {
		return nil, nil
	}
	file := files[0]
	if file.Size > maxSize {
		return nil, fmt.Errorf("%s file too large. Max size: %d bytes", field, maxSize)
	}
	return file, nil
}

// errorResponse maps the pipeline error taxonomy onto HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	var pipeErr *models.PipelineError
	if !errors.As(err, &pipeErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	status := fiber.StatusInternalServerError
	switch pipeErr.Kind {
	case models.ErrUnsupportedFormat:
		status = fiber.StatusUnsupportedMediaType
	case models.ErrExtractionEmpty:
		status = fiber.StatusUnprocessableEntity
	case models.ErrMissingInsert:
		status = fiber.StatusBadRequest
	case models.ErrModelTimeout:
		status = fiber.StatusGatewayTimeout
	case models.ErrMalformedOutput:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: pipeErr.Message,
		Kind:  pipeErr.Kind,
	})
}
