package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tmc/cv-tailor/internal/models"
	"tmc/cv-tailor/internal/services"
)

type GenerateHandler struct {
	pipeline       services.PipelineService
	storageService services.StorageService
	maxFileSize    int64
}

func NewGenerateHandler(
	pipeline services.PipelineService,
	storageService services.StorageService,
	maxFileSize int64,
) *GenerateHandler {
	return &GenerateHandler{
		pipeline:       pipeline,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleGenerate handles POST /generate. Multipart fields:
//
//	cv            CV file (pdf/docx/txt), required unless match_id is given
//	job           job description file, required unless match_id is given
//	skills_matrix optional docx insert for the three-part layout
//	client        client profile id, required
//	language      "French"/"English", ignored when the client forces one
//	match_id      optional id from a previous /match or /generate call
//
// The response body is the generated .docx.
func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to parse multipart form",
		})
	}

	client, err := models.ClientProfileByID(c.FormValue("client"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	lang, err := models.ParseLanguage(c.FormValue("language"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}

	matchID := uuid.Nil
	if raw := c.FormValue("match_id"); raw != "" {
		matchID, err = uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "invalid match_id format",
			})
		}
	}

	runDir, err := h.storageService.NewRunDir()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "failed to prepare run workspace",
		})
	}
	defer h.storageService.RemoveRunDir(runDir)

	req := services.GenerateRequest{
		Client:   client,
		Language: lang,
		MatchID:  matchID,
	}

	if matchID == uuid.Nil {
		cvFile, err := requiredFile(form, "cv", h.maxFileSize)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
		}
		jobFile, err := requiredFile(form, "job", h.maxFileSize)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
		}

		if req.CVPath, err = h.storageService.SaveUpload(cvFile, runDir, "cv"); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
		}
		if req.JobPath, err = h.storageService.SaveUpload(jobFile, runDir, "job"); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
		}
	}

	insertFile, err := optionalFile(form, "skills_matrix", h.maxFileSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
	}
	if insertFile != nil {
		if !strings.EqualFold(filepath.Ext(insertFile.Filename), ".docx") {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "skills_matrix must be a .docx file",
			})
		}
		if req.InsertPath, err = h.storageService.SaveUpload(insertFile, runDir, "skills_matrix"); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: err.Error()})
		}
	}

	result, err := h.pipeline.Generate(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	if result.MatchID != uuid.Nil {
		c.Set("X-Match-Id", result.MatchID.String())
	}
	if result.Match != nil {
		c.Set("X-Match-Score", fmt.Sprintf("%d", result.Match.OverallScore))
	}
	if result.Degraded {
		c.Set("X-Degraded", "true")
	}

	return c.Send(result.Document)
}
