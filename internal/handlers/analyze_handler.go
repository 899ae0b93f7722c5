package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-advisor/internal/models"
	"alfredoptarigan/resume-advisor/internal/repositories"
	"alfredoptarigan/resume-advisor/internal/services"
)

type AnalyzeHandler struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	worker       services.Worker
}

func NewAnalyzeHandler(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		worker:       worker,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.DocumentID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "document_id is required")
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid document_id format")
	}

	if _, err := h.docRepo.FindByID(docID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Resume document not found")
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to look up resume document")
	}

	analysis := &models.Analysis{
		ID:         uuid.New(),
		DocumentID: docID,
		Status:     models.StatusQueued,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create analysis job")
	}

	// A job the queue cannot take now stays queued for the poller.
	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Status: string(models.StatusQueued),
	})
}
