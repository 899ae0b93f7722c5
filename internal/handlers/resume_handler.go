package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-advisor/internal/models"
	"alfredoptarigan/resume-advisor/internal/services"
)

// ResumeHandler serves the synchronous endpoints. Uploaded files live only
// for the duration of the request.
type ResumeHandler struct {
	storageService services.StorageService
	analyzer       services.AnalyzerService
	maxFileSize    int64
}

func NewResumeHandler(
	storageService services.StorageService,
	analyzer services.AnalyzerService,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		storageService: storageService,
		analyzer:       analyzer,
		maxFileSize:    maxFileSize,
	}
}

// parseUpload stores the uploaded resume temporarily and parses it. On
// failure the error response has already been written and resume is nil.
func (h *ResumeHandler) parseUpload(c *fiber.Ctx) (string, *models.ParsedResume, error) {
	file, err := resumeFile(c, h.maxFileSize)
	if file == nil {
		return "", nil, err
	}

	filename, filePath, err := h.storageService.SaveFile(file, "tmp")
	if err != nil {
		return "", nil, errorResponse(c, errorStatus(err), fmt.Sprintf("failed to save resume file: %v", err))
	}
	defer func() {
		if err := h.storageService.DeleteFile(filename); err != nil {
			log.Printf("⚠️  Failed to remove temporary file %s: %v\n", filename, err)
		}
	}()

	resume, err := h.analyzer.ParseResume(filePath)
	if err != nil {
		return "", nil, errorResponse(c, errorStatus(err), err.Error())
	}

	return file.Filename, resume, nil
}

// HandleSections handles POST /sections
func (h *ResumeHandler) HandleSections(c *fiber.Ctx) error {
	filename, resume, err := h.parseUpload(c)
	if resume == nil {
		return err
	}

	return c.JSON(models.SectionsResponse{
		Filename: filename,
		Sections: resume.Sections,
	})
}

// HandleAnalyzeResume handles POST /analyze-resume
func (h *ResumeHandler) HandleAnalyzeResume(c *fiber.Ctx) error {
	filename, resume, err := h.parseUpload(c)
	if resume == nil {
		return err
	}

	analysis, err := h.analyzer.AnalyzeResume(c.UserContext(), resume)
	if err != nil {
		log.Printf("❌ Resume analysis failed for %s: %v\n", filename, err)
		return errorResponse(c, errorStatus(err), err.Error())
	}

	return c.JSON(models.ResumeAnalysisResponse{
		Filename: filename,
		Sections: resume.Sections,
		Analysis: analysis,
	})
}
