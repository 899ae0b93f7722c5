package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-advisor/internal/models"
	"alfredoptarigan/resume-advisor/internal/repositories"
	"alfredoptarigan/resume-advisor/internal/services"
)

const resumeFormField = "file"

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// resumeFile returns the uploaded resume after checking its size and type.
// On failure the error response has already been written.
func resumeFile(c *fiber.Ctx, maxFileSize int64) (*multipart.FileHeader, error) {
	file, err := c.FormFile(resumeFormField)
	if err != nil {
		return nil, errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("No file uploaded. Please upload a resume as '%s' (.pdf, .docx or .txt).", resumeFormField))
	}

	if file.Size == 0 {
		return nil, errorResponse(c, fiber.StatusBadRequest, "Uploaded file is empty")
	}

	if file.Size > maxFileSize {
		return nil, errorResponse(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", maxFileSize))
	}

	if !services.IsSupportedExtension(file.Filename) {
		return nil, errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Unsupported file type %q. Supported: .pdf, .docx, .txt", filepath.Ext(file.Filename)))
	}

	return file, nil
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := resumeFile(c, h.maxFileSize)
	if file == nil {
		return err
	}

	filename, filePath, err := h.storageService.SaveFile(file, "resume")
	if err != nil {
		return errorResponse(c, errorStatus(err), fmt.Sprintf("failed to save resume file: %v", err))
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		Extension:        strings.ToLower(filepath.Ext(file.Filename)),
		FilePath:         filePath,
		FileSize:         file.Size,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to save resume document record")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"document": models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			Extension:    doc.Extension,
		},
	})
}
