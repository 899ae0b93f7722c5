package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/resume-advisor/internal/models"
	"alfredoptarigan/resume-advisor/internal/repositories"
)

type AnalyzerService interface {
	ParseResume(filePath string) (*models.ParsedResume, error)
	AnalyzeResume(ctx context.Context, resume *models.ParsedResume) (*models.CareerAnalysis, error)
	AnalyzeJob(ctx context.Context, analysisID uuid.UUID) error
}

type AnalyzerOptions struct {
	MaxRetries    int
	Temperature   float32
	MaxInputChars int
	RoleCount     int
	ContextLimit  int
}

type analyzerService struct {
	analysisRepo  repositories.AnalysisRepository
	docRepo       repositories.DocumentRepository
	geminiService GeminiService
	qdrantService QdrantService
	docParser     DocumentParserService
	promptBuilder *PromptBuilder
	opts          AnalyzerOptions
}

// NewAnalyzerService wires the analysis pipeline. qdrantService may be nil,
// in which case prompts carry no reference material.
func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
	docParser DocumentParserService,
	opts AnalyzerOptions,
) AnalyzerService {
	return &analyzerService{
		analysisRepo:  analysisRepo,
		docRepo:       docRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		docParser:     docParser,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
	}
}

// ParseResume extracts, normalizes and segments a stored resume.
func (a *analyzerService) ParseResume(filePath string) (*models.ParsedResume, error) {
	content, err := a.docParser.ExtractTextWithMetaData(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}

	raw := content.Text
	if a.opts.MaxInputChars > 0 && len(raw) > a.opts.MaxInputChars {
		log.Printf("✂️  Truncating resume text from %d to %d characters\n", len(raw), a.opts.MaxInputChars)
		raw = raw[:a.opts.MaxInputChars]
	}

	text := NormalizeText(raw)
	if text == "" {
		return nil, ErrNoTextContent
	}

	return &models.ParsedResume{
		Text:      text,
		Sections:  SegmentSections(text),
		PageCount: content.PageCount,
	}, nil
}

// AnalyzeResume asks the text model for a career analysis of a parsed resume.
func (a *analyzerService) AnalyzeResume(ctx context.Context, resume *models.ParsedResume) (*models.CareerAnalysis, error) {
	referenceContext := a.retrieveContext(ctx, resume)

	prompt := a.promptBuilder.BuildCareerAnalysisPrompt(resume, referenceContext, a.opts.RoleCount)
	log.Printf("📝 Career analysis prompt length: %d characters", len(prompt))

	response, err := a.geminiService.GenerateTextWithRetry(ctx, prompt, a.opts.Temperature, a.opts.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate career analysis: %w", err)
	}

	analysis, err := ParseAnalysis(response)
	if err != nil {
		log.Printf("❌ Invalid career analysis response: %v", err)
		return nil, fmt.Errorf("failed to parse career analysis: %w", err)
	}

	return analysis, nil
}

// AnalyzeJob runs a queued analysis job and records its outcome.
func (a *analyzerService) AnalyzeJob(ctx context.Context, analysisID uuid.UUID) error {
	if err := a.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting analysis for job ID: %s\n", analysisID)

	job, err := a.analysisRepo.FindByID(analysisID)
	if err != nil {
		return a.fail(analysisID, "failed to get analysis", err)
	}

	doc, err := a.docRepo.FindByID(job.DocumentID)
	if err != nil {
		return a.fail(analysisID, "resume document not found", err)
	}

	log.Println("📄 Parsing resume...")
	resume, err := a.ParseResume(doc.FilePath)
	if err != nil {
		return a.fail(analysisID, "failed to parse resume", err)
	}

	log.Println("🤖 Analyzing resume with LLM...")
	analysis, err := a.AnalyzeResume(ctx, resume)
	if err != nil {
		return a.fail(analysisID, "failed to analyze resume", err)
	}

	resultJSON, err := json.Marshal(analysis)
	if err != nil {
		return a.fail(analysisID, "failed to encode analysis", err)
	}

	log.Println("💾 Saving analysis results...")
	if err := a.analysisRepo.UpdateResult(analysisID, string(resultJSON)); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Analysis completed successfully for job ID: %s\n", analysisID)
	return nil
}

func (a *analyzerService) fail(analysisID uuid.UUID, msg string, err error) error {
	wrapped := fmt.Errorf("%s: %w", msg, err)
	if updateErr := a.analysisRepo.UpdateError(analysisID, wrapped.Error()); updateErr != nil {
		log.Printf("⚠️  Failed to record error for job %s: %v\n", analysisID, updateErr)
	}
	return wrapped
}

// retrieveContext looks up reference material for the resume. Failures
// only cost the prompt its reference block.
func (a *analyzerService) retrieveContext(ctx context.Context, resume *models.ParsedResume) string {
	if a.qdrantService == nil || a.opts.ContextLimit <= 0 {
		return ""
	}

	query := a.promptBuilder.BuildRetrievalQuery(resume)
	if query == "" {
		return ""
	}

	log.Println("🔍 Retrieving reference material...")
	embedding, err := a.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to embed retrieval query: %v\n", err)
		return ""
	}

	results, err := a.qdrantService.SearchSimilar(ctx, embedding,
		[]string{DocTypeRoleProfile, DocTypeCourseCatalog}, a.opts.ContextLimit)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to search reference material: %v\n", err)
		return ""
	}

	return FormatReferenceContext(results)
}
