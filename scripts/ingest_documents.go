package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-advisor/internal/config"
	"alfredoptarigan/resume-advisor/internal/services"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

type referenceSource struct {
	Dir     string
	DocType string
	Name    string
}

func main() {
	log.Println("🚀 Starting reference material ingestion...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize services
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.Worker.RetryInitialDelay)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	defer qdrantService.Close()

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	docParser := services.NewDocumentParserService()
	chunker := services.NewTextChunker()

	sources := []referenceSource{
		{
			Dir:     "./reference_docs/roles",
			DocType: services.DocTypeRoleProfile,
			Name:    "Role profiles",
		},
		{
			Dir:     "./reference_docs/courses",
			DocType: services.DocTypeCourseCatalog,
			Name:    "Course catalogs",
		},
	}

	successCount := 0
	failCount := 0

	for _, src := range sources {
		log.Printf("\n📂 Processing: %s", src.Name)
		log.Printf("   Dir: %s", src.Dir)

		entries, err := os.ReadDir(src.Dir)
		if err != nil {
			log.Printf("   ⚠️  Directory not readable, skipping: %v", err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !services.IsSupportedExtension(entry.Name()) {
				continue
			}

			path := filepath.Join(src.Dir, entry.Name())
			docID := referenceDocID(src.DocType, entry.Name())

			stored, err := ingestFile(ctx, docParser, chunker, geminiService, qdrantService, path, docID, src.DocType)
			if err != nil {
				log.Printf("   ❌ %s: %v", entry.Name(), err)
				failCount++
				continue
			}

			log.Printf("   ✅ %s: %d chunks stored", entry.Name(), stored)
			successCount++
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All documents ingested successfully!")
}

// referenceDocID derives a stable ID so re-running the script replaces
// earlier chunks instead of duplicating them.
func referenceDocID(docType, filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return fmt.Sprintf("%s:%s", docType, strings.ToLower(base))
}

func ingestFile(
	ctx context.Context,
	docParser services.DocumentParserService,
	chunker services.TextChunker,
	geminiService services.GeminiService,
	qdrantService services.QdrantService,
	path, docID, docType string,
) (int, error) {
	content, err := docParser.ExtractTextWithMetaData(path)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text: %w", err)
	}

	text := services.NormalizeText(content.Text)
	if text == "" {
		return 0, services.ErrNoTextContent
	}

	chunks := chunker.ChunkText(text, chunkSize, chunkOverlap)

	if err := qdrantService.DeleteDocument(ctx, docID); err != nil {
		return 0, fmt.Errorf("failed to remove previous chunks: %w", err)
	}

	stored := 0
	for i, chunk := range chunks {
		embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
			continue
		}

		if err := qdrantService.UpsertDocument(ctx, docID, i, docType, chunk, embedding); err != nil {
			log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("no chunks stored out of %d", len(chunks))
	}

	return stored, nil
}
