package services

import (
	"strings"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs the lines of normalized text into chunks of at most
// maxChunkSize bytes. Each chunk after the first starts with the trailing
// lines of the previous one, up to overlap bytes. Lines longer than
// maxChunkSize are split into sentences, then hard-wrapped.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var units []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxChunkSize {
			units = append(units, line)
			continue
		}
		for _, sentence := range splitIntoSentences(line) {
			units = append(units, hardWrap(sentence, maxChunkSize)...)
		}
	}

	var chunks []string
	var current []string
	size := 0

	for _, unit := range units {
		if size > 0 && size+1+len(unit) > maxChunkSize {
			chunks = append(chunks, strings.Join(current, "\n"))
			current, size = overlapTail(current, overlap, maxChunkSize-len(unit)-1)
		}
		if size > 0 {
			size++
		}
		current = append(current, unit)
		size += len(unit)
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}

// overlapTail returns the longest suffix of lines fitting in both overlap
// and room bytes, and its joined size.
func overlapTail(lines []string, overlap, room int) ([]string, int) {
	limit := min(overlap, room)
	size := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		next := size + len(lines[i])
		if size > 0 {
			next++
		}
		if next > limit {
			break
		}
		size = next
		start = i
	}
	tail := make([]string, len(lines)-start)
	copy(tail, lines[start:])
	return tail, size
}

func splitIntoSentences(text string) []string {
	var result []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				result = append(result, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		result = append(result, s)
	}
	return result
}

func hardWrap(s string, width int) []string {
	var parts []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width], ' ')
		if cut <= 0 {
			cut = width
		}
		parts = append(parts, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
