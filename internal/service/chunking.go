package service

import (
	"strings"

	"pdf-blob-analyzer/internal/domain"
)

// ChunkByPage flattens an analyze result into one chunk per page.
// Pages keep the order the service returned them in and are numbered from 1,
// including pages without any recognized lines.
func ChunkByPage(result *domain.AnalyzeResult) []domain.PageChunk {
	if result == nil || result.Pages == nil {
		return []domain.PageChunk{}
	}

	chunks := make([]domain.PageChunk, 0, len(result.Pages))
	for i, page := range result.Pages {
		var sb strings.Builder
		if page != nil {
			for _, line := range page.Lines {
				if line == nil || line.Content == "" {
					continue
				}
				sb.WriteString(line.Content)
				sb.WriteByte(' ')
			}
		}
		chunks = append(chunks, domain.NewPageChunk(i+1, strings.TrimSpace(sb.String())))
	}
	return chunks
}

// CountLines returns the number of recognized lines across all pages
func CountLines(result *domain.AnalyzeResult) int {
	if result == nil {
		return 0
	}
	n := 0
	for _, page := range result.Pages {
		if page != nil {
			n += len(page.Lines)
		}
	}
	return n
}
