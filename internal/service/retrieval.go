package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
)

// contextDelimiter separates retrieved snippets in the completion prompt.
const contextDelimiter = "\n\n---\n\n"

// chunkContent splits content into fixed-width, non-overlapping slices of at
// most size bytes, in order; the final chunk may be shorter. Empty content
// yields no chunks. Slicing has no awareness of code structure, so a boundary
// can land mid-identifier; retrieval accepts that trade-off.
func chunkContent(content string, size int) []string {
	if size <= 0 || len(content) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(content)+size-1)/size)
	for i := 0; i < len(content); i += size {
		end := i + size
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, content[i:end])
	}
	return chunks
}

// dotProduct is the similarity score: an unnormalized dot product. The
// embedder emits L2-normalized vectors, so in practice this tracks cosine
// similarity, but nothing here depends on normalization.
func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// rankChunks scores every record against the query vector and returns the
// top k by descending score, plus the number of records skipped because
// their dimensionality disagrees with the query. A skipped record never
// aborts the scan. Ties keep scan order, so identical inputs always produce
// identical rankings.
func rankChunks(query []float32, records []domain.EmbeddingRecord, k int) ([]domain.ScoredMatch, int) {
	matches := make([]domain.ScoredMatch, 0, len(records))
	skipped := 0
	for _, r := range records {
		if len(r.Vector) != len(query) {
			skipped++
			continue
		}
		matches = append(matches, domain.ScoredMatch{
			FileName: r.FileName,
			Content:  r.Content,
			Score:    dotProduct(query, r.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, skipped
}

// buildContext formats ranked matches into a single prompt context block.
// Content goes in verbatim and order is preserved.
func buildContext(matches []domain.ScoredMatch) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("File: %s\nCode: %s", m.FileName, m.Content)
	}
	return strings.Join(parts, contextDelimiter)
}
