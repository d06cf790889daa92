package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
)

// Extractor walks zip archives and keeps only source files worth indexing:
// entries whose path contains a deny-listed folder name are dropped, and only
// allow-listed extensions survive.
type Extractor struct {
	skipFolders []string
	extensions  []string
}

// NewExtractor creates an extractor with the given folder deny-list and
// extension allow-list. Matching is case-insensitive on the full entry path.
func NewExtractor(skipFolders, extensions []string) *Extractor {
	return &Extractor{skipFolders: skipFolders, extensions: extensions}
}

// ExtractZip reads a zip archive from memory and returns the filtered files.
func (e *Extractor) ExtractZip(data []byte) ([]domain.SourceFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var files []domain.SourceFile
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !e.keep(entry.Name) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", entry.Name, err)
		}

		files = append(files, domain.SourceFile{
			Name:    entry.Name,
			Content: string(content),
		})
	}

	return files, nil
}

// keep reports whether an entry path passes both filters.
func (e *Extractor) keep(entryName string) bool {
	name := strings.ToLower(entryName)

	for _, folder := range e.skipFolders {
		if strings.Contains(name, strings.ToLower(folder)) {
			return false
		}
	}

	for _, ext := range e.extensions {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
