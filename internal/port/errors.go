package port

import (
	"errors"
	"fmt"
)

// Sentinel errors used across ports. Handlers map these to HTTP statuses.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProjectNotFound = errors.New("project not found")
	ErrCorpusNotFound  = errors.New("no code found for this project, please re-ingest")
	ErrEmptyArchive    = errors.New("archive contains no indexable files")
)

// Query pipeline stages, used to name where a request failed.
const (
	StageEmbedQuestion   = "embed_question"
	StageFetchCorpus     = "fetch_corpus"
	StageRanking         = "ranking"
	StageCompletion      = "completion"
	StagePersistTurns    = "persist_turns"
	StageCreateProject   = "create_project"
	StageEmbedChunks     = "embed_chunks"
	StagePersistCorpus   = "persist_corpus"
	StageExtractArchive  = "extract_archive"
	StageDownloadArchive = "download_archive"
)

// StageError wraps a failure with the pipeline stage that produced it, so
// callers can tell "service down" apart from "bad request" and know where
// the request died.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Stage returns the failed stage recorded in err, or "" if err carries none.
func Stage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
