package extraction

import (
	"context"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
)

// Result is the structured output of document extraction. RawText carries the
// full recovered text; PatientInfo and Metrics are best-effort and may be
// empty even when RawText is usable. Errors collects non-fatal extraction
// problems.
type Result struct {
	PatientInfo map[string]string
	Metrics     map[string]report.Metric
	RawText     string
	Errors      []string
}

// Extractor recovers text, patient metadata and health metrics from an
// uploaded report document. Implementations wrap external OCR/parsing
// engines; TextExtractor is the bundled plain-text reference implementation.
type Extractor interface {
	Extract(ctx context.Context, filePath string) (*Result, error)
}

// FileSource fetches a stored report document by the path or URL the file
// store returned at upload time. storage.FileStore satisfies it, so the
// extractor reads documents wherever the store put them.
type FileSource interface {
	Load(ctx context.Context, path string) ([]byte, error)
}
