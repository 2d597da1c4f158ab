package extraction

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
)

// metricLine matches "Total Cholesterol: 190 mg/dL" style rows, capturing the
// metric name, numeric value and optional unit.
var metricLine = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z0-9 /()%-]{1,60}?)\s*[:=]\s*([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z/%µ][A-Za-z0-9/%µ.]*)?\s*$`)

var patientInfoKeys = map[string]string{
	"patient name": "name",
	"name":         "name",
	"age":          "age",
	"sex":          "gender",
	"gender":       "gender",
	"date":         "report_date",
	"report date":  "report_date",
	"referred by":  "referred_by",
}

var patientInfoLine = regexp.MustCompile(`(?m)^\s*([A-Za-z ]{2,30})\s*[:=]\s*(.+?)\s*$`)

// TextExtractor reads plain-text report documents through a FileSource and
// scrapes patient info and metric rows with regular expressions. It stands in
// for the external OCR/parsing engine behind the Extractor interface.
type TextExtractor struct {
	files       FileSource
	allowedExts map[string]struct{}
}

func NewTextExtractor(files FileSource) *TextExtractor {
	return &TextExtractor{
		files: files,
		allowedExts: map[string]struct{}{
			".txt": {}, ".csv": {}, ".md": {}, ".text": {},
		},
	}
}

func (e *TextExtractor) Extract(ctx context.Context, filePath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if _, ok := e.allowedExts[ext]; !ok {
		return nil, fmt.Errorf("unsupported file type for text extraction: %q", ext)
	}

	data, err := e.files.Load(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	res := &Result{
		PatientInfo: map[string]string{},
		Metrics:     map[string]report.Metric{},
		RawText:     string(data),
	}

	for _, m := range metricLine.FindAllStringSubmatch(res.RawText, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		res.Metrics[name] = report.Metric{Value: m[2], Unit: strings.TrimSpace(m[3])}
	}

	for _, m := range patientInfoLine.FindAllStringSubmatch(res.RawText, -1) {
		key, ok := patientInfoKeys[strings.ToLower(strings.TrimSpace(m[1]))]
		if !ok {
			continue
		}
		if _, seen := res.PatientInfo[key]; !seen {
			res.PatientInfo[key] = strings.TrimSpace(m[2])
		}
	}

	if len(res.Metrics) == 0 {
		res.Errors = append(res.Errors, "no health metrics recognized in document")
	}

	return res, nil
}
