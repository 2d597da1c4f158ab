package extraction

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SUDAR2106/RemedyLabBackEnd/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedReport saves content through a real local file store so extraction
// runs against the same read path the pipeline uses.
func storedReport(t *testing.T, name, content string) (*TextExtractor, string) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	path, err := store.Save(context.Background(), name, []byte(content))
	require.NoError(t, err)
	return NewTextExtractor(store), path
}

func TestExtractMetricsAndPatientInfo(t *testing.T) {
	e, path := storedReport(t, "lipid_panel.txt", `Patient Name: Jordan Blake
Age: 52
Gender: M

Total Cholesterol: 240 mg/dL
LDL: 160 mg/dL
HDL: 38 mg/dL
Triglycerides: 210 mg/dL
`)

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Jordan Blake", res.PatientInfo["name"])
	assert.Equal(t, "52", res.PatientInfo["age"])
	assert.Equal(t, "M", res.PatientInfo["gender"])

	require.Contains(t, res.Metrics, "Total Cholesterol")
	assert.Equal(t, "240", res.Metrics["Total Cholesterol"].Value)
	assert.Equal(t, "mg/dL", res.Metrics["Total Cholesterol"].Unit)
	assert.Contains(t, res.Metrics, "LDL")
	assert.Contains(t, res.Metrics, "HDL")
	assert.Contains(t, res.Metrics, "Triglycerides")
	assert.Empty(t, res.Errors)
}

func TestExtractDecimalValuesAndMissingUnits(t *testing.T) {
	e, path := storedReport(t, "thyroid.txt", `TSH: 6.15 mIU/L
T3: 1.2
T4: 8.9
`)

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "6.15", res.Metrics["TSH"].Value)
	assert.Equal(t, "1.2", res.Metrics["T3"].Value)
	assert.Empty(t, res.Metrics["T3"].Unit)
}

func TestExtractRecordsMissingMetrics(t *testing.T) {
	e, path := storedReport(t, "narrative.txt", "The patient reports feeling well overall with no acute complaints.")

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, res.Metrics)
	assert.Contains(t, res.Errors, "no health metrics recognized in document")
	assert.NotEmpty(t, res.RawText)
}

func TestExtractRejectsUnsupportedFileType(t *testing.T) {
	e, _ := storedReport(t, "present.txt", "ignored")

	_, err := e.Extract(context.Background(), "scan.pdf")
	assert.Error(t, err)
}

func TestExtractMissingFile(t *testing.T) {
	e, _ := storedReport(t, "present.txt", "ignored")

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestExtractHonorsContextCancellation(t *testing.T) {
	e, path := storedReport(t, "anything.txt", "Total Cholesterol: 240 mg/dL")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
