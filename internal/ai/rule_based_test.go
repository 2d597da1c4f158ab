package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain/report"
	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithMetrics(metrics map[string]report.Metric) *extraction.Result {
	return &extraction.Result{Metrics: metrics, RawText: "synthetic panel"}
}

func TestGenerateReturnsNilForNoData(t *testing.T) {
	g := NewRuleBasedGenerator()

	draft, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, draft)

	draft, err = g.Generate(context.Background(), resultWithMetrics(nil))
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestGenerateFlagsElevatedCholesterol(t *testing.T) {
	g := NewRuleBasedGenerator()

	draft, err := g.Generate(context.Background(), resultWithMetrics(map[string]report.Metric{
		"Total Cholesterol": {Value: "240", Unit: "mg/dL"},
	}))

	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Contains(t, draft.TreatmentSuggestions, "Total Cholesterol")
	assert.Equal(t, "Medium", draft.Priority)
}

func TestGeneratePriorityFollowsWorstFinding(t *testing.T) {
	g := NewRuleBasedGenerator()

	draft, err := g.Generate(context.Background(), resultWithMetrics(map[string]report.Metric{
		"Triglycerides": {Value: "180", Unit: "mg/dL"},
		"Glucose":       {Value: "140", Unit: "mg/dL"},
	}))

	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "High", draft.Priority)
	assert.Equal(t, 2, len(strings.Split(draft.TreatmentSuggestions, "\n")))
}

func TestGenerateNormalMetricsYieldLowPriority(t *testing.T) {
	g := NewRuleBasedGenerator()

	draft, err := g.Generate(context.Background(), resultWithMetrics(map[string]report.Metric{
		"Total Cholesterol": {Value: "180", Unit: "mg/dL"},
		"Glucose":           {Value: "90", Unit: "mg/dL"},
	}))

	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Low", draft.Priority)
	assert.Contains(t, draft.TreatmentSuggestions, "within normal range")
}

func TestGenerateSkipsUnparseableValues(t *testing.T) {
	g := NewRuleBasedGenerator()

	draft, err := g.Generate(context.Background(), resultWithMetrics(map[string]report.Metric{
		"Glucose": {Value: "n/a"},
	}))

	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Low", draft.Priority)
}
