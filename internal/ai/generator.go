package ai

import (
	"context"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
)

// Draft is an AI-generated recommendation proposal awaiting doctor review.
type Draft struct {
	TreatmentSuggestions     string
	LifestyleRecommendations string
	Priority                 string
}

// Generator produces a recommendation draft from extraction output. A nil
// draft with a nil error means the generator had no usable data, a distinct
// non-fatal outcome the pipeline maps to pending_ai_analysis.
type Generator interface {
	Generate(ctx context.Context, extracted *extraction.Result) (*Draft, error)
}
