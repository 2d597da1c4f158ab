package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/extraction"
)

type metricRule struct {
	metric    string
	high      float64
	treatment string
	lifestyle string
	severity  int // 1 = watch, 2 = act, 3 = urgent
}

var rules = []metricRule{
	{"Total Cholesterol", 200, "Discuss lipid-lowering therapy with your physician.", "Reduce saturated fat intake; 30 minutes of aerobic exercise daily.", 2},
	{"LDL", 130, "LDL above target; statin therapy may be indicated.", "Favor unsaturated fats and soluble fiber.", 2},
	{"Triglycerides", 150, "Elevated triglycerides; consider follow-up lipid panel in 3 months.", "Limit refined sugar and alcohol.", 1},
	{"TSH", 4.5, "TSH elevated; thyroid function follow-up recommended.", "Ensure adequate iodine intake; retest in 6-8 weeks.", 2},
	{"Glucose", 126, "Fasting glucose in diabetic range; HbA1c test recommended.", "Adopt a low-glycemic diet and regular activity.", 3},
	{"Creatinine", 1.3, "Creatinine elevated; renal function panel advised.", "Stay hydrated; avoid NSAIDs until reviewed.", 3},
	{"ALT", 56, "Liver enzymes elevated; hepatic panel follow-up advised.", "Avoid alcohol until reviewed.", 2},
}

// RuleBasedGenerator drafts treatment and lifestyle text from metric
// thresholds. It is the bundled stand-in for an external LLM-backed engine.
type RuleBasedGenerator struct{}

func NewRuleBasedGenerator() *RuleBasedGenerator {
	return &RuleBasedGenerator{}
}

func (g *RuleBasedGenerator) Generate(ctx context.Context, extracted *extraction.Result) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if extracted == nil || len(extracted.Metrics) == 0 {
		// No usable data: a distinct outcome, not an error.
		return nil, nil
	}

	var treatments, lifestyles []string
	maxSeverity := 0

	for _, rule := range rules {
		m, ok := extracted.Metrics[rule.metric]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			continue
		}
		if v > rule.high {
			treatments = append(treatments, fmt.Sprintf("%s is %s (above %.4g): %s", rule.metric, m.Value, rule.high, rule.treatment))
			lifestyles = append(lifestyles, rule.lifestyle)
			if rule.severity > maxSeverity {
				maxSeverity = rule.severity
			}
		}
	}

	if len(treatments) == 0 {
		treatments = append(treatments, "All recognized metrics are within normal range. No treatment changes suggested.")
		lifestyles = append(lifestyles, "Maintain current diet and activity; repeat screening in 12 months.")
	}

	priority := "Low"
	switch maxSeverity {
	case 2:
		priority = "Medium"
	case 3:
		priority = "High"
	}

	return &Draft{
		TreatmentSuggestions:     strings.Join(treatments, "\n"),
		LifestyleRecommendations: strings.Join(lifestyles, "\n"),
		Priority:                 priority,
	}, nil
}
