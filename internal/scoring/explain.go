package scoring

import (
	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/models"
)

// Explain returns the prediction of an order together with every risk term
// that contributed to it, in evaluation order.
func Explain(o models.OrderRecord) models.Explanation {
	terms := riskTerms(o)
	risk := 0
	reasons := make([]models.Reason, 0, len(terms))
	for _, t := range terms {
		risk += t.points
		reasons = append(reasons, models.Reason{
			Factor: t.factor,
			Value:  t.value,
			Points: t.points,
			Impact: impactLabel(t.points),
		})
	}
	return models.Explanation{
		Prediction: fromRisk(risk),
		Risk:       risk,
		Reasons:    reasons,
	}
}

// ExplainAll explains every record of a request, preserving order.
func ExplainAll(req models.AnalyzeRequest) []models.Explanation {
	records := req.Records()
	out := make([]models.Explanation, 0, len(records))
	for _, o := range records {
		out = append(out, Explain(o))
	}
	return out
}

func impactLabel(points int) string {
	switch {
	case points >= 3:
		return constants.ImpactHigh
	case points == 2:
		return constants.ImpactMedium
	default:
		return constants.ImpactLow
	}
}
