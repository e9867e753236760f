// Package scoring is the stand-in for the satisfaction model: a pure risk
// heuristic that maps an order to a satisfied/not-satisfied probability pair.
package scoring

import (
	"strings"

	"github.com/mlops-microproject/review-workspace/internal/constants"
	"github.com/mlops-microproject/review-workspace/internal/models"

	"github.com/shopspring/decimal"
)

const (
	baseNotSatisfied  = 0.15
	riskWeight        = 0.12
	decisionCutoff    = 0.5
	probabilityPlaces = 2
)

// negativeHints substrings that mark a review comment as negative
var negativeHints = []string{"late", "delay", "damaged", "broken", "malo", "mal", "tarde", "dañado", "defect"}

// risk term factors
const (
	FactorReviewScore     = "review_score"
	FactorOrderStatus     = "order_status"
	FactorReviewComment   = "review_comment_message"
	FactorFreightRatio    = "freight_ratio"
	FactorMissingCritical = "missing_critical"
)

// Features lists the order fields the heuristic reads.
func Features() []string {
	return []string{
		"review_score",
		"order_status",
		"review_comment_message",
		"price",
		"freight_value",
		"order_purchase_timestamp",
		"order_estimated_delivery_date",
	}
}

type term struct {
	factor string
	value  interface{}
	points int
}

// Score returns the integer risk of an order.
func Score(o models.OrderRecord) int {
	risk := 0
	for _, t := range riskTerms(o) {
		risk += t.points
	}
	return risk
}

// PredictOne scores one order.
func PredictOne(o models.OrderRecord) models.Prediction {
	return fromRisk(Score(o))
}

// Predict applies PredictOne to every record of the request, keeping the
// request form: a list for {"orders"}, a single prediction for {"order"}.
func Predict(req models.AnalyzeRequest) models.PredictionResult {
	if !req.IsBatch() {
		p := PredictOne(*req.Order)
		return models.PredictionResult{Single: &p}
	}
	out := make([]models.Prediction, 0, len(req.Orders))
	for _, o := range req.Orders {
		out = append(out, PredictOne(o))
	}
	return models.PredictionResult{Batch: out}
}

func fromRisk(risk int) models.Prediction {
	pNot := clamp01(baseNotSatisfied + float64(risk)*riskWeight)
	pSat := clamp01(1 - pNot)

	prediction := 0
	label := constants.LabelNotSatisfied
	if pSat >= decisionCutoff {
		prediction = 1
		label = constants.LabelSatisfied
	}

	// not-satisfied is the complement of the rounded satisfied value, so the
	// pair always sums to exactly 1
	sat := decimal.NewFromFloat(pSat).Round(probabilityPlaces)
	notSat := decimal.NewFromInt(1).Sub(sat)

	return models.Prediction{
		Prediction:              prediction,
		Label:                   label,
		ProbabilitySatisfied:    sat.InexactFloat64(),
		ProbabilityNotSatisfied: notSat.InexactFloat64(),
	}
}

func riskTerms(o models.OrderRecord) []term {
	var terms []term

	if o.ReviewScore != nil {
		score := *o.ReviewScore
		switch {
		case score <= 2:
			terms = append(terms, term{factor: FactorReviewScore, value: score, points: 3})
		case score == 3:
			terms = append(terms, term{factor: FactorReviewScore, value: score, points: 1})
		}
	}

	switch string(o.OrderStatus) {
	case constants.OrderStatusCanceled:
		terms = append(terms, term{factor: FactorOrderStatus, value: constants.OrderStatusCanceled, points: 4})
	case constants.OrderStatusShipped:
		terms = append(terms, term{factor: FactorOrderStatus, value: constants.OrderStatusShipped, points: 1})
	}

	if hint, ok := negativeHint(o.ReviewCommentMessage); ok {
		terms = append(terms, term{factor: FactorReviewComment, value: hint, points: 2})
	}

	if o.Price != nil && o.FreightValue != nil && *o.Price > 0 {
		ratio := *o.FreightValue / *o.Price
		rounded := decimal.NewFromFloat(ratio).Round(probabilityPlaces).InexactFloat64()
		switch {
		case ratio >= 0.5:
			terms = append(terms, term{factor: FactorFreightRatio, value: rounded, points: 2})
		case ratio >= 0.25:
			terms = append(terms, term{factor: FactorFreightRatio, value: rounded, points: 1})
		}
	}

	if missing := missingCritical(o); len(missing) > 0 {
		terms = append(terms, term{factor: FactorMissingCritical, value: missing, points: 1})
	}

	return terms
}

// negativeHint returns the first hint found in the case-folded comment.
func negativeHint(comment string) (string, bool) {
	text := strings.ToLower(comment)
	if text == "" {
		return "", false
	}
	for _, hint := range negativeHints {
		if strings.Contains(text, hint) {
			return hint, true
		}
	}
	return "", false
}

// missingCritical lists the critical fields that are absent. Blank dates
// count as absent.
func missingCritical(o models.OrderRecord) []string {
	var missing []string
	if isBlank(o.OrderPurchaseTimestamp) {
		missing = append(missing, "order_purchase_timestamp")
	}
	if isBlank(o.OrderEstimatedDeliveryDate) {
		missing = append(missing, "order_estimated_delivery_date")
	}
	if o.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

func isBlank(v *string) bool {
	return v == nil || *v == ""
}

func clamp01(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
