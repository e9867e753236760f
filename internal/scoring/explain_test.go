package scoring

import (
	"testing"

	"github.com/mlops-microproject/review-workspace/internal/models"
)

func TestExplainListsContributingTerms(t *testing.T) {
	o := mustOrder(t, `{"review_score": 2, "order_status": "shipped", "review_comment_message": "Entrega tarde",
		"price": 100, "freight_value": 30}`)
	exp := Explain(o)

	wantFactors := []string{FactorReviewScore, FactorOrderStatus, FactorReviewComment, FactorFreightRatio, FactorMissingCritical}
	if len(exp.Reasons) != len(wantFactors) {
		t.Fatalf("reasons want %d got %+v", len(wantFactors), exp.Reasons)
	}
	for i, f := range wantFactors {
		if exp.Reasons[i].Factor != f {
			t.Fatalf("reason %d want %s got %s", i, f, exp.Reasons[i].Factor)
		}
	}
	if exp.Risk != Score(o) {
		t.Fatalf("explained risk %d differs from score %d", exp.Risk, Score(o))
	}
	if exp.Prediction != PredictOne(o) {
		t.Fatalf("explained prediction differs: %+v vs %+v", exp.Prediction, PredictOne(o))
	}
	if exp.Reasons[0].Impact != "high" || exp.Reasons[2].Impact != "medium" || exp.Reasons[1].Impact != "low" {
		t.Fatalf("unexpected impacts: %+v", exp.Reasons)
	}
	if exp.Reasons[2].Value != "tarde" {
		t.Fatalf("comment reason should name the hint, got %v", exp.Reasons[2].Value)
	}
	if exp.Reasons[3].Value != 0.3 {
		t.Fatalf("ratio reason want 0.3 got %v", exp.Reasons[3].Value)
	}
}

func TestExplainCleanOrderHasNoReasons(t *testing.T) {
	exp := Explain(mustOrder(t, `{`+completeDates+`, "price": 10}`))
	if exp.Risk != 0 || len(exp.Reasons) != 0 {
		t.Fatalf("clean order should have no reasons, got %+v", exp)
	}
}

func TestExplainAllPreservesOrder(t *testing.T) {
	a := mustOrder(t, `{"order_status": "canceled"}`)
	b := mustOrder(t, `{}`)
	out := ExplainAll(models.NewBatchRequest([]models.OrderRecord{a, b}))
	if len(out) != 2 || out[0].Risk != 5 || out[1].Risk != 1 {
		t.Fatalf("unexpected explanations: %+v", out)
	}
}
