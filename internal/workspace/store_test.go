package workspace

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mlops-microproject/review-workspace/internal/models"
)

func TestNewStartsWithOneEmptyOrder(t *testing.T) {
	s := New()
	if s.Len() != 1 || s.ActiveIndex() != 0 || !s.Editing() {
		t.Fatalf("unexpected initial state: len=%d active=%d editing=%v", s.Len(), s.ActiveIndex(), s.Editing())
	}
	if !reflect.DeepEqual(s.Active(), models.NewEmptyOrder()) {
		t.Fatalf("initial order should be empty: %+v", s.Active())
	}
}

func TestAddOrderActiveIndex(t *testing.T) {
	s := New()
	s.AddOrder()
	if s.Len() != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("after first add want len=2 active=1 got len=%d active=%d", s.Len(), s.ActiveIndex())
	}
	s.AddOrder()
	if s.Len() != 3 || s.ActiveIndex() != 2 {
		t.Fatalf("after second add want len=3 active=2 got len=%d active=%d", s.Len(), s.ActiveIndex())
	}
	if err := s.Select(0); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	s.AddOrder()
	if s.Len() != 4 || s.ActiveIndex() != 1 {
		t.Fatalf("add from first tab want active=1 got %d", s.ActiveIndex())
	}
}

func TestRemoveActiveKeepsOneOrder(t *testing.T) {
	s := New()
	if s.RemoveActive() {
		t.Fatalf("removing the last order should be refused")
	}
	if s.Len() != 1 {
		t.Fatalf("store must keep one order, got %d", s.Len())
	}

	s.AddOrder()
	s.AddOrder()
	if err := s.UpdateActive([]byte(`{"order_id": "third"}`)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !s.RemoveActive() {
		t.Fatalf("remove should succeed with three orders")
	}
	if s.Len() != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("after remove want len=2 active=1 got len=%d active=%d", s.Len(), s.ActiveIndex())
	}
	for _, o := range s.Orders() {
		if o.OrderID != nil {
			t.Fatalf("removed order still present")
		}
	}

	_ = s.Select(0)
	if !s.RemoveActive() || s.ActiveIndex() != 0 || s.Len() != 1 {
		t.Fatalf("remove at index 0 should clamp to 0, got active=%d len=%d", s.ActiveIndex(), s.Len())
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s := New()
	for _, i := range []int{-1, 1, 5} {
		if err := s.Select(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("select %d want ErrIndexOutOfRange got %v", i, err)
		}
	}
	if s.ActiveIndex() != 0 {
		t.Fatalf("failed select moved the active index")
	}
}

func TestUpdateActiveTouchesOnlyActive(t *testing.T) {
	s := New()
	s.AddOrder()
	s.AddOrder()
	_ = s.Select(1)
	if err := s.UpdateActive([]byte(`{"price": 42.5, "order_status": "shipped"}`)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := s.UpdateActive([]byte(`{"review_score": 4}`)); err != nil {
		t.Fatalf("second update failed: %v", err)
	}

	orders := s.Orders()
	empty := models.NewEmptyOrder()
	if !reflect.DeepEqual(orders[0], empty) || !reflect.DeepEqual(orders[2], empty) {
		t.Fatalf("other orders changed: %+v", orders)
	}
	got := orders[1]
	if got.Price == nil || *got.Price != 42.5 || got.OrderStatus != "shipped" || got.ReviewScore == nil || *got.ReviewScore != 4 {
		t.Fatalf("active order not merged: %+v", got)
	}
}

func TestUpdateActiveRejectsUnknownField(t *testing.T) {
	s := New()
	_ = s.UpdateActive([]byte(`{"price": 1}`))
	err := s.UpdateActive([]byte(`{"price": 2, "pricee": 3}`))
	if !errors.Is(err, models.ErrUnknownOrderField) {
		t.Fatalf("want ErrUnknownOrderField got %v", err)
	}
	if p := s.Active().Price; p == nil || *p != 1 {
		t.Fatalf("failed update should not change the record, price=%v", p)
	}
}

func TestOrdersReturnsCopies(t *testing.T) {
	s := New()
	_ = s.UpdateActive([]byte(`{"price": 5}`))
	orders := s.Orders()
	*orders[0].Price = 99
	if *s.Active().Price != 5 {
		t.Fatalf("caller mutated store through Orders")
	}
}

func TestBuildRequestPayloadForm(t *testing.T) {
	s := New()
	if s.BuildRequestPayload().IsBatch() {
		t.Fatalf("one order should give the single form")
	}
	s.AddOrder()
	req := s.BuildRequestPayload()
	if !req.IsBatch() || len(req.Orders) != 2 {
		t.Fatalf("two orders should give the batch form, got %+v", req)
	}
}

func TestPayloadJSONIndent(t *testing.T) {
	s := New()
	text, err := s.PayloadJSON()
	if err != nil {
		t.Fatalf("payload failed: %v", err)
	}
	if !strings.HasPrefix(text, "{\n  \"order\": {\n    \"order_id\": null,") {
		t.Fatalf("unexpected payload layout:\n%s", text)
	}
}

func TestSendAndClearPredictions(t *testing.T) {
	s := New()
	s.AddOrder()
	_ = s.UpdateActive([]byte(`{"order_status": "canceled"}`))
	before := s.Orders()

	result := s.Send()
	if !result.IsBatch() || len(result.Batch) != 2 {
		t.Fatalf("want two predictions got %+v", result)
	}
	if s.Editing() {
		t.Fatalf("send should leave editing mode")
	}
	if got, ok := s.Predictions(); !ok || !reflect.DeepEqual(got, result) {
		t.Fatalf("stored predictions differ: %+v", got)
	}
	if !reflect.DeepEqual(s.Orders(), before) {
		t.Fatalf("send mutated the orders")
	}

	s.ClearPredictions()
	if !s.Editing() {
		t.Fatalf("clear should return to editing")
	}
	if _, ok := s.Predictions(); ok {
		t.Fatalf("predictions should be gone")
	}
	if s.Len() != 2 {
		t.Fatalf("clear should keep the orders")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.AddOrder()
	_ = s.UpdateActive([]byte(`{"price": 3}`))
	s.Send()
	s.Reset()
	if s.Len() != 1 || s.ActiveIndex() != 0 || !s.Editing() {
		t.Fatalf("reset state wrong: len=%d active=%d editing=%v", s.Len(), s.ActiveIndex(), s.Editing())
	}
	if !reflect.DeepEqual(s.Active(), models.NewEmptyOrder()) {
		t.Fatalf("reset order should be empty")
	}
}

func TestReplaceAll(t *testing.T) {
	s := New()
	s.AddOrder()
	s.Send()

	err := s.ReplaceAll([]json.RawMessage{json.RawMessage(`{"price": 1}`), json.RawMessage(`{"order_status": "delivered"}`)})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if s.Len() != 2 || s.ActiveIndex() != 0 || !s.Editing() {
		t.Fatalf("replace state wrong: len=%d active=%d editing=%v", s.Len(), s.ActiveIndex(), s.Editing())
	}
	orders := s.Orders()
	if orders[0].PaymentType != "unknown" || orders[1].OrderStatus != "delivered" {
		t.Fatalf("records not backfilled: %+v", orders)
	}
}

func TestReplaceAllRejectsAtomically(t *testing.T) {
	s := New()
	_ = s.UpdateActive([]byte(`{"price": 7}`))
	before := s.Snapshot()

	if err := s.ReplaceAll(nil); !errors.Is(err, ErrEmptyImport) {
		t.Fatalf("want ErrEmptyImport got %v", err)
	}
	err := s.ReplaceAll([]json.RawMessage{json.RawMessage(`{"price": 1}`), json.RawMessage(`"nope"`)})
	if !errors.Is(err, models.ErrMalformedOrder) {
		t.Fatalf("want ErrMalformedOrder got %v", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Fatalf("failed replace changed the store")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := New()
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := probe["predictions"]; ok {
		t.Fatalf("editing snapshot should omit predictions: %s", b)
	}
	s.Send()
	b, _ = json.Marshal(s.Snapshot())
	if !strings.Contains(string(b), `"predictions":{"prediction":`) {
		t.Fatalf("single prediction not embedded: %s", b)
	}
}
