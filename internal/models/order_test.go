package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewEmptyOrderDefaults(t *testing.T) {
	o := NewEmptyOrder()
	if o.PaymentType != "unknown" || o.OrderStatus != "unknown" {
		t.Fatalf("enum defaults want unknown, got payment=%s status=%s", o.PaymentType, o.OrderStatus)
	}
	if o.Price != nil || o.FreightValue != nil || o.ReviewScore != nil || o.OrderID != nil {
		t.Fatalf("nullable fields should default to nil: %+v", o)
	}
	if o.ReviewCommentMessage != "" {
		t.Fatalf("comment should default to empty, got %q", o.ReviewCommentMessage)
	}

	body, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal empty order failed: %v", err)
	}
	for _, want := range []string{`"price":null`, `"payment_type":"unknown"`, `"review_comment_message":""`, `"order_status":"unknown"`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestApplyPatchMergesFieldByField(t *testing.T) {
	o := NewEmptyOrder()
	if err := ApplyPatch(&o, []byte(`{"price": 100, "review_score": 4}`)); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}
	if err := ApplyPatch(&o, []byte(`{"freight_value": 12.5}`)); err != nil {
		t.Fatalf("apply patch failed: %v", err)
	}
	if o.Price == nil || *o.Price != 100 {
		t.Fatalf("price should survive a later patch, got %v", o.Price)
	}
	if o.FreightValue == nil || *o.FreightValue != 12.5 {
		t.Fatalf("freight want 12.5 got %v", o.FreightValue)
	}
	if o.ReviewScore == nil || *o.ReviewScore != 4 {
		t.Fatalf("review score want 4 got %v", o.ReviewScore)
	}
	if o.OrderStatus != "unknown" {
		t.Fatalf("unspecified status should stay unknown, got %s", o.OrderStatus)
	}
}

func TestApplyPatchNullSemantics(t *testing.T) {
	o := NewEmptyOrder()
	_ = ApplyPatch(&o, []byte(`{"price": 10, "order_status": "shipped", "review_comment_message": "ok"}`))
	if err := ApplyPatch(&o, []byte(`{"price": null, "order_status": null, "review_comment_message": null}`)); err != nil {
		t.Fatalf("apply null patch failed: %v", err)
	}
	if o.Price != nil {
		t.Fatalf("null should clear price, got %v", *o.Price)
	}
	if o.OrderStatus != "shipped" {
		t.Fatalf("null should not clear enum, got %s", o.OrderStatus)
	}
	if o.ReviewCommentMessage != "ok" {
		t.Fatalf("null should not clear comment, got %q", o.ReviewCommentMessage)
	}
}

func TestApplyPatchErrorLeavesRecordUnchanged(t *testing.T) {
	o := NewEmptyOrder()
	_ = ApplyPatch(&o, []byte(`{"price": 10}`))

	err := ApplyPatch(&o, []byte(`{"price": 20, "review_score": "five"}`))
	if !errors.Is(err, ErrMalformedOrder) {
		t.Fatalf("want ErrMalformedOrder got %v", err)
	}
	if o.Price == nil || *o.Price != 10 {
		t.Fatalf("failed patch must not partially apply, price=%v", o.Price)
	}

	for _, bad := range []string{``, `[]`, `"x"`, `12`, `null`} {
		if err := ApplyPatch(&o, []byte(bad)); !errors.Is(err, ErrMalformedOrder) {
			t.Fatalf("patch %q want ErrMalformedOrder got %v", bad, err)
		}
	}
}

func TestApplyPatchStrictRejectsUnknownField(t *testing.T) {
	o := NewEmptyOrder()
	err := ApplyPatchStrict(&o, []byte(`{"prize": 10}`))
	if !errors.Is(err, ErrUnknownOrderField) {
		t.Fatalf("want ErrUnknownOrderField got %v", err)
	}
	if err := ApplyPatch(&o, []byte(`{"prize": 10}`)); err != nil {
		t.Fatalf("lenient patch should ignore unknown keys, got %v", err)
	}
}

func TestCloneDoesNotShareFields(t *testing.T) {
	o, err := OrderFromPatch([]byte(`{"price": 50, "order_id": "a"}`))
	if err != nil {
		t.Fatalf("order from patch failed: %v", err)
	}
	c := o.Clone()
	*c.Price = 99
	*c.OrderID = "b"
	if *o.Price != 50 || *o.OrderID != "a" {
		t.Fatalf("clone mutated original: price=%v id=%v", *o.Price, *o.OrderID)
	}
}
