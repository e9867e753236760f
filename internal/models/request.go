package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingOrder the request has neither an order nor an orders list
var ErrMissingOrder = errors.New("request has neither order nor orders")

// AnalyzeRequest wire shape sent to the heuristic: {"order": ...} or {"orders": [...]}.
type AnalyzeRequest struct {
	Order  *OrderRecord
	Orders []OrderRecord
}

// NewSingleRequest wraps one record.
func NewSingleRequest(order OrderRecord) AnalyzeRequest {
	o := order.Clone()
	return AnalyzeRequest{Order: &o}
}

// NewBatchRequest wraps a list of records, preserving order.
func NewBatchRequest(orders []OrderRecord) AnalyzeRequest {
	list := make([]OrderRecord, len(orders))
	for i := range orders {
		list[i] = orders[i].Clone()
	}
	return AnalyzeRequest{Orders: list}
}

// IsBatch reports whether the request carries the orders list form.
func (r AnalyzeRequest) IsBatch() bool {
	return r.Order == nil
}

// Records returns the records of either form.
func (r AnalyzeRequest) Records() []OrderRecord {
	if r.Order != nil {
		return []OrderRecord{*r.Order}
	}
	return r.Orders
}

// MarshalJSON emits exactly one of the two keys.
func (r AnalyzeRequest) MarshalJSON() ([]byte, error) {
	if r.Order != nil {
		return json.Marshal(struct {
			Order *OrderRecord `json:"order"`
		}{Order: r.Order})
	}
	orders := r.Orders
	if orders == nil {
		orders = []OrderRecord{}
	}
	return json.Marshal(struct {
		Orders []OrderRecord `json:"orders"`
	}{Orders: orders})
}

// UnmarshalJSON accepts both forms; see DecodeAnalyzeRequest.
func (r *AnalyzeRequest) UnmarshalJSON(b []byte) error {
	decoded, err := DecodeAnalyzeRequest(b)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

type requestEnvelope struct {
	Order  json.RawMessage `json:"order"`
	Orders json.RawMessage `json:"orders"`
}

// DecodeAnalyzeRequest decodes a request body.
// An "orders" array wins; otherwise "order" is unwrapped, tolerating one
// extra level of {"order": {"order": {...}}}. Every record is backfilled
// onto NewEmptyOrder.
func DecodeAnalyzeRequest(b []byte) (AnalyzeRequest, error) {
	var env requestEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return AnalyzeRequest{}, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}

	if items, ok := rawArray(env.Orders); ok {
		orders := make([]OrderRecord, 0, len(items))
		for i, item := range items {
			o, err := OrderFromPatch(item)
			if err != nil {
				return AnalyzeRequest{}, fmt.Errorf("orders[%d]: %w", i, err)
			}
			orders = append(orders, o)
		}
		return AnalyzeRequest{Orders: orders}, nil
	}

	inner := UnwrapOrder(env.Order)
	if inner == nil {
		return AnalyzeRequest{}, ErrMissingOrder
	}
	o, err := OrderFromPatch(inner)
	if err != nil {
		return AnalyzeRequest{}, err
	}
	return AnalyzeRequest{Order: &o}, nil
}

// UnwrapOrder returns the inner object of a single-order value, taking
// value.order when present. Nil when the value is absent, null, or not an object.
func UnwrapOrder(raw json.RawMessage) json.RawMessage {
	if !isObject(raw) {
		return nil
	}
	var nested struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && isObject(nested.Order) {
		return nested.Order
	}
	return raw
}

func rawArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
