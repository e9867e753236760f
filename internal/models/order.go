package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mlops-microproject/review-workspace/internal/constants"
)

var (
	// ErrMalformedOrder the record is not a JSON object or a field has the wrong type
	ErrMalformedOrder = errors.New("order is not a valid JSON object")
	// ErrUnknownOrderField a strict patch named a field the record does not have
	ErrUnknownOrderField = errors.New("unknown order field")
)

// PaymentType payment method of an order
type PaymentType string

// OrderStatus lifecycle status of an order
type OrderStatus string

// OrderRecord one purchase/review under analysis.
// Nullable fields are pointers; nil means "unknown".
type OrderRecord struct {
	OrderID *string `json:"order_id"`

	OrderPurchaseTimestamp     *string `json:"order_purchase_timestamp"`
	OrderApprovedAt            *string `json:"order_approved_at"`
	OrderDeliveredCarrierDate  *string `json:"order_delivered_carrier_date"`
	OrderDeliveredCustomerDate *string `json:"order_delivered_customer_date"`
	OrderEstimatedDeliveryDate *string `json:"order_estimated_delivery_date"`
	ShippingLimitDate          *string `json:"shipping_limit_date"`

	ProductLengthCM *float64 `json:"product_length_cm"`
	ProductHeightCM *float64 `json:"product_height_cm"`
	ProductWidthCM  *float64 `json:"product_width_cm"`
	Price           *float64 `json:"price"`
	FreightValue    *float64 `json:"freight_value"`

	CustomerState       *string     `json:"customer_state"`
	SellerState         *string     `json:"seller_state"`
	PaymentType         PaymentType `json:"payment_type"`
	ProductCategoryName *string     `json:"product_category_name"`

	ReviewScore          *int        `json:"review_score"`
	ReviewCommentMessage string      `json:"review_comment_message"`
	OrderStatus          OrderStatus `json:"order_status"`
}

// NewEmptyOrder returns a record with every field at its default.
func NewEmptyOrder() OrderRecord {
	return OrderRecord{
		PaymentType: PaymentType(constants.PaymentTypeUnknown),
		OrderStatus: OrderStatus(constants.OrderStatusUnknown),
	}
}

// Clone deep-copies the record so callers never share pointer fields.
func (o OrderRecord) Clone() OrderRecord {
	out := o
	out.OrderID = cloneString(o.OrderID)
	out.OrderPurchaseTimestamp = cloneString(o.OrderPurchaseTimestamp)
	out.OrderApprovedAt = cloneString(o.OrderApprovedAt)
	out.OrderDeliveredCarrierDate = cloneString(o.OrderDeliveredCarrierDate)
	out.OrderDeliveredCustomerDate = cloneString(o.OrderDeliveredCustomerDate)
	out.OrderEstimatedDeliveryDate = cloneString(o.OrderEstimatedDeliveryDate)
	out.ShippingLimitDate = cloneString(o.ShippingLimitDate)
	out.ProductLengthCM = cloneFloat(o.ProductLengthCM)
	out.ProductHeightCM = cloneFloat(o.ProductHeightCM)
	out.ProductWidthCM = cloneFloat(o.ProductWidthCM)
	out.Price = cloneFloat(o.Price)
	out.FreightValue = cloneFloat(o.FreightValue)
	out.CustomerState = cloneString(o.CustomerState)
	out.SellerState = cloneString(o.SellerState)
	out.ProductCategoryName = cloneString(o.ProductCategoryName)
	if o.ReviewScore != nil {
		v := *o.ReviewScore
		out.ReviewScore = &v
	}
	return out
}

// ApplyPatch merges a JSON object onto the record field by field.
// Absent keys are untouched, null clears nullable fields and is a no-op
// for payment_type, order_status and review_comment_message.
// On error the record is left unchanged.
func ApplyPatch(o *OrderRecord, patch []byte) error {
	return applyPatch(o, patch, false)
}

// ApplyPatchStrict is ApplyPatch but rejects unknown keys.
func ApplyPatchStrict(o *OrderRecord, patch []byte) error {
	return applyPatch(o, patch, true)
}

// OrderFromPatch backfills a partial record onto NewEmptyOrder.
func OrderFromPatch(patch []byte) (OrderRecord, error) {
	o := NewEmptyOrder()
	if err := ApplyPatch(&o, patch); err != nil {
		return OrderRecord{}, err
	}
	return o, nil
}

func applyPatch(o *OrderRecord, patch []byte, strict bool) error {
	if o == nil {
		return ErrMalformedOrder
	}
	trimmed := bytes.TrimSpace(patch)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrMalformedOrder
	}
	// decode onto a copy so a type error halfway through leaves o intact
	next := o.Clone()
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&next); err != nil {
		if strict && isUnknownFieldError(err) {
			return fmt.Errorf("%w: %v", ErrUnknownOrderField, err)
		}
		return fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	*o = next
	return nil
}

func isUnknownFieldError(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "json: unknown field")
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
