package constants

// Order status values accepted on the wire
const (
	OrderStatusCreated    = "created"
	OrderStatusApproved   = "approved"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCanceled   = "canceled"
	OrderStatusUnknown    = "unknown"
)

// Payment type values accepted on the wire
const (
	PaymentTypeCreditCard = "credit_card"
	PaymentTypeBoleto     = "boleto"
	PaymentTypeDebitCard  = "debit_card"
	PaymentTypePix        = "pix"
	PaymentTypeUnknown    = "unknown"
)

// Prediction labels
const (
	LabelSatisfied    = "SATISFECHO"
	LabelNotSatisfied = "NO_SATISFECHO"
)

// Reason impact levels
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Analyze job states
const (
	JobStatusPending = "pending"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// Queue and task names
const (
	QueueDefault     = "default"
	TaskAnalyzeBatch = "analyze:batch"
	ModelName        = "olist-review-heuristic"
	ModelStatus      = "heuristic"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)
