package models

import "encoding/json"

// Prediction result of scoring one order
type Prediction struct {
	Prediction              int     `json:"prediction"`
	Label                   string  `json:"label"`
	ProbabilitySatisfied    float64 `json:"probability_satisfied"`
	ProbabilityNotSatisfied float64 `json:"probability_not_satisfied"`
}

// Reason one risk term that contributed to a prediction
type Reason struct {
	Factor string      `json:"factor"`
	Value  interface{} `json:"value"`
	Points int         `json:"points"`
	Impact string      `json:"impact"`
}

// Explanation prediction plus the reasons behind it
type Explanation struct {
	Prediction Prediction `json:"prediction"`
	Risk       int        `json:"risk"`
	Reasons    []Reason   `json:"reasons"`
}

// PredictionResult response of the heuristic: a single prediction for the
// {"order"} form, a list for the {"orders"} form.
type PredictionResult struct {
	Single *Prediction
	Batch  []Prediction
}

// IsBatch reports whether the result came from a batch request.
func (r PredictionResult) IsBatch() bool {
	return r.Single == nil
}

// List flattens either form into a slice.
func (r PredictionResult) List() []Prediction {
	if r.Single != nil {
		return []Prediction{*r.Single}
	}
	return r.Batch
}

// MarshalJSON emits a bare prediction or {"predictions": [...]}.
func (r PredictionResult) MarshalJSON() ([]byte, error) {
	if r.Single != nil {
		return json.Marshal(r.Single)
	}
	batch := r.Batch
	if batch == nil {
		batch = []Prediction{}
	}
	return json.Marshal(struct {
		Predictions []Prediction `json:"predictions"`
	}{Predictions: batch})
}
