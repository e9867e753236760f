// Package workspace holds the editable order list behind one analysis
// workspace: the orders, the active tab and the last predictions.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mlops-microproject/review-workspace/internal/models"
	"github.com/mlops-microproject/review-workspace/internal/scoring"
)

var (
	// ErrEmptyImport the imported list has no records
	ErrEmptyImport = errors.New("import contains no orders")
	// ErrIndexOutOfRange the selected tab does not exist
	ErrIndexOutOfRange = errors.New("order index out of range")
)

// Store is the order list of one workspace. It always holds at least one
// record. A Store is owned by a single caller and is not safe for
// concurrent use.
type Store struct {
	orders      []models.OrderRecord
	active      int
	predictions *models.PredictionResult
}

// Snapshot serializable view of a store
type Snapshot struct {
	Orders      []models.OrderRecord     `json:"orders"`
	ActiveIndex int                      `json:"active_index"`
	Editing     bool                     `json:"editing"`
	Predictions *models.PredictionResult `json:"predictions,omitempty"`
}

// New returns a store with one empty record.
func New() *Store {
	return &Store{orders: []models.OrderRecord{models.NewEmptyOrder()}}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.orders)
}

// ActiveIndex returns the index of the record being edited.
func (s *Store) ActiveIndex() int {
	return s.active
}

// Active returns a copy of the record being edited.
func (s *Store) Active() models.OrderRecord {
	return s.orders[s.active].Clone()
}

// Orders returns a copy of every record.
func (s *Store) Orders() []models.OrderRecord {
	out := make([]models.OrderRecord, len(s.orders))
	for i := range s.orders {
		out[i] = s.orders[i].Clone()
	}
	return out
}

// AddOrder appends an empty record and moves the active index forward,
// capped at the previous length.
func (s *Store) AddOrder() {
	prev := len(s.orders)
	s.orders = append(s.orders, models.NewEmptyOrder())
	s.active = minInt(s.active+1, prev)
}

// RemoveActive removes the active record. It reports false and does
// nothing when only one record is left.
func (s *Store) RemoveActive() bool {
	if len(s.orders) <= 1 {
		return false
	}
	s.orders = append(s.orders[:s.active], s.orders[s.active+1:]...)
	s.active = maxInt(0, s.active-1)
	return true
}

// Select makes record i the active one.
func (s *Store) Select(i int) error {
	if i < 0 || i >= len(s.orders) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.orders))
	}
	s.active = i
	return nil
}

// UpdateActive merges a partial JSON object into the active record.
// Unknown fields are rejected and leave the record untouched.
func (s *Store) UpdateActive(patch []byte) error {
	return models.ApplyPatchStrict(&s.orders[s.active], patch)
}

// ReplaceAll swaps the whole list for the given raw records, each merged
// onto an empty record. The active index goes back to 0 and predictions
// are cleared. Nothing changes when any record is rejected.
func (s *Store) ReplaceAll(records []json.RawMessage) error {
	if len(records) == 0 {
		return ErrEmptyImport
	}
	next := make([]models.OrderRecord, 0, len(records))
	for i, raw := range records {
		o, err := models.OrderFromPatch(raw)
		if err != nil {
			return fmt.Errorf("orders[%d]: %w", i, err)
		}
		next = append(next, o)
	}
	s.orders = next
	s.active = 0
	s.predictions = nil
	return nil
}

// BuildRequestPayload returns {"order"} for a single record, {"orders"} otherwise.
func (s *Store) BuildRequestPayload() models.AnalyzeRequest {
	if len(s.orders) == 1 {
		return models.NewSingleRequest(s.orders[0])
	}
	return models.NewBatchRequest(s.orders)
}

// PayloadJSON renders the request payload with two-space indentation.
func (s *Store) PayloadJSON() (string, error) {
	b, err := json.MarshalIndent(s.BuildRequestPayload(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Send scores the current payload and keeps the result.
func (s *Store) Send() models.PredictionResult {
	result := scoring.Predict(s.BuildRequestPayload())
	s.predictions = &result
	return result
}

// Predictions returns the last result, false while editing.
func (s *Store) Predictions() (models.PredictionResult, bool) {
	if s.predictions == nil {
		return models.PredictionResult{}, false
	}
	return *s.predictions, true
}

// Editing reports whether no predictions are shown.
func (s *Store) Editing() bool {
	return s.predictions == nil
}

// ClearPredictions returns the workspace to editing mode.
func (s *Store) ClearPredictions() {
	s.predictions = nil
}

// Reset starts a new analysis.
func (s *Store) Reset() {
	s.orders = []models.OrderRecord{models.NewEmptyOrder()}
	s.active = 0
	s.predictions = nil
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Orders:      s.Orders(),
		ActiveIndex: s.active,
		Editing:     s.predictions == nil,
	}
	if s.predictions != nil {
		p := *s.predictions
		snap.Predictions = &p
	}
	return snap
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
