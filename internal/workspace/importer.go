package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mlops-microproject/review-workspace/internal/models"
)

var (
	// ErrInvalidJSON pasted text is not JSON
	ErrInvalidJSON = errors.New("JSON inválido. Verifica el formato.")
	// ErrUnrecognizedShape JSON is neither {order:{...}} nor {orders:[...]}
	ErrUnrecognizedShape = errors.New("No pude detectar {order:{...}} o {orders:[...]} en el JSON.")
)

type importEnvelope struct {
	Order  json.RawMessage `json:"order"`
	Orders json.RawMessage `json:"orders"`
}

// ParseImported detects the shape of an imported document and returns its
// raw records, not yet merged onto defaults. An "orders" array wins over
// "order", anything else under "orders" falls back to "order". A single order may be wrapped once more as {"order":{"order":{...}}}.
func ParseImported(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrUnrecognizedShape
	}
	var env importEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, ErrUnrecognizedShape
	}

	if items, ok := arrayItems(env.Orders); ok {
		return items, nil
	}
	// a non-array "orders" is ignored and "order" is tried instead
	if inner := models.UnwrapOrder(env.Order); inner != nil {
		return []json.RawMessage{inner}, nil
	}
	return nil, ErrUnrecognizedShape
}

// ParseImportText parses pasted text into raw records.
func ParseImportText(text string) ([]json.RawMessage, error) {
	if !json.Valid([]byte(text)) {
		return nil, ErrInvalidJSON
	}
	return ParseImported([]byte(text))
}

// ImportJSON parses pasted text and replaces the store contents with it.
// Every failure leaves the store as it was.
func (s *Store) ImportJSON(text string) error {
	records, err := ParseImportText(text)
	if err != nil {
		return err
	}
	if err := s.ReplaceAll(records); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

func arrayItems(raw json.RawMessage) ([]json.RawMessage, bool) {
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
