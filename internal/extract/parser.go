// Package extract turns unreliable model output into typed records. The
// upstream model is prompted for strict JSON but wraps it in prose, drops
// fields, or returns nothing usable often enough that every caller pairs
// parsing with the deterministic fallback in fallback.go.
package extract

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when the model text contains no JSON value at all
var ErrNoJSON = errors.New("no JSON object found in model response")

// Envelope is the discriminated shape both specialized agents prompt for:
// an intent plus either extracted data or date filters.
type Envelope struct {
	Intent  string          `json:"intent"`
	Data    json.RawMessage `json:"data"`
	Filters json.RawMessage `json:"filters"`
}

// TransactionData is the extraction payload for create_transaction
type TransactionData struct {
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category"`
	Merchant        string  `json:"merchant"`
	Date            string  `json:"date"`
	Confidence      float64 `json:"confidence"`
}

// ReminderData is the extraction payload for create_reminder
type ReminderData struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	DueDatetime       string `json:"due_datetime"`
	Priority          string `json:"priority"`
	ReminderType      string `json:"reminder_type"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurrencePattern string `json:"recurrence_pattern"`
}

// FilterData is the extraction payload for list/complete/summary intents
type FilterData struct {
	Priority  string `json:"priority"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// JSONSpan locates the first top-level JSON object or array in free text and
// returns it without the surrounding prose. The span runs from the first
// opening brace or bracket to the last matching closer, which tolerates
// markdown fences and explanatory text the model was told not to emit.
func JSONSpan(s string) (string, bool) {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start, closer := objStart, byte('}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, ']'
	}
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// Parse extracts and decodes the intent envelope from raw model text. A
// missing intent discriminator is treated the same as malformed JSON so that
// callers fall through to the deterministic fallback.
func Parse(raw string) (*Envelope, error) {
	span, ok := JSONSpan(raw)
	if !ok {
		return nil, ErrNoJSON
	}
	var env Envelope
	if err := json.Unmarshal([]byte(span), &env); err != nil {
		return nil, err
	}
	if env.Intent == "" {
		return nil, ErrNoJSON
	}
	return &env, nil
}

// ParseArray extracts a JSON array of transactions from raw model text, used
// by the bank-statement batch path. A single object is accepted and wrapped
// as a one-element batch.
func ParseArray(raw string) ([]TransactionData, error) {
	span, ok := JSONSpan(raw)
	if !ok {
		return nil, ErrNoJSON
	}
	var batch []TransactionData
	if err := json.Unmarshal([]byte(span), &batch); err == nil {
		return batch, nil
	}
	var single TransactionData
	if err := json.Unmarshal([]byte(span), &single); err != nil {
		return nil, err
	}
	return []TransactionData{single}, nil
}
