package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSpan_PlainObject(t *testing.T) {
	span, ok := JSONSpan(`{"intent": "create_transaction"}`)
	require.True(t, ok)
	assert.Equal(t, `{"intent": "create_transaction"}`, span)
}

func TestJSONSpan_ObjectWrappedInProse(t *testing.T) {
	raw := "Sure! Here is the extraction:\n```json\n{\"intent\": \"get_summary\"}\n```\nLet me know if you need anything else."
	span, ok := JSONSpan(raw)
	require.True(t, ok)
	assert.Equal(t, `{"intent": "get_summary"}`, span)
}

func TestJSONSpan_ArrayBeforeObject(t *testing.T) {
	raw := `[{"amount": 10}, {"amount": 20}]`
	span, ok := JSONSpan(raw)
	require.True(t, ok)
	assert.Equal(t, raw, span)
}

func TestJSONSpan_NoJSON(t *testing.T) {
	_, ok := JSONSpan("I could not understand that message.")
	assert.False(t, ok)
}

func TestJSONSpan_UnclosedObject(t *testing.T) {
	_, ok := JSONSpan(`{"intent": "create`)
	assert.False(t, ok)
}

func TestParse_Envelope(t *testing.T) {
	raw := `{"intent": "create_transaction", "data": {"amount": 12.5, "description": "coffee", "transaction_type": "expense", "category": "Food & Dining", "confidence": 0.95}}`

	env, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "create_transaction", env.Intent)

	var data TransactionData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 12.5, data.Amount)
	assert.Equal(t, "coffee", data.Description)
	assert.Equal(t, "expense", data.TransactionType)
	assert.Equal(t, 0.95, data.Confidence)
}

func TestParse_FiltersEnvelope(t *testing.T) {
	raw := `model says: {"intent": "complete_reminders", "filters": {"start_date": "2025-10-01", "end_date": "2025-10-07"}}`

	env, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "complete_reminders", env.Intent)

	var filters FilterData
	require.NoError(t, json.Unmarshal(env.Filters, &filters))
	assert.Equal(t, "2025-10-01", filters.StartDate)
	assert.Equal(t, "2025-10-07", filters.EndDate)
}

func TestParse_MissingIntentIsErrNoJSON(t *testing.T) {
	_, err := Parse(`{"data": {"amount": 5}}`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParse_NoJSONAtAll(t *testing.T) {
	_, err := Parse("unclear")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(`{"intent": create_transaction}`)
	assert.Error(t, err)
}

func TestParseArray_Batch(t *testing.T) {
	raw := "Extracted transactions:\n[{\"amount\": 45.0, \"description\": \"Groceries\"}, {\"amount\": 12.9, \"description\": \"Taxi\"}]"

	batch, err := ParseArray(raw)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, 45.0, batch[0].Amount)
	assert.Equal(t, "Taxi", batch[1].Description)
}

func TestParseArray_SingleObjectWrapped(t *testing.T) {
	batch, err := ParseArray(`{"amount": 99.9, "description": "Rent"}`)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 99.9, batch[0].Amount)
}

func TestParseArray_NoJSON(t *testing.T) {
	_, err := ParseArray("no transactions found in this statement")
	assert.ErrorIs(t, err, ErrNoJSON)
}
