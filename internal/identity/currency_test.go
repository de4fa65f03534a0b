package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCurrency(t *testing.T) {
	assert.Equal(t, "BRL", InferCurrency("America/Sao_Paulo"))
	assert.Equal(t, "USD", InferCurrency("America/New_York"))
	assert.Equal(t, "GBP", InferCurrency("Europe/London"))
	assert.Equal(t, "JPY", InferCurrency("Asia/Tokyo"))

	// Continent fallbacks for zones without an explicit mapping.
	assert.Equal(t, "EUR", InferCurrency("Europe/Lisbon"))
	assert.Equal(t, "AUD", InferCurrency("Australia/Perth"))

	assert.Equal(t, "USD", InferCurrency("Pacific/Auckland"))
	assert.Equal(t, "USD", InferCurrency(""))
}
