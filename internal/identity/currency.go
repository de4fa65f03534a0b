package identity

import "strings"

// Known zone to currency mappings, checked before the continent prefixes.
var zoneCurrencies = map[string]string{
	"America/Sao_Paulo":   "BRL",
	"America/New_York":    "USD",
	"America/Los_Angeles": "USD",
	"Europe/London":       "GBP",
	"Europe/Madrid":       "EUR",
	"Europe/Paris":        "EUR",
	"Europe/Berlin":       "EUR",
	"Asia/Tokyo":          "JPY",
	"Asia/Shanghai":       "CNY",
	"Asia/Kolkata":        "INR",
	"Australia/Sydney":    "AUD",
	"Africa/Johannesburg": "ZAR",
	"UTC":                 "USD",
}

// InferCurrency guesses a currency code from an IANA timezone, falling back
// to a coarse per-continent default and finally USD.
func InferCurrency(timezone string) string {
	if currency, ok := zoneCurrencies[timezone]; ok {
		return currency
	}
	switch {
	case strings.HasPrefix(timezone, "Europe/"):
		return "EUR"
	case strings.HasPrefix(timezone, "Australia/"):
		return "AUD"
	default:
		return "USD"
	}
}
