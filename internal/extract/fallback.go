package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okanassist/okanassist-backend/internal/models"
)

// Kind tags how a fallback result was produced
type Kind int

const (
	// NotFound means neither a transaction nor a reminder could be read
	// from the message; the caller turns this into a "please rephrase".
	NotFound Kind = iota
	// FallbackTransaction carries a rule-extracted transaction guess
	FallbackTransaction
	// FallbackReminder carries a rule-extracted reminder guess
	FallbackReminder
)

// Result is the deterministic extractor's output. It never reports an error;
// the worst case is the NotFound sentinel.
type Result struct {
	Kind        Kind
	Transaction *TransactionData
	Reminder    *ReminderData
}

var amountPattern = regexp.MustCompile(`[$€£R]?\$?\s?(\d+(?:[.,]\d{3})*(?:[.,]\d{1,2})?)`)

var expenseWords = map[string][]string{
	"en": {"spent", "paid", "bought", "purchase", "cost", "expense"},
	"es": {"gasté", "pagué", "compré", "gasto", "costó"},
	"pt": {"gastei", "paguei", "comprei", "gasto", "custou"},
}

var incomeWords = map[string][]string{
	"en": {"earned", "received", "income", "salary", "bonus"},
	"es": {"gané", "recibí", "ingreso", "salario", "sueldo"},
	"pt": {"ganhei", "recebi", "receita", "salário", "renda"},
}

var reminderWords = map[string][]string{
	"en": {"remind", "remember", "don't forget", "schedule", "appointment", "meeting", "task"},
	"es": {"recuérdame", "recuerda", "no olvides", "agenda", "cita", "tarea"},
	"pt": {"lembre-me", "lembre", "não se esqueça", "agende", "compromisso", "evento", "tarefa"},
}

// Fallback scans the lowercased message with language-tagged keyword lists
// and a currency/amount pattern. It is the second tier behind the model
// extraction and must degrade gracefully rather than fail the request.
func Fallback(message, language string) Result {
	lower := strings.ToLower(message)
	lang := shortLang(language)

	if containsAny(lower, wordsFor(reminderWords, lang)) {
		return Result{Kind: FallbackReminder, Reminder: fallbackReminder(message, lower)}
	}

	isExpense := containsAny(lower, wordsFor(expenseWords, lang))
	isIncome := containsAny(lower, wordsFor(incomeWords, lang))
	if tx := fallbackTransaction(message, isExpense, isIncome); tx != nil {
		return Result{Kind: FallbackTransaction, Transaction: tx}
	}
	return Result{Kind: NotFound}
}

func fallbackTransaction(message string, isExpense, isIncome bool) *TransactionData {
	m := amountPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.ReplaceAll(m[1], ",", ""), " ", ""), 64)
	if err != nil || amount <= 0 {
		return nil
	}
	if !isExpense && !isIncome {
		return nil
	}

	txType := string(models.TransactionExpense)
	category := models.DefaultExpenseCategory
	if isIncome && !isExpense {
		txType = string(models.TransactionIncome)
		category = models.DefaultIncomeCategory
	}

	description := strings.TrimSpace(amountPattern.ReplaceAllString(message, ""))
	if description == "" {
		description = "Transaction for " + m[1]
	}

	return &TransactionData{
		Amount:          amount,
		Description:     description,
		TransactionType: txType,
		Category:        category,
		Confidence:      0.7,
	}
}

func fallbackReminder(message, lower string) *ReminderData {
	priority := string(models.PriorityMedium)
	if strings.Contains(lower, "urgent") || strings.Contains(lower, "urgente") {
		priority = string(models.PriorityUrgent)
	}
	return &ReminderData{
		Title:        strings.TrimSpace(message),
		Description:  strings.TrimSpace(message),
		Priority:     priority,
		ReminderType: string(models.ReminderGeneral),
	}
}

func wordsFor(table map[string][]string, lang string) []string {
	if words, ok := table[lang]; ok {
		return words
	}
	return table["en"]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func shortLang(language string) string {
	if i := strings.IndexByte(language, '-'); i > 0 {
		return language[:i]
	}
	if language == "" {
		return "en"
	}
	return language
}
