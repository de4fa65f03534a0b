package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the direction of a transaction
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Transaction sources
const (
	SourceText          = "text"
	SourceReceipt       = "receipt"
	SourceBankStatement = "bank_statement"
)

// Transaction represents a single expense or income record
type Transaction struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	Amount          float64         `json:"amount" db:"amount"`
	Description     string          `json:"description" db:"description"`
	Category        string          `json:"category" db:"category"`
	Type            TransactionType `json:"transaction_type" db:"transaction_type"`
	Merchant        *string         `json:"merchant,omitempty" db:"merchant"`
	Confidence      float64         `json:"confidence_score" db:"confidence_score"`
	Source          string          `json:"source" db:"source"`
	OriginalMessage string          `json:"original_message" db:"original_message"`
	OccurredOn      *time.Time      `json:"occurred_on,omitempty" db:"occurred_on"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Closed category vocabularies. Extracted categories outside these lists are
// coerced to the per-direction default.
var (
	ExpenseCategories = []string{
		"Essentials", "Food & Dining", "Transportation", "Shopping",
		"Entertainment", "Utilities", "Healthcare", "Travel", "Education", "Home",
	}
	IncomeCategories = []string{
		"Salary", "Freelance", "Business", "Investment", "Gift", "Refund",
		"Rental", "Other Income",
	}
)

const (
	DefaultExpenseCategory = "Shopping"
	DefaultIncomeCategory  = "Other Income"
)

// ValidCategory returns the category unchanged when it belongs to the
// vocabulary for the given direction, and the direction's default otherwise.
// The two defaults are never interchanged.
func ValidCategory(category string, t TransactionType) string {
	if t == TransactionIncome {
		for _, c := range IncomeCategories {
			if c == category {
				return category
			}
		}
		return DefaultIncomeCategory
	}
	for _, c := range ExpenseCategories {
		if c == category {
			return category
		}
	}
	return DefaultExpenseCategory
}

// TransactionSummary aggregates a user's transactions over a period
type TransactionSummary struct {
	TotalIncome   float64         `json:"total_income" db:"total_income"`
	TotalExpenses float64         `json:"total_expenses" db:"total_expenses"`
	IncomeCount   int             `json:"income_count" db:"income_count"`
	ExpenseCount  int             `json:"expense_count" db:"expense_count"`
	PeriodDays    int             `json:"period_days"`
	TopCategories []CategoryTotal `json:"top_categories"`
}

// CategoryTotal is a per-category expense aggregate
type CategoryTotal struct {
	Category string  `json:"category" db:"category"`
	Total    float64 `json:"total" db:"total"`
}
