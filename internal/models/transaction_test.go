package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory_KnownExpense(t *testing.T) {
	assert.Equal(t, "Food & Dining", ValidCategory("Food & Dining", TransactionExpense))
	assert.Equal(t, "Transportation", ValidCategory("Transportation", TransactionExpense))
}

func TestValidCategory_KnownIncome(t *testing.T) {
	assert.Equal(t, "Salary", ValidCategory("Salary", TransactionIncome))
	assert.Equal(t, "Freelance", ValidCategory("Freelance", TransactionIncome))
}

func TestValidCategory_UnknownFallsToDirectionDefault(t *testing.T) {
	assert.Equal(t, DefaultExpenseCategory, ValidCategory("Gadgets", TransactionExpense))
	assert.Equal(t, DefaultIncomeCategory, ValidCategory("Gadgets", TransactionIncome))
	assert.Equal(t, DefaultExpenseCategory, ValidCategory("", TransactionExpense))
}

func TestValidCategory_DefaultsNeverCross(t *testing.T) {
	// An income category offered for an expense is out of vocabulary and
	// must land on the expense default, and vice versa.
	assert.Equal(t, DefaultExpenseCategory, ValidCategory("Salary", TransactionExpense))
	assert.Equal(t, DefaultIncomeCategory, ValidCategory("Shopping", TransactionIncome))
}
