package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/models"
)

// fakeTxRepo records saves and serves a canned summary
type fakeTxRepo struct {
	saved        []*models.Transaction
	saveErr      error
	summary      *models.TransactionSummary
	summaryErr   error
	summaryCalls int
	lastStart    *time.Time
	lastEnd      *time.Time
}

func (f *fakeTxRepo) Save(ctx context.Context, tx *models.Transaction) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, tx)
	return nil
}

func (f *fakeTxRepo) ListByUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeTxRepo) Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*models.TransactionSummary, error) {
	f.summaryCalls++
	f.lastStart, f.lastEnd = start, end
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &models.TransactionSummary{}, nil
}

func TestProcessMessage_CreateTransaction(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 50.0, "description": "Dinner", "transaction_type": "expense", "category": "Food & Dining", "merchant": "Bistro", "confidence": 0.95}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	sess := testSession()
	reply, err := a.ProcessMessage(context.Background(), sess, "paid $50 for dinner at Bistro")
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	tx := repo.saved[0]
	assert.Equal(t, 50.0, tx.Amount)
	assert.Equal(t, models.TransactionExpense, tx.Type)
	assert.Equal(t, "Food & Dining", tx.Category)
	assert.Equal(t, models.SourceText, tx.Source)
	assert.Equal(t, "paid $50 for dinner at Bistro", tx.OriginalMessage)
	require.NotNil(t, tx.Merchant)
	assert.Equal(t, "Bistro", *tx.Merchant)
	assert.Equal(t, 0.95, tx.Confidence)

	assert.Contains(t, reply, "Dinner")
	assert.Contains(t, reply, "50.00")
	assert.Contains(t, reply, "💸")
}

func TestProcessMessage_IncomeUsesIncomeEmoji(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 2000, "description": "Salary", "transaction_type": "income", "category": "Salary"}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "got my salary")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, models.TransactionIncome, repo.saved[0].Type)
	assert.Contains(t, reply, "💰")
}

func TestProcessMessage_OutOfVocabularyCategoryCoerced(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 30, "description": "Stuff", "transaction_type": "expense", "category": "Miscellaneous"}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	_, err := a.ProcessMessage(context.Background(), testSession(), "bought stuff for 30")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, models.DefaultExpenseCategory, repo.saved[0].Category)
}

func TestProcessMessage_ConfidenceDefaults(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 25, "description": "Refund reversal", "transaction_type": "expense", "category": "Shopping"}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	_, err := a.ProcessMessage(context.Background(), testSession(), "charge of 25")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 25.0, repo.saved[0].Amount)
	assert.Equal(t, 0.9, repo.saved[0].Confidence, "missing confidence defaults")
}

func TestProcessMessage_ZeroAmountIsUnclear(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 0, "description": "Dinner"}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "dinner")
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
	assert.Equal(t, i18n.Message("unclear_transaction_intent", "en", nil), reply)
}

func TestProcessMessage_SummaryIntent(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "get_summary", "filters": {"start_date": "2025-09-01", "end_date": "2025-09-30"}}`}
	repo := &fakeTxRepo{summary: &models.TransactionSummary{
		TotalIncome:   2000,
		TotalExpenses: 850.5,
		IncomeCount:   2,
		ExpenseCount:  14,
		PeriodDays:    30,
		TopCategories: []models.CategoryTotal{{Category: "Food & Dining", Total: 320}},
	}}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "summary for september")
	require.NoError(t, err)
	require.NotNil(t, repo.lastStart)
	require.NotNil(t, repo.lastEnd)
	assert.Contains(t, reply, "📈")
	assert.Contains(t, reply, "$2000.00")
	assert.Contains(t, reply, "$850.50")
	assert.Contains(t, reply, "Food & Dining: $320.00")
}

func TestProcessMessage_SummaryWithoutFiltersIsUnbounded(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "get_summary"}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	_, err := a.ProcessMessage(context.Background(), testSession(), "show all my spending")
	require.NoError(t, err)
	assert.Nil(t, repo.lastStart)
	assert.Nil(t, repo.lastEnd)
}

func TestProcessMessage_EmptyReportSaysSo(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "generate_report", "filters": {"start_date": "2025-01-01", "end_date": "2025-01-31"}}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "report for january")
	require.NoError(t, err)
	assert.Equal(t, i18n.Message("no_transactions_for_report", "en", nil), reply)
}

func TestProcessMessage_ModelDownFallsBackToKeywords(t *testing.T) {
	client := &llm.Stub{ExtractErr: llm.ErrUnavailable}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "spent 25.50 on lunch")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 25.50, repo.saved[0].Amount)
	assert.Equal(t, 0.7, repo.saved[0].Confidence)
	assert.Contains(t, reply, "25.50")
}

func TestProcessMessage_GarbageResponseFallsBack(t *testing.T) {
	client := &llm.Stub{ExtractResponse: "I'm sorry, I can't help with that."}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessMessage(context.Background(), testSession(), "just rambling")
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
	assert.Equal(t, i18n.Message("unclear_transaction_intent", "en", nil), reply)
}

func TestProcessMessage_SaveFailureSurfaces(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"intent": "create_transaction", "data": {"amount": 10, "description": "Snack"}}`}
	repo := &fakeTxRepo{saveErr: errors.New("db down")}
	a := NewTransactionAgent(client, repo, testLogger())

	_, err := a.ProcessMessage(context.Background(), testSession(), "snack for 10")
	assert.Error(t, err)
}

func TestSummary_DefaultsToThirtyDays(t *testing.T) {
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(&llm.Stub{}, repo, testLogger())

	_, err := a.Summary(context.Background(), testSession(), 0)
	require.NoError(t, err)
	require.NotNil(t, repo.lastStart)
	require.NotNil(t, repo.lastEnd)
	days := repo.lastEnd.Sub(*repo.lastStart).Hours() / 24
	assert.InDelta(t, 30, days, 0.01)
}

func TestProcessReceipt(t *testing.T) {
	client := &llm.Stub{ExtractResponse: "Here you go: {\"amount\": 23.45, \"merchant\": \"Starbucks\", \"date\": \"2025-09-20\", \"category\": \"Food & Dining\", \"confidence\": 0.9}"}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessReceipt(context.Background(), testSession(), llm.Attachment{MIME: "image/jpeg", Data: []byte{0xff, 0xd8}})
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	tx := repo.saved[0]
	assert.Equal(t, "Purchase at Starbucks", tx.Description)
	assert.Equal(t, models.SourceReceipt, tx.Source)
	assert.Equal(t, models.TransactionExpense, tx.Type)

	assert.Contains(t, reply, "Starbucks")
	assert.Contains(t, reply, "23.45")
	assert.Contains(t, reply, "2025-09-20")
}

func TestProcessReceipt_MissingMerchantDefaults(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"amount": 9.99}`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessReceipt(context.Background(), testSession(), llm.Attachment{MIME: "image/png"})
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Purchase at Store", repo.saved[0].Description)
	assert.Equal(t, models.DefaultExpenseCategory, repo.saved[0].Category)
	assert.Equal(t, 0.85, repo.saved[0].Confidence)
	assert.Contains(t, reply, "Store")
}

func TestProcessReceipt_NoUsableAmount(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `{"merchant": "Blurry"}`}
	a := NewTransactionAgent(client, &fakeTxRepo{}, testLogger())

	_, err := a.ProcessReceipt(context.Background(), testSession(), llm.Attachment{MIME: "image/jpeg"})
	assert.Error(t, err)
}

func TestProcessBankStatement(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `[
		{"amount": 100.0, "description": "Salary payment", "transaction_type": "income", "category": "Salary"},
		{"amount": 42.0, "description": "Groceries", "transaction_type": "expense", "category": "Essentials"},
		{"amount": 0, "description": "Zero row"}
	]`}
	repo := &fakeTxRepo{}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessBankStatement(context.Background(), testSession(), llm.Attachment{MIME: "application/pdf"})
	require.NoError(t, err)

	require.Len(t, repo.saved, 2, "zero-amount rows are skipped")
	assert.Equal(t, models.TransactionIncome, repo.saved[0].Type)
	assert.Equal(t, models.SourceBankStatement, repo.saved[0].Source)
	assert.Contains(t, reply, "2")
	assert.Contains(t, client.LastPrompt, "USD", "statement prompt carries the user currency")
}

func TestProcessBankStatement_AllRowsFailStillReplies(t *testing.T) {
	client := &llm.Stub{ExtractResponse: `[{"amount": 10, "description": "Row"}]`}
	repo := &fakeTxRepo{saveErr: errors.New("db down")}
	a := NewTransactionAgent(client, repo, testLogger())

	reply, err := a.ProcessBankStatement(context.Background(), testSession(), llm.Attachment{MIME: "application/pdf"})
	require.NoError(t, err, "failed rows are skipped, not fatal")
	assert.Contains(t, reply, "0")
}
