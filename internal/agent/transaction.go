package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/extract"
	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/metrics"
	"github.com/okanassist/okanassist-backend/internal/models"
	"github.com/okanassist/okanassist-backend/internal/repository"
	"github.com/okanassist/okanassist-backend/internal/session"
)

// TransactionAgent extracts and executes financial intents: logging a
// transaction, summarizing a period, or building a report.
type TransactionAgent struct {
	llm          llm.Client
	transactions repository.TransactionRepository
	log          *logrus.Logger

	textInstructions      string
	receiptInstructions   string
	statementInstructions string
}

// NewTransactionAgent builds the agent with its extraction prompts. The
// category vocabularies are baked into the instructions so the model picks
// from the closed lists instead of inventing labels.
func NewTransactionAgent(client llm.Client, transactions repository.TransactionRepository, log *logrus.Logger) *TransactionAgent {
	expenseCats := strings.Join(models.ExpenseCategories, ", ")
	incomeCats := strings.Join(models.IncomeCategories, ", ")

	return &TransactionAgent{
		llm:          client,
		transactions: transactions,
		log:          log,
		textInstructions: fmt.Sprintf(`You are a multilingual financial AI assistant. Your first task is to determine the user's intent from their message.

**Step 1: Intent Detection**
Determine the user's intent. Possible intents are:
- create_transaction: The user wants to log a new expense or income. (e.g., "paid $50 for dinner", "got my $2000 salary")
- get_summary: The user wants a text summary of their finances. (e.g., "show my spending last week", "summary for this month")
- generate_report: The user wants a detailed report. (e.g., "I need a report for the last 30 days", "report for january")

**Step 2: Parameter Extraction**
- If intent is create_transaction, extract: amount, description, transaction_type, category, merchant.
  - The category MUST be one of the following.
  - Expense Categories: %s
  - Income Categories: %s
  - If the category is unclear, default to "Shopping" for expenses and "Other Income" for income.
- If intent is get_summary or generate_report, extract date filters: start_date and end_date in 'YYYY-MM-DD' format.

**Step 3: JSON Output**
You MUST return ONLY a valid JSON object.

**JSON Output Examples:**

Create Transaction:
{"intent": "create_transaction", "data": {"amount": 50.00, "description": "Dinner", "transaction_type": "expense", "category": "Food & Dining"}}

Get Summary:
{"intent": "get_summary", "filters": {"start_date": "2025-09-01", "end_date": "2025-09-30"}}

Generate Report:
{"intent": "generate_report", "filters": {"start_date": "2025-01-01", "end_date": "2025-01-31"}}`, expenseCats, incomeCats),
		receiptInstructions: `You are a financial receipt processor.

Analyze the attached receipt image and extract the transaction details:
- Total amount paid (final amount)
- Merchant or store name
- Date of transaction (YYYY-MM-DD format if possible)
- Category (choose exactly one from the defined categories)

Rules:
- The category must be exactly one from: ` + expenseCats + `
- If you are unsure of the category, use "Shopping" as the default.
- Only include information that is clearly present on the receipt.

Output:
Return ONLY a valid JSON object with the extracted data. Do not include any explanation or extra text.

Example:
{"amount": 23.45, "description": "Purchase at Starbucks: Latte, Croissant", "merchant": "Starbucks", "date": "2025-09-20", "category": "Food & Dining", "transaction_type": "expense", "confidence": 0.9}`,
		statementInstructions: fmt.Sprintf(`You are a financial document processor.

Analyze the attached bank statement and extract every transaction.

Expense Categories (choose one for each expense): %s
Income Categories (choose one for each income): %s

For each transaction, extract:
- Amount (always report the absolute value, mark transaction type clearly)
- Description (what the transaction is for)
- Date (YYYY-MM-DD format)
- Transaction type ("income" or "expense")
- Category (must be from the lists above)

Rules:
- The category must be exactly one from the appropriate list.
- If the category is unclear for an expense, use "Shopping".
- If the category is unclear for an income, use "Other Income".
- Only include transactions that are clearly present in the document.

Output:
Return ONLY a valid JSON array of transactions. Do not include any explanation or extra text.

Example:
[{"amount": 100.00, "description": "Salary payment", "date": "2025-09-01", "transaction_type": "income", "category": "Salary", "confidence": 0.85}]`, expenseCats, incomeCats),
	}
}

// ProcessMessage runs the extraction pass over a text message and executes
// the detected intent. Model failure or unusable JSON drops to the keyword
// fallback; only infrastructure errors surface to the caller.
func (a *TransactionAgent) ProcessMessage(ctx context.Context, sess *session.Session, message string) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\nThe user's current date is %s.\nAnalyze the following user message and return the JSON output based on your instructions.\n\n**User Message:** %q",
		a.textInstructions, time.Now().In(sessionLocation(sess)).Format("2006-01-02"), message)

	raw, err := a.llm.Extract(ctx, prompt)
	if err != nil {
		a.log.WithError(err).Warn("transaction extraction call failed, using fallback")
		return a.fallback(ctx, sess, userID, message)
	}

	env, err := extract.Parse(raw)
	if err != nil {
		a.log.WithError(err).Warn("transaction extraction unparseable, using fallback")
		return a.fallback(ctx, sess, userID, message)
	}

	switch env.Intent {
	case "create_transaction":
		var data extract.TransactionData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return a.fallback(ctx, sess, userID, message)
		}
		return a.createTransaction(ctx, sess, userID, &data, models.SourceText, message)
	case "get_summary", "generate_report":
		var filters extract.FilterData
		if len(env.Filters) > 0 {
			if err := json.Unmarshal(env.Filters, &filters); err != nil {
				return i18n.Message("unclear_transaction_intent", sess.Language, nil), nil
			}
		}
		return a.summaryForRange(ctx, sess, userID, filters, env.Intent == "generate_report")
	default:
		return i18n.Message("unclear_transaction_intent", sess.Language, nil), nil
	}
}

func (a *TransactionAgent) fallback(ctx context.Context, sess *session.Session, userID uuid.UUID, message string) (string, error) {
	result := extract.Fallback(message, sess.Language)
	if result.Kind != extract.FallbackTransaction {
		metrics.ExtractionFallbacks.WithLabelValues("not_found").Inc()
		return i18n.Message("unclear_transaction_intent", sess.Language, nil), nil
	}
	metrics.ExtractionFallbacks.WithLabelValues("transaction").Inc()
	return a.createTransaction(ctx, sess, userID, result.Transaction, models.SourceText, message)
}

func (a *TransactionAgent) createTransaction(ctx context.Context, sess *session.Session, userID uuid.UUID, data *extract.TransactionData, source, originalMessage string) (string, error) {
	if data.Amount <= 0 || data.Description == "" {
		return i18n.Message("unclear_transaction_intent", sess.Language, nil), nil
	}

	txType := models.TransactionType(data.TransactionType)
	if txType != models.TransactionIncome {
		txType = models.TransactionExpense
	}
	category := models.ValidCategory(data.Category, txType)

	confidence := data.Confidence
	if confidence == 0 {
		confidence = 0.9
	}

	tx := &models.Transaction{
		UserID:          userID,
		Amount:          abs(data.Amount),
		Description:     data.Description,
		Category:        category,
		Type:            txType,
		Confidence:      confidence,
		Source:          source,
		OriginalMessage: originalMessage,
	}
	if data.Merchant != "" {
		tx.Merchant = &data.Merchant
	}

	if err := a.transactions.Save(ctx, tx); err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	emoji := "💸"
	if txType == models.TransactionIncome {
		emoji = "💰"
	}
	return i18n.Message("transaction_created", sess.Language, i18n.Args{
		"emoji":            emoji,
		"description":      tx.Description,
		"amount":           fmt.Sprintf("%.2f", tx.Amount),
		"category":         category,
		"transaction_type": titleCase(string(txType)),
	}), nil
}

func (a *TransactionAgent) summaryForRange(ctx context.Context, sess *session.Session, userID uuid.UUID, filters extract.FilterData, isReport bool) (string, error) {
	start, end, err := rangeOrNil(filters, sess.Timezone)
	if err != nil {
		return i18n.Message("unclear_transaction_intent", sess.Language, nil), nil
	}

	summary, err := a.transactions.Summary(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("transaction summary: %w", err)
	}
	if isReport && summary.IncomeCount == 0 && summary.ExpenseCount == 0 {
		return i18n.Message("no_transactions_for_report", sess.Language, nil), nil
	}
	return formatSummary(summary), nil
}

// Summary builds the fixed "last N days" summary used by the dedicated
// endpoint.
func (a *TransactionAgent) Summary(ctx context.Context, sess *session.Session, days int) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}
	if days <= 0 {
		days = 30
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	summary, err := a.transactions.Summary(ctx, userID, &start, &end)
	if err != nil {
		return "", fmt.Errorf("transaction summary: %w", err)
	}
	summary.PeriodDays = days
	return formatSummary(summary), nil
}

// ProcessReceipt extracts a single expense from a receipt image and saves it
func (a *TransactionAgent) ProcessReceipt(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}

	raw, err := a.llm.Extract(ctx, a.receiptInstructions, attachment)
	if err != nil {
		return "", fmt.Errorf("receipt extraction: %w", err)
	}

	span, ok := extract.JSONSpan(raw)
	if !ok {
		return "", extract.ErrNoJSON
	}
	var data extract.TransactionData
	if err := json.Unmarshal([]byte(span), &data); err != nil {
		return "", fmt.Errorf("receipt extraction: %w", err)
	}
	if data.Amount <= 0 {
		return "", extract.ErrNoJSON
	}

	merchant := data.Merchant
	if merchant == "" {
		merchant = "Store"
	}
	category := models.ValidCategory(data.Category, models.TransactionExpense)
	confidence := data.Confidence
	if confidence == 0 {
		confidence = 0.85
	}

	tx := &models.Transaction{
		UserID:          userID,
		Amount:          abs(data.Amount),
		Description:     "Purchase at " + merchant,
		Category:        category,
		Type:            models.TransactionExpense,
		Merchant:        &merchant,
		Confidence:      confidence,
		Source:          models.SourceReceipt,
		OriginalMessage: "Receipt upload",
	}
	if err := a.transactions.Save(ctx, tx); err != nil {
		return "", fmt.Errorf("save receipt transaction: %w", err)
	}

	date := data.Date
	if date == "" {
		date = time.Now().In(sessionLocation(sess)).Format("2006-01-02")
	}
	return i18n.Message("success_process_receipt", sess.Language, i18n.Args{
		"merchant": merchant,
		"amount":   fmt.Sprintf("%.2f", tx.Amount),
		"category": category,
		"date":     date,
	}), nil
}

// ProcessBankStatement extracts a batch of transactions from a statement
// document and saves each usable row. A row that fails to save is skipped;
// the count in the reply reflects what actually landed.
func (a *TransactionAgent) ProcessBankStatement(ctx context.Context, sess *session.Session, attachment llm.Attachment) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}

	prompt := a.statementInstructions + "\n\nThe currency for all transactions is: " + sess.Currency + "."
	raw, err := a.llm.Extract(ctx, prompt, attachment)
	if err != nil {
		return "", fmt.Errorf("statement extraction: %w", err)
	}

	batch, err := extract.ParseArray(raw)
	if err != nil {
		return "", fmt.Errorf("statement extraction: %w", err)
	}

	saved := 0
	for _, data := range batch {
		if data.Amount <= 0 {
			continue
		}
		txType := models.TransactionType(data.TransactionType)
		if txType != models.TransactionIncome {
			txType = models.TransactionExpense
		}
		description := data.Description
		if description == "" {
			description = "Bank transaction"
		}

		tx := &models.Transaction{
			UserID:          userID,
			Amount:          abs(data.Amount),
			Description:     description,
			Category:        models.ValidCategory(data.Category, txType),
			Type:            txType,
			Confidence:      0.85,
			Source:          models.SourceBankStatement,
			OriginalMessage: "Bank statement import",
		}
		if err := a.transactions.Save(ctx, tx); err != nil {
			a.log.WithError(err).Warn("skipping statement row that failed to save")
			continue
		}
		saved++
	}

	return i18n.Message("success_process_pdf", sess.Language, i18n.Args{
		"saved_count": fmt.Sprintf("%d", saved),
	}), nil
}

func formatSummary(s *models.TransactionSummary) string {
	netFlow := s.TotalIncome - s.TotalExpenses
	flowEmoji := "📈"
	if netFlow < 0 {
		flowEmoji = "📉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *Financial Summary (%d days)*\n\n", flowEmoji, s.PeriodDays)
	fmt.Fprintf(&b, "💰 *Income:* $%.2f (%d transactions)\n", s.TotalIncome, s.IncomeCount)
	fmt.Fprintf(&b, "💸 *Expenses:* $%.2f (%d transactions)\n", s.TotalExpenses, s.ExpenseCount)
	fmt.Fprintf(&b, "📊 *Net Flow:* $%.2f\n", netFlow)

	if len(s.TopCategories) > 0 {
		b.WriteString("\n*Top Expense Categories:*\n")
		for _, cat := range s.TopCategories {
			fmt.Fprintf(&b, "• %s: $%.2f\n", cat.Category, cat.Total)
		}
	}
	return b.String()
}

func rangeOrNil(filters extract.FilterData, tz string) (*time.Time, *time.Time, error) {
	if filters.StartDate == "" && filters.EndDate == "" {
		return nil, nil, nil
	}
	return temporalRange(filters.StartDate, filters.EndDate, tz)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
