package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
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
	"github.com/okanassist/okanassist-backend/internal/temporal"
)

const reminderInstructions = `You are a multilingual AI assistant specializing in task and reminder management. Your primary goal is to understand a user's intent from their message and respond accordingly. You will be given the user's current date and time to accurately interpret their requests.

**Step 1: Intent Detection**
First, determine the user's intent. The possible intents are:
- create_reminder: The user wants to create a new reminder. (e.g., "remind me to call mom tomorrow", "meeting in 30 mins", "pay bills next week")
- get_reminders: The user wants to see a list of their existing reminders. (e.g., "show my tasks for this week", "what are my urgent tasks tomorrow?")
- complete_reminders: The user wants to mark reminders as done. (e.g., "complete today's tasks", "clear yesterday's reminders", "clear all reminders")

**Step 2: Parameter Extraction**
- If the intent is create_reminder, extract: title, description, due_datetime (in UTC ISO 8601 format), priority, reminder_type, is_recurring, and recurrence_pattern.
- If the intent is get_reminders or complete_reminders, infer date filters from the user's message. Extract: priority ("urgent", "high", "medium", "low"), start_date (in 'YYYY-MM-DD' format), and end_date (in 'YYYY-MM-DD' format).
- If the user says "clear all reminders", the intent is complete_reminders but start_date and end_date should be null.

**Step 3: JSON Output**
You MUST return ONLY a valid JSON object based on the detected intent.

**JSON Output Examples (Current Date: 2025-10-07):**

For create_reminder:
{"intent": "create_reminder", "data": {"title": "Call Mom", "description": "Remember to call Mom to check in tomorrow.", "due_datetime": "2025-10-08T15:00:00Z", "priority": "high", "reminder_type": "habit", "is_recurring": false, "recurrence_pattern": null}}

For create_reminder (e.g., "daily workout at 6pm"):
{"intent": "create_reminder", "data": {"title": "Daily Workout", "description": "Your daily workout session.", "due_datetime": "2025-10-07T18:00:00Z", "priority": "medium", "reminder_type": "habit", "is_recurring": true, "recurrence_pattern": "daily"}}

For get_reminders (e.g., "show me this week's tasks"):
{"intent": "get_reminders", "filters": {"priority": null, "start_date": "2025-10-06", "end_date": "2025-10-12"}}

For complete_reminders (e.g., "complete yesterday's tasks"):
{"intent": "complete_reminders", "filters": {"start_date": "2025-10-06", "end_date": "2025-10-06"}}

For complete_reminders (e.g., "clear all reminders"):
{"intent": "complete_reminders", "filters": {"start_date": null, "end_date": null}}

If no clear intent is found:
{"intent": "unclear"}`

// Notifier delivers a reminder notification to an external chat surface
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

// NotifyItem is one entry of a batch-notification request: a due reminder
// joined with the handle it should be delivered to.
type NotifyItem struct {
	ReminderID        uuid.UUID `json:"reminder_id" validate:"required"`
	ChatID            string    `json:"telegram_id" validate:"required"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	DueDatetime       string    `json:"due_datetime"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern string    `json:"recurrence_pattern"`
}

// ReminderAgent extracts and executes reminder intents
type ReminderAgent struct {
	llm       llm.Client
	reminders repository.ReminderRepository
	notifier  Notifier
	log       *logrus.Logger
}

// NewReminderAgent builds the reminder intent handler
func NewReminderAgent(client llm.Client, reminders repository.ReminderRepository, notifier Notifier, log *logrus.Logger) *ReminderAgent {
	return &ReminderAgent{
		llm:       client,
		reminders: reminders,
		notifier:  notifier,
		log:       log,
	}
}

// ProcessMessage runs the extraction pass over a text message and executes
// the detected reminder intent.
func (a *ReminderAgent) ProcessMessage(ctx context.Context, sess *session.Session, message string) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}

	now := time.Now().In(sessionLocation(sess))
	prompt := fmt.Sprintf("%s\n\nThe user's current date and time is %s.\nAnalyze the following user message and return the JSON output based on your instructions.\n\n**User Message:** %q",
		reminderInstructions, now.Format(time.RFC3339), message)

	raw, err := a.llm.Extract(ctx, prompt)
	if err != nil {
		a.log.WithError(err).Warn("reminder extraction call failed, using fallback")
		return a.fallback(ctx, sess, userID, message)
	}

	env, err := extract.Parse(raw)
	if err != nil {
		a.log.WithError(err).Warn("reminder extraction unparseable, using fallback")
		return a.fallback(ctx, sess, userID, message)
	}

	switch env.Intent {
	case "create_reminder":
		var data extract.ReminderData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return a.fallback(ctx, sess, userID, message)
		}
		return a.createReminder(ctx, sess, userID, &data)
	case "get_reminders":
		var filters extract.FilterData
		if len(env.Filters) > 0 {
			if err := json.Unmarshal(env.Filters, &filters); err != nil {
				return i18n.Message("reminder_fetch_failed", sess.Language, nil), nil
			}
		}
		return a.listReminders(ctx, sess, userID, filters)
	case "complete_reminders":
		var filters extract.FilterData
		if len(env.Filters) > 0 {
			if err := json.Unmarshal(env.Filters, &filters); err != nil {
				return i18n.Message("reminder_fetch_failed", sess.Language, nil), nil
			}
		}
		return a.completeReminders(ctx, sess, userID, filters)
	default:
		return i18n.Message("reminder_not_found", sess.Language, nil), nil
	}
}

func (a *ReminderAgent) fallback(ctx context.Context, sess *session.Session, userID uuid.UUID, message string) (string, error) {
	result := extract.Fallback(message, sess.Language)
	if result.Kind != extract.FallbackReminder {
		metrics.ExtractionFallbacks.WithLabelValues("not_found").Inc()
		return i18n.Message("reminder_not_found", sess.Language, nil), nil
	}
	metrics.ExtractionFallbacks.WithLabelValues("reminder").Inc()
	return a.createReminder(ctx, sess, userID, result.Reminder)
}

func (a *ReminderAgent) createReminder(ctx context.Context, sess *session.Session, userID uuid.UUID, data *extract.ReminderData) (string, error) {
	if data.Title == "" {
		return i18n.Message("reminder_creation_failed", sess.Language, nil), nil
	}

	description := data.Description
	if description == "" {
		description = data.Title
	}

	due := temporal.ParseDueDate(data.DueDatetime)
	recurrence := models.ParseRecurrence(data.RecurrencePattern)
	isRecurring := data.IsRecurring && recurrence != nil

	r := &models.Reminder{
		UserID:            userID,
		Title:             data.Title,
		Description:       description,
		DueAt:             due,
		Priority:          models.ValidPriority(data.Priority),
		Type:              models.ValidReminderType(data.ReminderType),
		IsRecurring:       isRecurring,
		RecurrencePattern: recurrence,
	}
	if err := a.reminders.Save(ctx, r); err != nil {
		return "", fmt.Errorf("save reminder: %w", err)
	}

	displayDue := "N/A"
	if due != nil {
		displayDue = temporal.InUserZone(*due, sess.Timezone).Format("2006-01-02 15:04")
	}
	return i18n.Message("reminder_created", sess.Language, i18n.Args{
		"title":    r.Title,
		"due_date": displayDue,
		"priority": titleCase(string(r.Priority)),
		"type":     titleCase(string(r.Type)),
	}), nil
}

func (a *ReminderAgent) listReminders(ctx context.Context, sess *session.Session, userID uuid.UUID, filters extract.FilterData) (string, error) {
	start, end, err := rangeOrNil(filters, sess.Timezone)
	if err != nil {
		return i18n.Message("reminder_fetch_failed", sess.Language, nil), nil
	}

	f := models.ReminderFilter{Start: start, End: end}
	if filters.Priority != "" {
		p := models.ValidPriority(filters.Priority)
		f.Priority = &p
	}

	reminders, err := a.reminders.ListByUser(ctx, userID, f)
	if err != nil {
		return "", fmt.Errorf("list reminders: %w", err)
	}
	if len(reminders) == 0 {
		return i18n.Message("no_pending_reminders", sess.Language, nil), nil
	}
	return a.formatReminders(sess, reminders), nil
}

func (a *ReminderAgent) completeReminders(ctx context.Context, sess *session.Session, userID uuid.UUID, filters extract.FilterData) (string, error) {
	var (
		count  int64
		period string
		err    error
	)
	if filters.StartDate == "" && filters.EndDate == "" {
		count, err = a.reminders.MarkAllComplete(ctx, userID)
		period = i18n.Message("period_all", sess.Language, nil)
	} else {
		start, end, rerr := temporalRange(filters.StartDate, filters.EndDate, sess.Timezone)
		if rerr != nil {
			return i18n.Message("reminder_fetch_failed", sess.Language, nil), nil
		}
		count, err = a.reminders.MarkCompleteRange(ctx, userID, start, end)
		period = filters.StartDate + " - " + filters.EndDate
	}
	if err != nil {
		return "", fmt.Errorf("complete reminders: %w", err)
	}

	key := "reminders_completed"
	if count == 0 {
		key = "no_reminders_to_complete"
	}
	return i18n.Message(key, sess.Language, i18n.Args{
		"count":  fmt.Sprintf("%d", count),
		"period": period,
	}), nil
}

// List returns the user's latest pending reminders, formatted for display
func (a *ReminderAgent) List(ctx context.Context, sess *session.Session, limit int) (string, error) {
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid user id in session: %w", err)
	}

	reminders, err := a.reminders.ListByUser(ctx, userID, models.ReminderFilter{Limit: limit})
	if err != nil {
		return "", fmt.Errorf("list reminders: %w", err)
	}
	if len(reminders) == 0 {
		return i18n.Message("no_pending_reminders", sess.Language, nil), nil
	}
	return a.formatReminders(sess, reminders), nil
}

// NotifyBatch sends due-reminder notifications. Each item is claimed before
// the send so that two overlapping batch runs cannot both deliver it; the
// run that loses the claim skips the item entirely, including the recurrence
// renewal. Returns the ids that were actually notified.
func (a *ReminderAgent) NotifyBatch(ctx context.Context, items []NotifyItem) ([]uuid.UUID, error) {
	notified := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		claimed, err := a.reminders.ClaimNotification(ctx, item.ReminderID)
		if err != nil {
			return notified, fmt.Errorf("claim reminder %s: %w", item.ReminderID, err)
		}
		if !claimed {
			continue
		}

		text := fmt.Sprintf("🔔 Reminder: %s\n\n%s\n\nDue: %s", item.Title, item.Description, item.DueDatetime)
		if err := a.notifier.Send(ctx, item.ChatID, text); err != nil {
			a.log.WithError(err).WithField("reminder_id", item.ReminderID).Warn("reminder notification send failed")
			continue
		}
		notified = append(notified, item.ReminderID)

		if item.IsRecurring {
			a.renewRecurring(ctx, item)
		}
	}
	return notified, nil
}

func (a *ReminderAgent) renewRecurring(ctx context.Context, item NotifyItem) {
	pattern := models.ParseRecurrence(item.RecurrencePattern)
	due := temporal.ParseDueDate(item.DueDatetime)
	if pattern == nil || due == nil {
		return
	}
	next := temporal.NextOccurrence(*due, *pattern)
	if next == nil {
		return
	}
	if err := a.reminders.UpdateDueDate(ctx, item.ReminderID, *next); err != nil {
		a.log.WithError(err).WithField("reminder_id", item.ReminderID).Warn("recurrence renewal failed")
	}
}

var priorityOrder = []models.Priority{
	models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow,
}

var priorityEmojis = map[models.Priority]string{
	models.PriorityUrgent: "🔥",
	models.PriorityHigh:   "❗",
	models.PriorityMedium: "📌",
	models.PriorityLow:    "📝",
}

var priorityLabels = map[models.Priority]string{
	models.PriorityUrgent: "Urgent",
	models.PriorityHigh:   "High Priority",
	models.PriorityMedium: "Medium Priority",
	models.PriorityLow:    "Low Priority",
}

var typeEmojis = map[models.ReminderType]string{
	models.ReminderTask:     "🕐",
	models.ReminderEvent:    "📅",
	models.ReminderDeadline: "⏰",
	models.ReminderHabit:    "🔄",
	models.ReminderGeneral:  "📝",
}

// formatReminders groups reminders by priority, urgent first, each entry
// with its type emoji and due instant in the user's zone.
func (a *ReminderAgent) formatReminders(sess *session.Session, reminders []models.Reminder) string {
	groups := make(map[models.Priority][]models.Reminder)
	for _, r := range reminders {
		groups[r.Priority] = append(groups[r.Priority], r)
	}

	var b strings.Builder
	b.WriteString(i18n.Message("pending_reminders_header", sess.Language, nil))
	for _, p := range priorityOrder {
		group := groups[p]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].DueAt == nil || group[j].DueAt == nil {
				return group[j].DueAt == nil && group[i].DueAt != nil
			}
			return group[i].DueAt.Before(*group[j].DueAt)
		})

		fmt.Fprintf(&b, "\n\n%s *%s:*\n", priorityEmojis[p], priorityLabels[p])
		for _, r := range group {
			due := "no due date"
			if r.DueAt != nil {
				due = "due " + temporal.InUserZone(*r.DueAt, sess.Timezone).Format("2006-01-02 15:04")
			}
			fmt.Fprintf(&b, "- %s %s (%s) - %s\n", typeEmojis[r.Type], r.Title, due, titleCase(string(r.Type)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sessionLocation(sess *session.Session) *time.Location {
	return temporal.LoadLocation(sess.Timezone)
}

func temporalRange(startStr, endStr, tz string) (*time.Time, *time.Time, error) {
	return temporal.RangeFilter(startStr, endStr, tz)
}
