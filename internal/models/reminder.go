package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority is a reminder's urgency level
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ReminderType classifies what kind of item a reminder tracks
type ReminderType string

const (
	ReminderTask     ReminderType = "task"
	ReminderEvent    ReminderType = "event"
	ReminderDeadline ReminderType = "deadline"
	ReminderHabit    ReminderType = "habit"
	ReminderGeneral  ReminderType = "general"
)

// RecurrencePattern names the rule for deriving the next due instant
type RecurrencePattern string

const (
	RecurDaily   RecurrencePattern = "daily"
	RecurWeekly  RecurrencePattern = "weekly"
	RecurMonthly RecurrencePattern = "monthly"
)

// Reminder represents a scheduled item. DueAt is stored as a naive UTC
// instant; display conversion happens in the temporal layer.
type Reminder struct {
	ID                uuid.UUID          `json:"id" db:"id"`
	UserID            uuid.UUID          `json:"user_id" db:"user_id"`
	Title             string             `json:"title" db:"title"`
	Description       string             `json:"description" db:"description"`
	DueAt             *time.Time         `json:"due_datetime,omitempty" db:"due_datetime"`
	Priority          Priority           `json:"priority" db:"priority"`
	Type              ReminderType       `json:"reminder_type" db:"reminder_type"`
	IsRecurring       bool               `json:"is_recurring" db:"is_recurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrence_pattern,omitempty" db:"recurrence_pattern"`
	NotificationSent  bool               `json:"notification_sent" db:"notification_sent"`
	IsCompleted       bool               `json:"is_completed" db:"is_completed"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" db:"updated_at"`
}

// ValidPriority coerces unknown priorities to medium
func ValidPriority(p string) Priority {
	switch Priority(p) {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(p)
	}
	return PriorityMedium
}

// ValidReminderType coerces unknown types to general
func ValidReminderType(t string) ReminderType {
	switch ReminderType(t) {
	case ReminderTask, ReminderEvent, ReminderDeadline, ReminderHabit, ReminderGeneral:
		return ReminderType(t)
	}
	return ReminderGeneral
}

// ParseRecurrence returns the pattern for recognized names and nil otherwise.
// Unrecognized patterns make an item non-recurring going forward.
func ParseRecurrence(p string) *RecurrencePattern {
	switch RecurrencePattern(p) {
	case RecurDaily, RecurWeekly, RecurMonthly:
		r := RecurrencePattern(p)
		return &r
	}
	return nil
}

// ReminderFilter narrows reminder queries. Nil bounds mean unbounded on that
// side; both nil means no date restriction at all.
type ReminderFilter struct {
	Priority         *Priority
	Start            *time.Time
	End              *time.Time
	IncludeCompleted bool
	Limit            int
}
