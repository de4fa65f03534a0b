// Package agent implements the two-stage message pipeline: a coarse intent
// classification decides which specialized agent handles the message, then
// that agent runs its own extraction pass. Model failures at either stage
// degrade to deterministic keyword handling instead of failing the request.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/i18n"
	"github.com/okanassist/okanassist-backend/internal/llm"
	"github.com/okanassist/okanassist-backend/internal/metrics"
	"github.com/okanassist/okanassist-backend/internal/session"
)

const classifyInstructions = `You are the OkanAssist main agent coordinator. Your role is to classify a user's message into a high-level category.

Classify user messages into ONE of these categories:
- TRANSACTION: For anything related to money, expenses, income, summaries, or financial reports. (e.g., "spent $20", "show my spending", "I need a report for this month").
- REMINDER: For anything related to creating reminders, tasks, events, or asking for a schedule. (e.g., "remind me to call mom", "what's on my agenda today?").
- HELP: For help requests or questions about functionality.
- GREETING: For simple greetings and casual conversation.

Respond with ONLY the classification category in uppercase (e.g., "TRANSACTION", "REMINDER").`

var langNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
}

// Router dispatches a user message to the matching specialized agent
type Router struct {
	llm          llm.Client
	transactions *TransactionAgent
	reminders    *ReminderAgent
	log          *logrus.Logger
}

// NewRouter creates the dispatch layer over the two specialized agents
func NewRouter(client llm.Client, transactions *TransactionAgent, reminders *ReminderAgent, log *logrus.Logger) *Router {
	return &Router{
		llm:          client,
		transactions: transactions,
		reminders:    reminders,
		log:          log,
	}
}

// RouteMessage classifies the message and hands it to the matching agent.
// When the classification call fails, keyword matching decides instead; a
// routable guess beats an error reply.
func (r *Router) RouteMessage(ctx context.Context, sess *session.Session, message string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nThe user is speaking %s. Classify this user message: %q",
		classifyInstructions, languageName(sess.Language), message)

	intent, err := r.llm.Classify(ctx, prompt)
	if err != nil {
		r.log.WithError(err).Warn("intent classification failed, using keyword fallback")
		intent = classifyKeywords(message)
	}
	r.log.WithField("response", intent).Debug("intent classified")

	switch {
	case containsIntent(intent, "TRANSACTION"):
		metrics.RequestsTotal.WithLabelValues("transaction").Inc()
		return r.transactions.ProcessMessage(ctx, sess, message)
	case containsIntent(intent, "REMINDER"):
		metrics.RequestsTotal.WithLabelValues("reminder").Inc()
		return r.reminders.ProcessMessage(ctx, sess, message)
	case containsIntent(intent, "HELP"):
		metrics.RequestsTotal.WithLabelValues("help").Inc()
		return i18n.Message("help_message", sess.Language, nil), nil
	default:
		metrics.RequestsTotal.WithLabelValues("general").Inc()
		return r.generalReply(ctx, sess, message, intent)
	}
}

// RouteAudio transcribes a voice attachment to English and routes the
// transcript like a typed message. A failed transcription is answered with
// an apology rather than an error; the user can retry or fall back to text.
func (r *Router) RouteAudio(ctx context.Context, sess *session.Session, audio llm.Attachment) (string, error) {
	transcript, err := r.llm.Transcribe(ctx, audio)
	if err != nil || transcript == "" {
		r.log.WithError(err).Warn("audio transcription failed")
		return i18n.Message("audio_failed", sess.Language, nil), nil
	}
	r.log.WithField("transcript", transcript).Debug("audio transcribed")
	return r.RouteMessage(ctx, sess, transcript)
}

// generalReply handles greetings and anything that didn't classify. The model
// writes the chat reply; if it is down the help text is a serviceable answer.
func (r *Router) generalReply(ctx context.Context, sess *session.Session, message, intent string) (string, error) {
	prompt := fmt.Sprintf(`The intent is %s. Respond helpfully and engagingly to this message: %q.
- Always respond in the user's language (%s). If the language is unclear, default to English.
- When reasonable, add a fun, light-hearted tone with emojis to keep it enjoyable.
- Suggest how they can use OkanAssist for tracking expenses and daily reminders.
- Keep responses concise and avoid long replies.`,
		intent, message, languageName(sess.Language))

	reply, err := r.llm.Classify(ctx, prompt)
	if err != nil {
		r.log.WithError(err).Warn("general reply generation failed")
		return i18n.Message("help_message", sess.Language, nil), nil
	}
	return reply, nil
}

func containsIntent(response, intent string) bool {
	return strings.Contains(strings.ToLower(response), strings.ToLower(intent))
}

func languageName(lang string) string {
	short := lang
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		short = lang[:i]
	}
	if name, ok := langNames[short]; ok {
		return name
	}
	return "English"
}

var transactionKeywords = []string{
	"spent", "paid", "bought", "purchase", "cost", "expense", "income",
	"earned", "received", "salary", "$", "balance", "summary", "spending", "report",
	"gasté", "pagué", "gastei", "paguei", "resumen", "resumo",
}

var reminderKeywords = []string{
	"remind", "reminder", "remember", "don't forget", "schedule",
	"appointment", "meeting", "task",
	"recuérdame", "recuerda", "lembre", "tarea", "tarefa",
}

// classifyKeywords is the zero-model classification tier
func classifyKeywords(message string) string {
	lower := strings.ToLower(message)
	for _, w := range transactionKeywords {
		if strings.Contains(lower, w) {
			return "TRANSACTION"
		}
	}
	for _, w := range reminderKeywords {
		if strings.Contains(lower, w) {
			return "REMINDER"
		}
	}
	return "GENERAL"
}
