package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/config"
	"github.com/okanassist/okanassist-backend/internal/metrics"
)

// GroqClient talks to Groq's OpenAI-compatible API. Vision requests
// (receipts, statements) go to a separate multimodal model; voice messages
// go to the transcription endpoint.
type GroqClient struct {
	client             *openai.Client
	model              string
	visionModel        string
	transcriptionModel string
	timeout            time.Duration
	log                *logrus.Logger
}

// NewGroqClient creates a language-service client from configuration
func NewGroqClient(cfg config.LLMConfig, log *logrus.Logger) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("language service API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GroqClient{
		client:             openai.NewClientWithConfig(clientCfg),
		model:              cfg.Model,
		visionModel:        cfg.VisionModel,
		transcriptionModel: cfg.TranscriptionModel,
		timeout:            timeout,
		log:                log,
	}, nil
}

// Classify maps a prompt to free text used for coarse intent routing
func (c *GroqClient) Classify(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "classify", c.model, 0.2, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// Extract issues a strict-JSON prompt, optionally with attachments
func (c *GroqClient) Extract(ctx context.Context, prompt string, attachments ...Attachment) (string, error) {
	if len(attachments) == 0 {
		return c.complete(ctx, "extract", c.model, 0.1, []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		})
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	for _, a := range attachments {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: dataURL(a),
			},
		})
	}
	return c.complete(ctx, "extract", c.visionModel, 0.1, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, MultiContent: parts},
	})
}

// Transcribe sends a voice attachment to the audio translation endpoint,
// which transcribes speech in any language to English text.
func (c *GroqClient) Transcribe(ctx context.Context, audio Attachment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateTranslation(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		Reader:   bytes.NewReader(audio.Data),
		FilePath: audioFileName(audio.MIME),
	})
	metrics.ObserveLLMCall("transcribe", time.Since(start), err)

	if err != nil {
		c.log.WithError(err).WithField("op", "transcribe").Warn("language service call failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// audioFileName gives the upload a name whose extension matches the payload;
// the transcription endpoint detects the container format from it.
func audioFileName(mime string) string {
	switch mime {
	case "audio/mpeg", "audio/mp3":
		return "voice.mp3"
	case "audio/wav", "audio/x-wav":
		return "voice.wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "voice.m4a"
	default:
		return "voice.ogg"
	}
}

func (c *GroqClient) complete(ctx context.Context, op, model string, temperature float32, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	metrics.ObserveLLMCall(op, time.Since(start), err)

	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("language service call failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func dataURL(a Attachment) string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
