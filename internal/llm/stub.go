package llm

import "context"

// Stub is a canned-response client for tests
type Stub struct {
	ClassifyResponse   string
	ExtractResponse    string
	TranscribeResponse string
	ClassifyErr        error
	ExtractErr         error
	TranscribeErr      error

	ClassifyCalls   int
	ExtractCalls    int
	TranscribeCalls int
	LastPrompt      string
	LastAudio       Attachment
}

// Classify returns the canned classification response
func (s *Stub) Classify(ctx context.Context, prompt string) (string, error) {
	s.ClassifyCalls++
	s.LastPrompt = prompt
	if s.ClassifyErr != nil {
		return "", s.ClassifyErr
	}
	return s.ClassifyResponse, nil
}

// Extract returns the canned extraction response
func (s *Stub) Extract(ctx context.Context, prompt string, attachments ...Attachment) (string, error) {
	s.ExtractCalls++
	s.LastPrompt = prompt
	if s.ExtractErr != nil {
		return "", s.ExtractErr
	}
	return s.ExtractResponse, nil
}

// Transcribe returns the canned transcript
func (s *Stub) Transcribe(ctx context.Context, audio Attachment) (string, error) {
	s.TranscribeCalls++
	s.LastAudio = audio
	if s.TranscribeErr != nil {
		return "", s.TranscribeErr
	}
	return s.TranscribeResponse, nil
}
