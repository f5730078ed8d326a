package generator

import (
	"context"
	"time"
)

// DefaultMaxTokens caps story, compression and revision requests.
const DefaultMaxTokens = 800

// LLMClient is the text generation service. Implementations own auth, retries and rate limits.
type LLMClient interface {
	Complete(ctx context.Context, req GenerationRequest) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// Recorder receives instrumentation from the pipeline. A nil Recorder is allowed.
type Recorder interface {
	ObserveCall(kind string, elapsed time.Duration, err error)
	ObserveCompression(originalWords, targetWords int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCall(string, time.Duration, error) {}
func (nopRecorder) ObserveCompression(int, int)              {}

const (
	callStory     = "story"
	callCompress  = "compress"
	callRevision  = "revision"
	callInterview = "interview"
)

type timeoutLLM struct {
	next    LLMClient
	timeout time.Duration
}

// WithCallTimeout bounds every Complete on c by d. A non-positive d returns c unchanged.
func WithCallTimeout(c LLMClient, d time.Duration) LLMClient {
	if d <= 0 {
		return c
	}
	return &timeoutLLM{next: c, timeout: d}
}

func (t *timeoutLLM) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, req)
}
