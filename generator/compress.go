package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCompressionConcurrency bounds in-flight compression calls.
const DefaultCompressionConcurrency = 4

// Compressor shortens fragments through the service.
type Compressor struct {
	llm         LLMClient
	concurrency int
	logger      *zap.Logger
	recorder    Recorder
}

// CompressorOption configures a Compressor.
type CompressorOption func(*Compressor)

func WithConcurrency(n int) CompressorOption {
	return func(c *Compressor) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithCompressorLogger(l *zap.Logger) CompressorOption {
	return func(c *Compressor) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithCompressorRecorder(r Recorder) CompressorOption {
	return func(c *Compressor) {
		if r != nil {
			c.recorder = r
		}
	}
}

func NewCompressor(llm LLMClient, opts ...CompressorOption) (*Compressor, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	c := &Compressor{
		llm:         llm,
		concurrency: DefaultCompressionConcurrency,
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compress returns a summary of text in under targetWords words. Service errors are not retried.
func (c *Compressor) Compress(ctx context.Context, text string, targetWords int) (string, error) {
	if targetWords < 1 {
		targetWords = 1
	}
	start := time.Now()
	out, err := c.llm.Complete(ctx, BuildSummaryPrompt(text, targetWords))
	c.recorder.ObserveCall(callCompress, time.Since(start), err)
	if err != nil {
		c.logger.Error("compress fragment failed", zap.Int("target_words", targetWords), zap.Error(err))
		return "", fmt.Errorf("compress fragment: %w", err)
	}
	c.recorder.ObserveCompression(wordCount(text), targetWords)
	c.logger.Debug("fragment compressed",
		zap.Int("original_words", wordCount(text)),
		zap.Int("target_words", targetWords),
		zap.Int("result_words", wordCount(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// CompressAll applies plan to ranked and returns the effective fragments in the same order.
// Selected fragments are compressed concurrently; the first failure cancels the rest.
func (c *Compressor) CompressAll(ctx context.Context, ranked []Fragment, plan []CompressionDecision) ([]Fragment, error) {
	if len(plan) != len(ranked) {
		return nil, fmt.Errorf("compression plan covers %d fragments, have %d", len(plan), len(ranked))
	}
	out := make([]Fragment, len(ranked))
	copy(out, ranked)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, d := range plan {
		if !d.Compress {
			continue
		}
		g.Go(func() error {
			text, err := c.Compress(gctx, ranked[i].Text, d.TargetWords)
			if err != nil {
				return err
			}
			out[i].Text = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
