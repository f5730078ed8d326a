package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Agent runs the ranking, compression and assembly pipeline against an LLMClient.
type Agent struct {
	llm        LLMClient
	compressor *Compressor
	logger     *zap.Logger
	recorder   Recorder
}

// AgentOption configures an Agent.
type AgentOption func(*agentOptions)

type agentOptions struct {
	logger      *zap.Logger
	recorder    Recorder
	concurrency int
}

func WithLogger(l *zap.Logger) AgentOption {
	return func(o *agentOptions) { o.logger = l }
}

func WithRecorder(r Recorder) AgentOption {
	return func(o *agentOptions) { o.recorder = r }
}

func WithCompressionConcurrency(n int) AgentOption {
	return func(o *agentOptions) { o.concurrency = n }
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	o := agentOptions{logger: zap.NewNop(), recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	compressor, err := NewCompressor(llm,
		WithConcurrency(o.concurrency),
		WithCompressorLogger(o.logger.Named("compressor")),
		WithCompressorRecorder(o.recorder),
	)
	if err != nil {
		return nil, err
	}
	return &Agent{llm: llm, compressor: compressor, logger: o.logger, recorder: o.recorder}, nil
}

// BuildStoryRequest ranks, selectively compresses and assembles fragments into a request.
func (a *Agent) BuildStoryRequest(ctx context.Context, fragments []Fragment, style Style, maxWords int) (GenerationRequest, error) {
	if len(fragments) == 0 {
		return GenerationRequest{}, ErrNoFragments
	}
	if maxWords <= 0 {
		return GenerationRequest{}, ErrInvalidMaxWords
	}
	if !style.Known() {
		a.logger.Warn("unknown story style, omitting style directive", zap.String("style", string(style)))
	}

	ranked := RankFragments(fragments)
	plan, err := PlanCompression(ranked, maxWords)
	if err != nil {
		return GenerationRequest{}, err
	}
	effective, err := a.compressor.CompressAll(ctx, ranked, plan)
	if err != nil {
		return GenerationRequest{}, err
	}
	return BuildStoryPrompt(effective, style, maxWords), nil
}

// BuildRevisionRequest builds the follow-up request for a prior narrative.
func (a *Agent) BuildRevisionRequest(narrative, instruction string) GenerationRequest {
	return BuildRevisionPrompt(narrative, instruction)
}

// Generate produces the first narrative for req.
func (a *Agent) Generate(ctx context.Context, req StoryRequest) (Draft, error) {
	gen, err := a.BuildStoryRequest(ctx, req.Fragments, req.Style, req.MaxWords)
	if err != nil {
		return Draft{}, err
	}
	return a.SendStoryRequest(ctx, gen)
}

// SendStoryRequest sends a request built by BuildStoryRequest.
func (a *Agent) SendStoryRequest(ctx context.Context, gen GenerationRequest) (Draft, error) {
	raw, err := a.complete(ctx, callStory, gen)
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

// Revise rewrites narrative according to instruction.
func (a *Agent) Revise(ctx context.Context, narrative, instruction string) (Draft, error) {
	raw, err := a.complete(ctx, callRevision, a.BuildRevisionRequest(narrative, instruction))
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

func (a *Agent) complete(ctx context.Context, kind string, req GenerationRequest) (string, error) {
	start := time.Now()
	raw, err := a.llm.Complete(ctx, req)
	elapsed := time.Since(start)
	a.recorder.ObserveCall(kind, elapsed, err)
	if err != nil {
		a.logger.Error("generation failed", zap.String("kind", kind), zap.Error(err))
		return "", fmt.Errorf("%s generation: %w", kind, err)
	}
	a.logger.Debug("generation done",
		zap.String("kind", kind),
		zap.Int("prompt_chars", len(req.Instruction)),
		zap.Duration("elapsed", elapsed),
	)
	return raw, nil
}
