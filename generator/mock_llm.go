package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// Respond, when set, replaces the canned reply. All requests are recorded.
type MockLLM struct {
	Respond func(req GenerationRequest) (string, error)

	mu       sync.Mutex
	requests []GenerationRequest
}

func (m *MockLLM) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(req)
	}
	return cannedReply(req), nil
}

// Requests returns a copy of every request seen so far.
func (m *MockLLM) Requests() []GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func cannedReply(req GenerationRequest) string {
	if strings.HasPrefix(req.Instruction, "Summarize this text") {
		return "Summary of the fragment."
	}
	if strings.HasPrefix(req.Instruction, "Split the following interview") {
		return `[{"question":"What happened?","answer":"The river flooded."}]`
	}
	var sb strings.Builder
	sb.WriteString("# Generated story\n\n")
	sb.WriteString("This is a placeholder narrative produced without calling a model.\n\n")
	sb.WriteString(fmt.Sprintf("The request carried %d lines of instruction.\n", strings.Count(req.Instruction, "\n")+1))
	return sb.String()
}
