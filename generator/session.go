package generator

import (
	"context"
	"time"
)

// Session 持有一次故事的首稿与多轮修订上下文。
type Session struct {
	ID      string
	Request StoryRequest
	Draft   Draft
	History []Turn
	agent   *Agent
}

// NewSession 创建 session，尚未生成稿件。
func NewSession(id string, req StoryRequest, agent *Agent) *Session {
	return &Session{
		ID:      id,
		Request: req,
		agent:   agent,
	}
}

// Propose 生成首稿。
func (s *Session) Propose(ctx context.Context) (Draft, error) {
	draft, err := s.agent.Generate(ctx, s.Request)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn("", draft, "initial")
	return draft, nil
}

// Revise rewrites the current draft only; earlier turns are not sent to the service.
func (s *Session) Revise(ctx context.Context, instruction string) (Draft, error) {
	if s.Draft.Markdown == "" {
		return Draft{}, ErrNoDraft
	}
	draft, err := s.agent.Revise(ctx, s.Draft.Markdown, instruction)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn(instruction, draft, "revision")
	return draft, nil
}

func (s *Session) appendTurn(instruction string, draft Draft, summary string) {
	s.History = append(s.History, Turn{
		Instruction: instruction,
		Draft:       draft,
		Summary:     summary,
		CreatedAt:   time.Now(),
	})
}
