package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// QAPair is one question and its answer from an interview transcript.
type QAPair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// InterviewSplitter asks the service to break a transcript into QAPairs.
type InterviewSplitter struct {
	llm      LLMClient
	logger   *zap.Logger
	recorder Recorder
}

func NewInterviewSplitter(llm LLMClient, logger *zap.Logger, recorder Recorder) (*InterviewSplitter, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &InterviewSplitter{llm: llm, logger: logger, recorder: recorder}, nil
}

func (s *InterviewSplitter) Split(ctx context.Context, transcript string) ([]QAPair, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("transcript is empty")
	}
	start := time.Now()
	raw, err := s.llm.Complete(ctx, buildSplitPrompt(transcript))
	s.recorder.ObserveCall(callInterview, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("split interview: %w", err)
	}
	pairs, err := ParseQAPairs(raw)
	if err != nil {
		s.logger.Warn("interview split reply rejected", zap.Error(err), zap.Int("reply_chars", len(raw)))
		return nil, err
	}
	return pairs, nil
}

var fenceRe = regexp.MustCompile("```(?:json)?\\n?")

// ParseQAPairs validates a model reply holding a JSON array of question/answer objects.
func ParseQAPairs(raw string) ([]QAPair, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("%w: reply is not valid JSON", ErrMalformedSplit)
	}
	root := gjson.Parse(cleaned)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: reply is not an array", ErrMalformedSplit)
	}

	items := root.Array()
	pairs := make([]QAPair, 0, len(items))
	for i, item := range items {
		q := strings.TrimSpace(item.Get("question").String())
		a := strings.TrimSpace(item.Get("answer").String())
		if !item.IsObject() || q == "" || a == "" {
			return nil, fmt.Errorf("%w: invalid object at index %d", ErrMalformedSplit, i)
		}
		pairs = append(pairs, QAPair{Question: q, Answer: a})
	}
	return pairs, nil
}

// QAPairsToFragments renders each pair as a fragment carrying rank.
func QAPairsToFragments(pairs []QAPair, rank int) []Fragment {
	out := make([]Fragment, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Fragment{
			Text: fmt.Sprintf("Q: %s\nA: %s", p.Question, p.Answer),
			Rank: rank,
		})
	}
	return out
}
