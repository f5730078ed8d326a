package generator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompressor_RequiresClient(t *testing.T) {
	_, err := NewCompressor(nil)
	assert.Error(t, err)
}

func TestCompressor_CompressClampsTarget(t *testing.T) {
	mock := &MockLLM{}
	c, err := NewCompressor(mock)
	require.NoError(t, err)

	out, err := c.Compress(context.Background(), "some text", -12)
	require.NoError(t, err)
	assert.Equal(t, "Summary of the fragment.", out)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Instruction, "under 1 words")
}

func TestCompressor_CompressAllKeepsRankOrder(t *testing.T) {
	// Later fragments answer first to prove order follows rank, not completion.
	mock := &MockLLM{Respond: func(req GenerationRequest) (string, error) {
		switch {
		case strings.Contains(req.Instruction, "second"):
			time.Sleep(30 * time.Millisecond)
			return "short second", nil
		case strings.Contains(req.Instruction, "third"):
			return "short third", nil
		}
		return "", errors.New("unexpected request")
	}}
	c, err := NewCompressor(mock, WithConcurrency(2))
	require.NoError(t, err)

	ranked := []Fragment{
		{Text: "first " + words(10), Rank: 1},
		{Text: "second " + words(10), Rank: 2},
		{Text: "third " + words(10), Rank: 3},
	}
	plan := []CompressionDecision{{}, {Compress: true, TargetWords: 5}, {Compress: true, TargetWords: 3}}

	got, err := c.CompressAll(context.Background(), ranked, plan)
	require.NoError(t, err)

	assert.Equal(t, []Fragment{
		{Text: ranked[0].Text, Rank: 1},
		{Text: "short second", Rank: 2},
		{Text: "short third", Rank: 3},
	}, got)
	assert.Len(t, mock.Requests(), 2)
	assert.Equal(t, "second "+words(10), ranked[1].Text, "input must not be mutated")
}

func TestCompressor_CompressAllPropagatesFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	var calls atomic.Int32
	mock := &MockLLM{Respond: func(GenerationRequest) (string, error) {
		calls.Add(1)
		return "", boom
	}}
	c, err := NewCompressor(mock, WithConcurrency(1))
	require.NoError(t, err)

	ranked := []Fragment{{Text: "a", Rank: 1}, {Text: "b", Rank: 2}}
	plan := []CompressionDecision{{}, {Compress: true, TargetWords: 1}}

	_, err = c.CompressAll(context.Background(), ranked, plan)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load(), "no local retry")
}

func TestCompressor_CompressAllPlanMismatch(t *testing.T) {
	c, err := NewCompressor(&MockLLM{})
	require.NoError(t, err)

	_, err = c.CompressAll(context.Background(), []Fragment{{Text: "a", Rank: 1}}, nil)
	assert.Error(t, err)
}

type countingRecorder struct {
	calls        atomic.Int32
	compressions atomic.Int32
}

func (r *countingRecorder) ObserveCall(string, time.Duration, error) { r.calls.Add(1) }
func (r *countingRecorder) ObserveCompression(int, int)              { r.compressions.Add(1) }

func TestCompressor_RecordsCompressions(t *testing.T) {
	rec := &countingRecorder{}
	c, err := NewCompressor(&MockLLM{}, WithCompressorRecorder(rec))
	require.NoError(t, err)

	ranked := []Fragment{{Text: "a", Rank: 1}, {Text: words(20), Rank: 2}, {Text: words(20), Rank: 3}}
	plan := []CompressionDecision{{}, {Compress: true, TargetWords: 4}, {Compress: true, TargetWords: 2}}

	_, err = c.CompressAll(context.Background(), ranked, plan)
	require.NoError(t, err)
	assert.Equal(t, int32(2), rec.calls.Load())
	assert.Equal(t, int32(2), rec.compressions.Load())
}
