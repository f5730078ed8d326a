package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ProposeThenRevise(t *testing.T) {
	replies := []string{"first draft", "second draft", "third draft"}
	mock := &MockLLM{}
	mock.Respond = func(req GenerationRequest) (string, error) {
		out := replies[0]
		replies = replies[1:]
		return out, nil
	}
	agent, err := NewAgent(mock)
	require.NoError(t, err)

	sess := NewSession("s1", StoryRequest{
		Fragments: []Fragment{{Text: "one", Rank: 1}},
		Style:     StyleBlog,
		MaxWords:  80,
	}, agent)

	d, err := sess.Propose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first draft", d.Markdown)

	d, err = sess.Revise(context.Background(), "add a quote")
	require.NoError(t, err)
	assert.Equal(t, "second draft", d.Markdown)

	_, err = sess.Revise(context.Background(), "make it shorter")
	require.NoError(t, err)
	assert.Equal(t, "third draft", sess.Draft.Markdown)

	reqs := mock.Requests()
	require.Len(t, reqs, 3)
	// Only the immediately prior narrative is carried into a revision.
	assert.Contains(t, reqs[2].Instruction, "second draft")
	assert.NotContains(t, reqs[2].Instruction, "first draft")
	assert.NotContains(t, reqs[2].Instruction, "add a quote")
	assert.True(t, strings.HasSuffix(reqs[2].Instruction, "make it shorter"))

	require.Len(t, sess.History, 3)
	assert.Equal(t, "initial", sess.History[0].Summary)
	assert.Equal(t, "make it shorter", sess.History[2].Instruction)
}

func TestSession_ReviseWithoutDraft(t *testing.T) {
	agent, err := NewAgent(&MockLLM{})
	require.NoError(t, err)

	sess := NewSession("s2", StoryRequest{}, agent)
	_, err = sess.Revise(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestSession_ProposeKeepsDraftOnFailure(t *testing.T) {
	agent, err := NewAgent(&MockLLM{})
	require.NoError(t, err)

	sess := NewSession("s3", StoryRequest{Style: StyleArticle, MaxWords: 10}, agent)
	_, err = sess.Propose(context.Background())
	assert.ErrorIs(t, err, ErrNoFragments)
	assert.Empty(t, sess.History)
	assert.Empty(t, sess.Draft.Markdown)
}
