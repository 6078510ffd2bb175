package dojo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/DojoLocal/services/llm"
	"github.com/AleutianAI/DojoLocal/services/scroll"
)

// mockLLM answers with a canned function, recording prompts it saw.
type mockLLM struct {
	reply   func(system, prompt string) (string, error)
	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, system, prompt string,
	_ llm.GenerationParams) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.reply != nil {
		return m.reply(system, prompt)
	}
	return "ok", nil
}

func newTestNinja(client llm.LLMClient) *Ninja {
	return NewNinja("tester", "You are a test ninja.", "neutral",
		client, llm.GenerationParams{}, StandardLibrary())
}

func TestPerformJutsu(t *testing.T) {
	ns := scroll.NewNamespace()
	mock := &mockLLM{reply: func(_, prompt string) (string, error) {
		return "It condenses.", nil
	}}
	n := newTestNinja(mock)

	s, err := n.PerformJutsu(context.Background(), ns, "summarize",
		map[string]string{"text": "A very long document."})
	require.NoError(t, err)

	assert.Equal(t, "/ninja/tester/summarize_1", s.Key())
	assert.Equal(t, ResultSchema, s.Meta().Schema)

	payload := s.Data().(map[string]any)
	assert.Equal(t, "It condenses.", payload["response"])
	assert.Equal(t, "summarize", payload["jutsu"])

	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "A very long document.")

	// Registered in the namespace under the dispatch key.
	got, ok := ns.Read(s.Key())
	require.True(t, ok)
	assert.Equal(t, s.Hash(), got.Hash())
}

func TestPerformJutsuSequencesKeys(t *testing.T) {
	ns := scroll.NewNamespace()
	n := newTestNinja(&mockLLM{})

	for i := 1; i <= 3; i++ {
		s, err := n.PerformJutsu(context.Background(), ns, "summarize",
			map[string]string{"text": fmt.Sprintf("doc %d", i)})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("/ninja/tester/summarize_%d", i), s.Key())
	}
	assert.Equal(t, int64(3), n.JutsuCount())
}

func TestPerformJutsuUnknown(t *testing.T) {
	ns := scroll.NewNamespace()
	n := newTestNinja(&mockLLM{})

	_, err := n.PerformJutsu(context.Background(), ns, "forbidden_technique", nil)
	assert.ErrorIs(t, err, ErrUnknownJutsu)
}

func TestPerformJutsuModelFailureBecomesErrorScroll(t *testing.T) {
	ns := scroll.NewNamespace()
	n := newTestNinja(&mockLLM{reply: func(_, _ string) (string, error) {
		return "", errors.New("connection refused")
	}})

	s, err := n.PerformJutsu(context.Background(), ns, "summarize",
		map[string]string{"text": "x"})
	require.NoError(t, err)

	assert.Equal(t, ErrorSchema, s.Meta().Schema)
	payload := s.Data().(map[string]any)
	assert.Contains(t, payload["error"], "connection refused")
}

func TestPerformJutsuWeaveFailureBecomesErrorScroll(t *testing.T) {
	ns := scroll.NewNamespace()
	n := newTestNinja(&mockLLM{})

	s, err := n.PerformJutsu(context.Background(), ns, "translate",
		map[string]string{"language": "French"}) // missing {text}
	require.NoError(t, err)

	assert.Equal(t, ErrorSchema, s.Meta().Schema)
	payload := s.Data().(map[string]any)
	assert.Contains(t, payload["error"], "{text}")
}

func TestLearnJutsu(t *testing.T) {
	ns := scroll.NewNamespace()
	n := NewNinja("apprentice", "", "neutral", &mockLLM{},
		llm.GenerationParams{}, StandardLibrary(), "summarize")

	_, err := n.PerformJutsu(context.Background(), ns, "haiku", nil)
	require.ErrorIs(t, err, ErrUnknownJutsu)

	n.LearnJutsu("haiku", Jutsu{Name: "Haiku", Template: "Haiku about {topic}:"})
	s, err := n.PerformJutsu(context.Background(), ns, "haiku",
		map[string]string{"topic": "autumn"})
	require.NoError(t, err)
	assert.Equal(t, ResultSchema, s.Meta().Schema)
}

func TestShadowClone(t *testing.T) {
	n := newTestNinja(&mockLLM{})
	clones := n.ShadowClone(3)

	require.Len(t, clones, 3)
	assert.Equal(t, "tester_clone_1", clones[0].Name)
	assert.Equal(t, "tester_clone_3", clones[2].Name)
	for _, c := range clones {
		assert.Equal(t, n.KnownJutsu(), c.KnownJutsu())
		assert.Equal(t, int64(0), c.JutsuCount())
	}
}

func TestKnownJutsuSorted(t *testing.T) {
	n := NewNinja("x", "", "neutral", &mockLLM{}, llm.GenerationParams{},
		StandardLibrary(), "translate", "calculate", "dialectic")
	assert.Equal(t, []string{"calculate", "dialectic", "translate"}, n.KnownJutsu())
	assert.True(t, strings.HasPrefix(n.KnownJutsu()[0], "c"))
}
