package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightBestSentenceWithoutQuery(t *testing.T) {
	assert.Equal(t, "Some text.", highlightBestSentence("  Some text. ", ""))
	assert.Equal(t, "   ", highlightBestSentence("   ", "anything"))
}

func TestHighlightBestSentencePicksOverlap(t *testing.T) {
	text := "The sun rose. Fortune favors the bold mind! Rain fell."
	got := highlightBestSentence(text, "bold fortune")
	want := "The sun rose. " + HighlightStyle.Render("Fortune favors the bold mind!") + " Rain fell."
	assert.Equal(t, want, got)
}

func TestHighlightBestSentenceNoOverlap(t *testing.T) {
	text := "The sun rose. Rain fell."
	assert.Equal(t, text, highlightBestSentence(text, "moon"))
}

func TestTokenOverlapCountsDistinctWords(t *testing.T) {
	q := toTokenSet("Don't panic")
	assert.Contains(t, q, "don't")
	assert.Equal(t, 1, tokenOverlapScore(q, "panic panic PANIC"))
	assert.Equal(t, 2, tokenOverlapScore(q, "don't panic"))
}

func TestHighlightBestSentenceKeepsTrailingClause(t *testing.T) {
	text := "Waste no more time. the obstacle is the way"
	got := highlightBestSentence(text, "obstacle way")
	assert.Equal(t, "Waste no more time. "+HighlightStyle.Render("the obstacle is the way"), got)

	assert.Equal(t, []string{"no punctuation here"}, splitSentences("  no punctuation here "))
}
