package composer

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"doc-qa-be/pkg/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	answer string
	err    error
	calls  int
}

func (f *fakeRetriever) Answer(ctx context.Context, question string) (string, error) {
	f.calls++
	return f.answer, f.err
}

type fakeSearcher struct {
	result string
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeSearcher) Search(ctx context.Context, question string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.result, f.err
}

func newTestComposer() *Composer {
	return NewComposer(2*time.Second, log.New(io.Discard, "", 0))
}

func TestComposeDocumentOnly(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "The report covers Q3 revenue."}

	answer, err := c.Compose(context.Background(), "what does the report cover?", retriever, nil, router.Decision{GatePassed: true})
	require.NoError(t, err)

	assert.Equal(t, "📄 From the document: The report covers Q3 revenue.", answer.Text)
	assert.Equal(t, []Source{SourceDocument}, answer.Sources)
	assert.False(t, answer.WebSearchUsed)
}

func TestComposeDocumentOnlyKeepsExistingMarker(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "📄 From the document: already marked"}

	answer, err := c.Compose(context.Background(), "q", retriever, nil, router.Decision{GatePassed: true})
	require.NoError(t, err)

	assert.Equal(t, "📄 From the document: already marked", answer.Text)
}

func TestComposeDocumentOnlyIdempotentSources(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "stable answer"}

	first, err := c.Compose(context.Background(), "q", retriever, nil, router.Decision{GatePassed: true})
	require.NoError(t, err)
	second, err := c.Compose(context.Background(), "q", retriever, nil, router.Decision{GatePassed: true})
	require.NoError(t, err)

	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, []Source{SourceDocument}, second.Sources)
}

func TestComposeRetrieverErrorIsFatal(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{err: errors.New("index unreachable")}

	_, err := c.Compose(context.Background(), "q", retriever, nil, router.Decision{GatePassed: true})
	assert.Error(t, err)
}

func TestComposeMergesDocumentAndWeb(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "The document mentions model X."}
	searcher := &fakeSearcher{result: "Model X shipped an update last week."}
	decision := router.Decision{GatePassed: true, UseWebFallback: true, Reason: router.ReasonRecentInfo}

	answer, err := c.Compose(context.Background(), "latest on model X?", retriever, searcher, decision)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(answer.Text, "📄 From the document:"))
	assert.Contains(t, answer.Text, "🌐 From web search: Model X shipped an update last week.")
	assert.Equal(t, []Source{SourceDocument, SourceWeb}, answer.Sources)
	assert.True(t, answer.WebSearchUsed)
	assert.Equal(t, router.ReasonRecentInfo, answer.Reason)
	assert.Equal(t, 1, searcher.calls)
}

func TestComposeWebOnlyWhenDocumentUnhelpful(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "Empty Response"}
	searcher := &fakeSearcher{result: "Fresh web data."}
	decision := router.Decision{UseWebFallback: true, Reason: router.ReasonBelowThreshold}

	answer, err := c.Compose(context.Background(), "q", retriever, searcher, decision)
	require.NoError(t, err)

	assert.Equal(t, "🌐 From web search: Fresh web data.", answer.Text)
	assert.Equal(t, []Source{SourceWeb}, answer.Sources)
	assert.True(t, answer.WebSearchUsed)
	assert.False(t, answer.HasSource(SourceDocument))
}

func TestComposeWebFailureDegradesToDocument(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "Document content."}
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	decision := router.Decision{UseWebFallback: true, Reason: router.ReasonLowSimilarity}

	answer, err := c.Compose(context.Background(), "q", retriever, searcher, decision)
	require.NoError(t, err)

	assert.Equal(t, "📄 From the document: Document content.", answer.Text)
	assert.Equal(t, []Source{SourceDocument}, answer.Sources)
	assert.False(t, answer.WebSearchUsed)
}

func TestComposeWebTimeoutDegradesToDocument(t *testing.T) {
	c := NewComposer(20*time.Millisecond, log.New(io.Discard, "", 0))
	retriever := &fakeRetriever{answer: "Document content."}
	searcher := &fakeSearcher{result: "too late", delay: 500 * time.Millisecond}
	decision := router.Decision{UseWebFallback: true}

	answer, err := c.Compose(context.Background(), "q", retriever, searcher, decision)
	require.NoError(t, err)

	assert.Equal(t, []Source{SourceDocument}, answer.Sources)
	assert.False(t, answer.WebSearchUsed)
}

func TestComposeEmptyWebResultUsesDocumentAlone(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: "Document content."}
	searcher := &fakeSearcher{result: "   "}
	decision := router.Decision{UseWebFallback: true}

	answer, err := c.Compose(context.Background(), "q", retriever, searcher, decision)
	require.NoError(t, err)

	assert.Equal(t, "📄 From the document: Document content.", answer.Text)
	assert.Equal(t, []Source{SourceDocument}, answer.Sources)
	assert.False(t, answer.WebSearchUsed)
}

func TestComposeNothingUsableAnywhere(t *testing.T) {
	c := newTestComposer()
	retriever := &fakeRetriever{answer: ""}
	searcher := &fakeSearcher{err: errors.New("network down")}
	decision := router.Decision{UseWebFallback: true}

	answer, err := c.Compose(context.Background(), "q", retriever, searcher, decision)
	require.NoError(t, err)

	assert.Equal(t, "I couldn't find relevant information in the document or through web search.", answer.Text)
	assert.Empty(t, answer.Sources)
}
