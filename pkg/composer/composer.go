package composer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"doc-qa-be/pkg/router"
)

// Source identifies which backend contributed a section of an answer.
type Source string

const (
	SourceDocument Source = "DOCUMENT"
	SourceWeb      Source = "WEB"
)

// Provenance markers prepended to answer sections.
const (
	DocumentMarker = "📄 From the document:"
	WebMarker      = "🌐 From web search:"
)

const noInformationAnswer = "I couldn't find relevant information in the document or through web search."

// DocumentRetriever produces a generative answer constrained to the indexed
// document. Shape adaptation of the underlying backend happens behind this
// interface; the composer only sees text or an error.
type DocumentRetriever interface {
	Answer(ctx context.Context, question string) (string, error)
}

// WebSearcher queries a live web data source. Never assumed to be cheap; the
// composer wraps every call with its own timeout.
type WebSearcher interface {
	Search(ctx context.Context, question string) (string, error)
}

// ComposedAnswer is a provenance-tagged answer assembled from one or two
// information sources.
type ComposedAnswer struct {
	Text          string
	Sources       []Source
	WebSearchUsed bool
	Reason        string
}

// HasSource reports whether the given source contributed content.
func (a *ComposedAnswer) HasSource(s Source) bool {
	for _, src := range a.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// Composer executes the information-gathering step(s) selected by the
// fallback policy and merges the results. Web search is best-effort: any
// web-layer failure degrades the answer to document-only instead of failing
// the request.
type Composer struct {
	webTimeout time.Duration
	logger     *log.Logger
}

func NewComposer(webTimeout time.Duration, logger *log.Logger) *Composer {
	return &Composer{
		webTimeout: webTimeout,
		logger:     logger,
	}
}

// Compose runs the document-only or document+web path depending on the
// decision. A document retrieval error is fatal for the request; a web
// search error never is.
func (c *Composer) Compose(
	ctx context.Context,
	question string,
	retriever DocumentRetriever,
	searcher WebSearcher,
	decision router.Decision,
) (*ComposedAnswer, error) {

	if !decision.UseWebFallback {
		return c.composeDocumentOnly(ctx, question, retriever, decision)
	}
	return c.composeWithWeb(ctx, question, retriever, searcher, decision)
}

func (c *Composer) composeDocumentOnly(
	ctx context.Context,
	question string,
	retriever DocumentRetriever,
	decision router.Decision,
) (*ComposedAnswer, error) {

	text, err := retriever.Answer(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("document retrieval failed: %w", err)
	}

	answer := text
	if !strings.HasPrefix(answer, DocumentMarker) {
		answer = fmt.Sprintf("%s %s", DocumentMarker, answer)
	}

	return &ComposedAnswer{
		Text:    answer,
		Sources: []Source{SourceDocument},
		Reason:  decision.Reason,
	}, nil
}

type webResult struct {
	text string
	err  error
}

func (c *Composer) composeWithWeb(
	ctx context.Context,
	question string,
	retriever DocumentRetriever,
	searcher WebSearcher,
	decision router.Decision,
) (*ComposedAnswer, error) {

	// The web call is independent of document retrieval, so both run in
	// parallel. The web call carries its own timeout.
	resultCh := make(chan webResult, 1)
	go func() {
		webCtx, cancel := context.WithTimeout(ctx, c.webTimeout)
		defer cancel()
		text, err := searcher.Search(webCtx, question)
		resultCh <- webResult{text: text, err: err}
	}()

	docText, docErr := retriever.Answer(ctx, question)
	if docErr != nil {
		return nil, fmt.Errorf("document retrieval failed: %w", docErr)
	}

	web := <-resultCh
	if web.err != nil {
		c.logger.Printf("[WARN] Web search failed, degrading to document-only: %v", web.err)
		return c.documentOnlyFallback(docText, decision), nil
	}

	webText := strings.TrimSpace(web.text)
	if webText == "" {
		return c.documentOnlyFallback(docText, decision), nil
	}

	return c.merge(docText, webText, decision), nil
}

// documentOnlyFallback marks an already-retrieved document answer as
// document-sourced, without re-invoking the retriever.
func (c *Composer) documentOnlyFallback(docText string, decision router.Decision) *ComposedAnswer {
	if !usableContent(docText) {
		return &ComposedAnswer{
			Text:   noInformationAnswer,
			Reason: decision.Reason,
		}
	}

	answer := docText
	if !strings.HasPrefix(answer, DocumentMarker) {
		answer = fmt.Sprintf("%s %s", DocumentMarker, answer)
	}

	return &ComposedAnswer{
		Text:    answer,
		Sources: []Source{SourceDocument},
		Reason:  decision.Reason,
	}
}

// merge combines document and web content, document first. An unhelpful
// document side drops the document marker and the answer becomes web-only.
func (c *Composer) merge(docText, webText string, decision router.Decision) *ComposedAnswer {
	if !usableContent(docText) {
		return &ComposedAnswer{
			Text:          fmt.Sprintf("%s %s", WebMarker, webText),
			Sources:       []Source{SourceWeb},
			WebSearchUsed: true,
			Reason:        decision.Reason,
		}
	}

	docSection := docText
	if !strings.HasPrefix(docSection, DocumentMarker) {
		docSection = fmt.Sprintf("%s %s", DocumentMarker, docSection)
	}

	return &ComposedAnswer{
		Text:          fmt.Sprintf("%s\n\n%s %s", docSection, WebMarker, webText),
		Sources:       []Source{SourceDocument, SourceWeb},
		WebSearchUsed: true,
		Reason:        decision.Reason,
	}
}

// usableContent filters out the placeholder responses some generative
// backends return when the context contains nothing relevant.
func usableContent(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return !strings.EqualFold(trimmed, "empty response")
}
