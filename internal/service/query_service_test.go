package service

import (
	"context"
	"strings"
	"testing"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/contract"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/pkg/composer"
	"doc-qa-be/pkg/retrieval"
	"doc-qa-be/pkg/router"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeChatMessageRepo struct {
	latest        *entity.ChatMessage
	created       []*entity.ChatMessage
	summaries     []*contract.ChatSummary
	thresholdRows int64
	lastThreshold float64
}

func (r *fakeChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.created = append(r.created, message)
	return nil
}
func (r *fakeChatMessageRepo) Update(ctx context.Context, message *entity.ChatMessage) error {
	return nil
}
func (r *fakeChatMessageRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeChatMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}
func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return nil, nil
}
func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeChatMessageRepo) FindLatestByChatId(ctx context.Context, chatId uuid.UUID) (*entity.ChatMessage, error) {
	return r.latest, nil
}
func (r *fakeChatMessageRepo) UpdateAllThresholds(ctx context.Context, chatId uuid.UUID, threshold float64) (int64, error) {
	r.lastThreshold = threshold
	return r.thresholdRows, nil
}
func (r *fakeChatMessageRepo) DeleteByChatId(ctx context.Context, chatId uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *fakeChatMessageRepo) ListSummaries(ctx context.Context) ([]*contract.ChatSummary, error) {
	return r.summaries, nil
}

type fakeUow struct {
	chatRepo *fakeChatMessageRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.chatRepo
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository           { return nil }
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeRetrievalService struct {
	probe *retrieval.ProbeResult
}

func (f *fakeRetrievalService) Probe(ctx context.Context, chatId uuid.UUID, question string) (*retrieval.ProbeResult, error) {
	return f.probe, nil
}

func (f *fakeRetrievalService) Retriever(chatId uuid.UUID, queryEmbedding []float32) composer.DocumentRetriever {
	return staticRetriever("the document says blue")
}

type staticRetriever string

func (r staticRetriever) Answer(ctx context.Context, question string) (string, error) {
	return string(r), nil
}

type fakeSearcher struct{}

func (fakeSearcher) Search(ctx context.Context, question string) (string, error) {
	return "web result", nil
}

type fakeComposer struct {
	invoked  bool
	decision router.Decision
	answer   *composer.ComposedAnswer
}

func (f *fakeComposer) Compose(ctx context.Context, question string, retriever composer.DocumentRetriever, searcher composer.WebSearcher, decision router.Decision) (*composer.ComposedAnswer, error) {
	f.invoked = true
	f.decision = decision
	return f.answer, nil
}

// --- Helpers ---

func newTestQueryService(probe *retrieval.ProbeResult, comp *fakeComposer, latest *entity.ChatMessage) (IQueryService, *fakeChatMessageRepo) {
	repo := &fakeChatMessageRepo{latest: latest}
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: repo}}
	policy := router.NewPolicy(router.NewLexiconDetector(), 0.8, 0.7)

	svc := NewQueryService(
		factory,
		&fakeRetrievalService{probe: probe},
		policy,
		comp,
		fakeSearcher{},
		nil,
		0.3,
		nopLogger{},
	)
	return svc, repo
}

func floatPtr(v float64) *float64 { return &v }

// --- Tests ---

func TestQueryRefusesWithoutInvokingComposer(t *testing.T) {
	// Gate failed, web search disabled: the request must short-circuit
	probe := &retrieval.ProbeResult{Distance: 0.9, Found: true}
	comp := &fakeComposer{}
	svc, repo := newTestQueryService(probe, comp, nil)

	req := &dto.QueryRequest{ChatId: uuid.New(), Question: "what color is the sky"}
	res, err := svc.Query(context.Background(), req, floatPtr(0.5), false)

	require.NoError(t, err)
	assert.False(t, comp.invoked, "composer must not run on a refused query")
	assert.False(t, res.WebSearchUsed)
	assert.Contains(t, res.Answer, "Similarity: 0.900")
	assert.Contains(t, res.Answer, "Threshold: 0.5")

	require.Len(t, repo.created, 1)
	assert.Equal(t, res.Answer, repo.created[0].Answer)
	assert.False(t, repo.created[0].WebSearchUsed)
}

func TestQueryAnswersFromDocumentWhenGatePasses(t *testing.T) {
	probe := &retrieval.ProbeResult{Distance: 0.4, Found: true}
	comp := &fakeComposer{answer: &composer.ComposedAnswer{
		Text:    "📄 From the document: blue",
		Sources: []composer.Source{composer.SourceDocument},
	}}
	svc, repo := newTestQueryService(probe, comp, nil)

	req := &dto.QueryRequest{ChatId: uuid.New(), Question: "what color is the sky"}
	res, err := svc.Query(context.Background(), req, floatPtr(0.5), false)

	require.NoError(t, err)
	assert.True(t, comp.invoked)
	assert.False(t, comp.decision.UseWebFallback)
	assert.Equal(t, "📄 From the document: blue", res.Answer)
	assert.False(t, res.WebSearchUsed)
	assert.Equal(t, 0.5, res.Threshold)

	require.Len(t, repo.created, 1)
	assert.Equal(t, 0.4, *repo.created[0].Distance)
}

func TestQueryRecencyTriggersWebFallback(t *testing.T) {
	probe := &retrieval.ProbeResult{Distance: 0.5, Found: true}
	reason := router.ReasonRecentInfo
	comp := &fakeComposer{answer: &composer.ComposedAnswer{
		Text:          "📄 From the document: old news\n\n🌐 From web search: fresh news",
		Sources:       []composer.Source{composer.SourceDocument, composer.SourceWeb},
		WebSearchUsed: true,
		Reason:        reason,
	}}
	svc, repo := newTestQueryService(probe, comp, nil)

	req := &dto.QueryRequest{ChatId: uuid.New(), Question: "what is the latest news"}
	res, err := svc.Query(context.Background(), req, floatPtr(0.4), true)

	require.NoError(t, err)
	assert.True(t, comp.invoked)
	assert.True(t, comp.decision.UseWebFallback)
	assert.Equal(t, reason, comp.decision.Reason)
	assert.True(t, res.WebSearchUsed)
	require.NotNil(t, res.WebSearchReason)
	assert.Equal(t, reason, *res.WebSearchReason)

	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].WebSearchUsed)
	require.NotNil(t, repo.created[0].WebSearchReason)
}

func TestQueryOffTopicRecencyRefuses(t *testing.T) {
	// Time-sensitive question but far from the document: no fallback even
	// with web search enabled
	probe := &retrieval.ProbeResult{Distance: 0.85, Found: true}
	comp := &fakeComposer{}
	svc, _ := newTestQueryService(probe, comp, nil)

	req := &dto.QueryRequest{ChatId: uuid.New(), Question: "latest stock prices"}
	res, err := svc.Query(context.Background(), req, floatPtr(0.5), true)

	require.NoError(t, err)
	assert.False(t, comp.invoked)
	assert.False(t, res.WebSearchUsed)
	require.NotNil(t, res.WebSearchReason)
	assert.Equal(t, router.ReasonNotRelevant, *res.WebSearchReason)
}

func TestQueryThresholdResolution(t *testing.T) {
	chatId := uuid.New()

	t.Run("explicit threshold wins over stored", func(t *testing.T) {
		probe := &retrieval.ProbeResult{Distance: 0.9, Found: true}
		latest := &entity.ChatMessage{ChatId: chatId, Threshold: 0.95}
		svc, _ := newTestQueryService(probe, &fakeComposer{}, latest)

		res, err := svc.Query(context.Background(), &dto.QueryRequest{ChatId: chatId, Question: "q"}, floatPtr(0.2), false)
		require.NoError(t, err)
		assert.Equal(t, 0.2, res.Threshold)
	})

	t.Run("stored threshold used when no explicit one", func(t *testing.T) {
		probe := &retrieval.ProbeResult{Distance: 0.1, Found: true}
		latest := &entity.ChatMessage{ChatId: chatId, Threshold: 0.95}
		comp := &fakeComposer{answer: &composer.ComposedAnswer{Text: "ok"}}
		svc, _ := newTestQueryService(probe, comp, latest)

		res, err := svc.Query(context.Background(), &dto.QueryRequest{ChatId: chatId, Question: "q"}, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 0.95, res.Threshold)
	})

	t.Run("default threshold for a fresh chat", func(t *testing.T) {
		probe := &retrieval.ProbeResult{Distance: 0.1, Found: true}
		comp := &fakeComposer{answer: &composer.ComposedAnswer{Text: "ok"}}
		svc, _ := newTestQueryService(probe, comp, nil)

		res, err := svc.Query(context.Background(), &dto.QueryRequest{ChatId: chatId, Question: "q"}, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 0.3, res.Threshold)
	})
}

func TestQueryMissingSearcherDisablesWebFallback(t *testing.T) {
	// use_web_search=true but no searcher configured: the decision must not
	// promise a fallback the service cannot perform
	probe := &retrieval.ProbeResult{Distance: 0.5, Found: true}
	comp := &fakeComposer{}
	repo := &fakeChatMessageRepo{}
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: repo}}
	policy := router.NewPolicy(router.NewLexiconDetector(), 0.8, 0.7)

	svc := NewQueryService(factory, &fakeRetrievalService{probe: probe}, policy, comp, nil, nil, 0.3, nopLogger{})

	req := &dto.QueryRequest{ChatId: uuid.New(), Question: "what color is the sky"}
	res, err := svc.Query(context.Background(), req, floatPtr(0.3), true)

	require.NoError(t, err)
	assert.False(t, comp.invoked, "composer must not run without a searcher")
	assert.False(t, res.WebSearchUsed)
	assert.Nil(t, res.WebSearchReason)
}

func TestQueryAnswersSoftlyWhenChatHasNoDocuments(t *testing.T) {
	probe := &retrieval.ProbeResult{Found: false}
	comp := &fakeComposer{}
	svc, repo := newTestQueryService(probe, comp, nil)

	res, err := svc.Query(context.Background(), &dto.QueryRequest{ChatId: uuid.New(), Question: "q"}, nil, false)

	require.NoError(t, err)
	assert.False(t, comp.invoked)
	assert.True(t, strings.Contains(res.Answer, "No documents have been indexed"))
	assert.Nil(t, res.Distance)
	assert.Equal(t, 0.3, res.Threshold)
	assert.Empty(t, repo.created)
}
