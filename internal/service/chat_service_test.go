package service

import (
	"context"
	"testing"
	"time"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/entity"
	"doc-qa-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService(repo *fakeChatMessageRepo) IChatService {
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: repo}}
	return NewChatService(factory, 0.5)
}

func TestChatCreateSeedsFirstMessage(t *testing.T) {
	repo := &fakeChatMessageRepo{}
	svc := newTestChatService(repo)

	res, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ChatId)

	require.Len(t, repo.created, 1)
	seed := repo.created[0]
	assert.Equal(t, res.ChatId, seed.ChatId)
	assert.Equal(t, "Chat started", seed.Question)
	assert.Equal(t, 0.5, seed.Threshold)
}

func TestChatGetAllCarriesLatestExchange(t *testing.T) {
	chatId := uuid.New()
	lastActivity := time.Now()
	repo := &fakeChatMessageRepo{summaries: []*contract.ChatSummary{{
		ChatId:         chatId,
		MessageCount:   3,
		LastActivity:   lastActivity,
		LatestQuestion: "what changed in v2",
		LatestAnswer:   "📄 From the document: the retry policy",
	}}}
	svc := newTestChatService(repo)

	res, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, chatId, res[0].ChatId)
	assert.Equal(t, int64(3), res[0].MessageCount)
	assert.Equal(t, lastActivity, res[0].LastActivity)
	assert.Equal(t, "what changed in v2", res[0].LatestQuestion)
	assert.Equal(t, "📄 From the document: the retry policy", res[0].LatestAnswer)
}

func TestChatGetThresholdDefaultsForFreshChat(t *testing.T) {
	svc := newTestChatService(&fakeChatMessageRepo{})

	res, err := svc.GetThreshold(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Threshold)
	assert.True(t, res.IsDefault)
}

func TestChatGetThresholdUsesStoredValue(t *testing.T) {
	repo := &fakeChatMessageRepo{latest: &entity.ChatMessage{Threshold: 0.72}}
	svc := newTestChatService(repo)

	res, err := svc.GetThreshold(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0.72, res.Threshold)
	assert.False(t, res.IsDefault)
}

func TestChatUpdateThreshold(t *testing.T) {
	t.Run("updates every message", func(t *testing.T) {
		repo := &fakeChatMessageRepo{thresholdRows: 7}
		svc := newTestChatService(repo)

		res, err := svc.UpdateThreshold(context.Background(), uuid.New(), &dto.UpdateThresholdRequest{
			Threshold: floatPtr(0.65),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), res.UpdatedCount)
		assert.Equal(t, 0.65, res.Threshold)
		assert.Equal(t, 0.65, repo.lastThreshold)
	})

	t.Run("unknown chat reports zero updates", func(t *testing.T) {
		repo := &fakeChatMessageRepo{thresholdRows: 0}
		svc := newTestChatService(repo)

		res, err := svc.UpdateThreshold(context.Background(), uuid.New(), &dto.UpdateThresholdRequest{
			Threshold: floatPtr(0.65),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.UpdatedCount)
		assert.Equal(t, 0.65, res.Threshold)
	})
}
