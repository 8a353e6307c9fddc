package events

import "time"

const (
	TypeQueryAnswered    = "QUERY_ANSWERED"
	TypeQueryRefused     = "QUERY_REFUSED"
	TypeDocumentIngested = "DOCUMENT_INGESTED"
)

// NewQueryAnswered is emitted after a question was answered and persisted.
func NewQueryAnswered(chatId, question string, distance, threshold float64, webSearchUsed bool) Event {
	return BaseEvent{
		Type: TypeQueryAnswered,
		Data: map[string]interface{}{
			"chat_id":         chatId,
			"question":        question,
			"distance":        distance,
			"threshold":       threshold,
			"web_search_used": webSearchUsed,
		},
		OccurredAt: time.Now(),
	}
}

// NewQueryRefused is emitted when a question was rejected without composing an answer.
func NewQueryRefused(chatId, question, reason string, distance, threshold float64) Event {
	return BaseEvent{
		Type: TypeQueryRefused,
		Data: map[string]interface{}{
			"chat_id":   chatId,
			"question":  question,
			"reason":    reason,
			"distance":  distance,
			"threshold": threshold,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested is emitted after a document's chunks were embedded and stored.
func NewDocumentIngested(documentId, chatId, filename string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentId,
			"chat_id":     chatId,
			"filename":    filename,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
