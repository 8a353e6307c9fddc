package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultBaseURL = "https://api.dappier.com/app/aimodel"

// DappierClient implements Searcher against the Dappier real-time AI model API.
type DappierClient struct {
	ApiKey  string
	BaseURL string
	ModelId string
	Client  *http.Client
	cache   *cache.Cache
}

var _ Searcher = &DappierClient{}

func NewDappierClient(apiKey, modelId string) *DappierClient {
	if modelId == "" {
		modelId = "am_01j06ytn18ejftedz6dyhz2b15"
	}
	return &DappierClient{
		ApiKey:  apiKey,
		BaseURL: defaultBaseURL,
		ModelId: modelId,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Identical questions within a short window hit the cache instead of the API
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

type dappierRequest struct {
	Query string `json:"query"`
}

// Dappier responses are not stable across model versions, the answer may
// arrive under "message" or "response".
type dappierResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

func (r dappierResponse) text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Response
}

func (c *DappierClient) Search(ctx context.Context, question string) (string, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(question))
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	reqBody := dappierRequest{Query: question}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s", c.BaseURL, c.ModelId)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("dappier request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read dappier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dappier error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var dappierResp dappierResponse
	if err := json.Unmarshal(bodyBytes, &dappierResp); err != nil {
		return "", fmt.Errorf("unmarshal dappier response: %w", err)
	}

	result := strings.TrimSpace(dappierResp.text())
	if result != "" {
		c.cache.Set(cacheKey, result, cache.DefaultExpiration)
	}

	return result, nil
}
