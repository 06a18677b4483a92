// Package proposal asks a Dify chat app for the hair care proposal that
// closes the message. Generation failures degrade to fixed texts and never
// abort composition.
package proposal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"reviewmsg/pkg/logger"
)

const (
	DefaultAPIURL     = "https://api.dify.ai/v1/chat-messages"
	PlaceholderAPIKey = "key-placeholder"
	DefaultTimeout    = 90 * time.Second

	DemoProposal      = "（デモ）お客様の髪質は柔らかめですので、今のトリートメントを継続することで美しい色味を長く楽しめます。次回は少し早めのメンテナンスがおすすめです！"
	GenerationFailed  = "（AI提案文の生成に失敗しました。手動で入力してください。）"
	GenerationErrored = "（エラーが発生しました。申し訳ありません。）"

	defaultUser          = "app-user"
	responseModeBlocking = "blocking"
)

type chatRequest struct {
	Inputs       map[string]any `json:"inputs"`
	Query        string         `json:"query"`
	ResponseMode string         `json:"response_mode"`
	User         string         `json:"user"`
	Files        []any          `json:"files"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiURL, apiKey string, httpClient *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{apiURL: apiURL, apiKey: apiKey, httpClient: httpClient}
}

// Enabled reports whether a real API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.apiKey != PlaceholderAPIKey
}

// Generate returns the proposal for query. It always returns usable text.
func (c *Client) Generate(ctx context.Context, query string) string {
	if !c.Enabled() {
		return DemoProposal
	}

	answer, status, err := c.call(ctx, query)
	if err != nil {
		logger.Error().Err(err).Msg("Error calling Dify API")
		return GenerationErrored
	}
	if status != http.StatusOK {
		logger.Error().Int("status", status).Msg("Dify API Error")
		return GenerationFailed
	}
	return answer
}

func (c *Client) call(ctx context.Context, query string) (string, int, error) {
	body, err := json.Marshal(chatRequest{
		Inputs:       map[string]any{},
		Query:        query,
		ResponseMode: responseModeBlocking,
		User:         defaultUser,
		Files:        []any{},
	})
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return "", resp.StatusCode, nil
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode answer: %w", err)
	}
	return out.Answer, resp.StatusCode, nil
}
