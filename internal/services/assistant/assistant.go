// Package assistant forwards natural-language queries about the transaction
// set to an OpenAI-compatible chat-completion endpoint and returns the
// completion text verbatim.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"txview/internal/models"
)

// systemPrompt instructs the model on the expected answer shape. The reply is
// displayed as-is; nothing validates that the model followed it.
const systemPrompt = "You are a financial assistant. The user will ask you about specific bank transactions. " +
	"Each transaction has: Date, Description, Category, Type (Income/Expense), and Amount. " +
	"Respond by listing only matching transactions in a markdown bullet list like:\n" +
	"- 2025-03-04 | 💰 Income | Transfer from Dad: +783.33€"

// temperature favors deterministic, factual completions
const temperature = 0.2

// Service is a thin client over the chat-completion endpoint
type Service struct {
	client *openai.Client
	model  string
}

// New creates an assistant Service. baseURL points at an OpenAI-compatible
// API; timeout bounds the whole HTTP exchange so a hung endpoint cannot
// block a render cycle forever.
func New(baseURL, apiKey, model string, timeout time.Duration) *Service {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Service{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// APIError is returned when the endpoint answers with a non-200 status
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistant API failed: %d - %s", e.StatusCode, e.Detail)
}

// Query sends the user query plus the full transaction set (never the
// filtered view) and returns the completion text verbatim.
func (s *Service) Query(ctx context.Context, query string, ts *models.TransactionSet) (string, error) {
	sample, err := json.Marshal(ts.Records())
	if err != nil {
		return "", fmt.Errorf("serializing transactions: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Query: %s\nTransactions:\n%s", query, sample)},
		},
		Temperature: temperature,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{StatusCode: apiErr.HTTPStatusCode, Detail: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &APIError{StatusCode: reqErr.HTTPStatusCode, Detail: reqErr.Error()}
		}
		return "", fmt.Errorf("assistant request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("assistant response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
