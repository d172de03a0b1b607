package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client defines the interface for AI text generation.
type Client interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
}

type openAIClient struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a configured OpenAI chat completions client.
func NewClient(apiKey, model string) Client {
	client := resty.New().
		SetAuthToken(apiKey).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &openAIClient{httpClient: client, model: model}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatCompletion sends one system+user exchange and returns the assistant
// reply text.
func (c *openAIClient) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var respBody chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(apiURL)
	if err != nil {
		return "", fmt.Errorf("openai api call: %w", err)
	}
	if resp.IsError() {
		if respBody.Error != nil {
			return "", fmt.Errorf("openai api error: %s", respBody.Error.Message)
		}
		return "", fmt.Errorf("openai api error: %s", resp.Status())
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return respBody.Choices[0].Message.Content, nil
}
