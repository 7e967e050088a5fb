package translator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	model  string
	client *openai.Client
}

func newOpenAIClient(apiKey, model, base string, httpClient *http.Client) (*openAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key not found (set OPENAI_API_KEY or translate.api_key)")
	}
	cfg := openai.DefaultConfig(apiKey)
	if base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	cfg.HTTPClient = httpClient
	return &openAIClient{model: model, client: openai.NewClientWithConfig(cfg)}, nil
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

// Translate streams the completion and assembles the deltas before returning.
func (c *openAIClient) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildTranslatePrompt(req)},
		},
		Temperature: 0.1,
		TopP:        0.95,
		Stream:      true,
	})
	if err != nil {
		return Result{}, c.wrap(err)
	}
	defer stream.Close()

	var out strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, c.wrap(err)
		}
		for _, choice := range chunk.Choices {
			out.WriteString(choice.Delta.Content)
		}
	}
	return finish(c.Name(), req, out.String())
}

func (c *openAIClient) wrap(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newError(c.Name(), apiErr.HTTPStatusCode, err, "openai API error")
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newError(c.Name(), reqErr.HTTPStatusCode, err, "openai request error")
	}
	return newError(c.Name(), 0, err, "request failed")
}
