package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type geminiClient struct {
	model  string
	client *genai.Client
}

func newGeminiClient(ctx context.Context, apiKey, model, endpoint string, httpClient *http.Client) (*geminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key not found (set GEMINI_API_KEY or translate.api_key)")
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(endpoint, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &geminiClient{model: model, client: client}, nil
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

// Translate streams the response and concatenates the text of every chunk.
func (c *geminiClient) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		TopP:              genai.Ptr[float32](0.95),
	}
	var out strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(buildTranslatePrompt(req)), config) {
		if err != nil {
			return Result{}, newError(c.Name(), 0, err, "gemini API error")
		}
		out.WriteString(resp.Text())
	}
	return finish(c.Name(), req, out.String())
}
