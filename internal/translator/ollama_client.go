package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	raw, err := c.generate(ctx, buildTranslatePrompt(req))
	if err != nil {
		return Result{}, err
	}
	return finish(c.Name(), req, raw)
}

func (c *ollamaClient) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"system": systemPrompt,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.1,
		},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", newError(c.Name(), 0, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", newError(c.Name(), 0, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newError(c.Name(), 0, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(c.Name(), resp.StatusCode, err, "read response")
	}
	if resp.StatusCode >= 400 {
		return "", newError(c.Name(), resp.StatusCode, nil, "ollama API error: %s", strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", newError(c.Name(), resp.StatusCode, err, "decode response")
	}
	return parsed.Response, nil
}
