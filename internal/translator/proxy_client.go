package translator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ProxyPath is the route served by the translation proxy.
const ProxyPath = "/api/translate"

// StreamDone terminates a proxy event stream.
const StreamDone = "[DONE]"

// ProxyResponse is the JSON body of a non-streaming proxy reply.
type ProxyResponse struct {
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// StreamChunk is one event of a streaming proxy reply.
type StreamChunk struct {
	Chunk string `json:"chunk,omitempty"`
	Error string `json:"error,omitempty"`
}

// proxyClient talks to a server implementing POST /api/translate, either the
// bundled `serve` command or a compatible deployment.
type proxyClient struct {
	base   string
	client *http.Client
}

func (c *proxyClient) Name() string {
	return fmt.Sprintf("Proxy (%s)", c.base)
}

func (c *proxyClient) Translate(ctx context.Context, req Request) (Result, error) {
	if err := validate(c.Name(), req); err != nil {
		return Result{}, err
	}
	buf, err := json.Marshal(req)
	if err != nil {
		return Result{}, newError(c.Name(), 0, err, "encode request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+ProxyPath, bytes.NewReader(buf))
	if err != nil {
		return Result{}, newError(c.Name(), 0, err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream, application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Result{}, newError(c.Name(), 0, err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var parsed ProxyResponse
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			message = parsed.Error
		}
		return Result{}, newError(c.Name(), resp.StatusCode, nil, "proxy error: %s", message)
	}

	var raw string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		raw, err = c.readStream(resp.Body)
	} else {
		raw, err = c.readJSON(resp.Body)
	}
	if err != nil {
		return Result{}, err
	}
	return finish(c.Name(), req, raw)
}

func (c *proxyClient) readJSON(body io.Reader) (string, error) {
	var parsed ProxyResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return "", newError(c.Name(), http.StatusOK, err, "decode response")
	}
	if parsed.Error != "" {
		return "", newError(c.Name(), http.StatusOK, nil, "proxy error: %s", parsed.Error)
	}
	return parsed.Translation, nil
}

// readStream assembles `data: {"chunk": ...}` events until the [DONE] marker.
// A stream that ends without the marker is treated as truncated.
func (c *proxyClient) readStream(body io.Reader) (string, error) {
	var out strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == StreamDone {
			return out.String(), nil
		}
		var chunk StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", newError(c.Name(), http.StatusOK, err, "decode stream chunk")
		}
		if chunk.Error != "" {
			return "", newError(c.Name(), http.StatusOK, nil, "proxy error: %s", chunk.Error)
		}
		out.WriteString(chunk.Chunk)
	}
	if err := scanner.Err(); err != nil {
		return "", newError(c.Name(), 0, err, "read stream")
	}
	return "", newError(c.Name(), 0, io.ErrUnexpectedEOF, "stream ended before %s", StreamDone)
}
