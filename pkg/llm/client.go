package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

const completionsPath = "/openai/v1/chat/completions"

// Client is a minimal chat-completions client; one prompt in, one
// message out. That's all the pipeline needs.
type Client interface {
	// Complete sends the prompt and returns the model's message content.
	// ErrEmptyResponse if the model returns nothing. With jsonMode the
	// service is asked for a JSON object response.
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

type httpClient struct {
	opts *Options
	key  string
	cli  *http.Client
}

func New(opts *Options) (Client, error) {
	opts.SetDefaults()
	return &httpClient{
		opts: opts,
		key:  os.Getenv(opts.APIKeyEnvVar),
		cli:  &http.Client{Timeout: opts.Timeout},
	}, nil
}

type completionRequest struct {
	Model          string              `json:"model"`
	Messages       []completionMessage `json:"messages"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (c *httpClient) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	in := &completionRequest{
		Model:    c.opts.Model,
		Messages: []completionMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		in.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(in)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cli.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion service returned %d: %s", resp.StatusCode, string(detail))
	}

	out := &completionResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}
