package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

const apiKeyHeader = "ganos-api-key"

// Client is a thin, stateless wrapper over the avatar render service.
// It submits one clip at a time and fetches the service's full job list;
// filtering & completeness checks belong to the caller.
type Client interface {
	// Submit one text-to-avatar-video render. Returns the service's job
	// handle; ErrSubmissionRejected if the service hands none back.
	Submit(ctx context.Context, avatarID, title, text string) (string, error)

	// List returns the service's current render jobs (not ordered).
	List(ctx context.Context) ([]*structs.Inference, error)

	// Avatars returns the presenters available to render with.
	Avatars(ctx context.Context) ([]*structs.Avatar, error)
}

type httpClient struct {
	opts *Options
	key  string
	cli  *http.Client
}

// New returns a render service client configured once at startup;
// pass it around, don't rebuild it per call.
func New(opts *Options) (Client, error) {
	opts.SetDefaults()
	return &httpClient{
		opts: opts,
		key:  os.Getenv(opts.APIKeyEnvVar),
		cli:  &http.Client{Timeout: opts.Timeout},
	}, nil
}

type submitRequest struct {
	AvatarID string `json:"avatar_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

type submitResponse struct {
	InferenceID string `json:"inference_id"`
}

func (c *httpClient) Submit(ctx context.Context, avatarID, title, text string) (string, error) {
	body, err := json.Marshal(&submitRequest{AvatarID: avatarID, Title: title, Text: text})
	if err != nil {
		return "", err
	}

	out := &submitResponse{}
	err = c.do(ctx, http.MethodPost, "/v1/avatars/create_video", bytes.NewReader(body), out)
	if err != nil {
		return "", err
	}
	if out.InferenceID == "" {
		return "", fmt.Errorf("%w for avatar %s: no inference id returned", errors.ErrSubmissionRejected, avatarID)
	}
	return out.InferenceID, nil
}

type listResponse struct {
	Data []*structs.Inference `json:"data"`
}

func (c *httpClient) List(ctx context.Context) ([]*structs.Inference, error) {
	out := &listResponse{}
	err := c.do(ctx, http.MethodGet, "/v1/avatars/list_inferences", nil, out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

type avatarsResponse struct {
	AvatarsList []*structs.Avatar `json:"avatars_list"`
}

func (c *httpClient) Avatars(ctx context.Context) ([]*structs.Avatar, error) {
	out := &avatarsResponse{}
	err := c.do(ctx, http.MethodGet, "/v1/avatars/list", nil, out)
	if err != nil {
		return nil, err
	}
	return out.AvatarsList, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.opts.URL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("render service returned %d: %s", resp.StatusCode, string(detail))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
