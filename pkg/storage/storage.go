package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

const (
	defaultAPIKeyEnvVar = "STORAGE_API_KEY"
	defaultTimeout      = 5 * time.Minute // uploads are whole videos
)

// Upload is the result of storing one artifact.
type Upload struct {
	URL string `json:"secure_url"`
}

// Client stores final artifacts (merged interviews, candidate recordings)
// in object storage and hands back their public url.
type Client interface {
	Upload(ctx context.Context, path, folder string) (*Upload, error)
}

// Options are options for the storage client.
type Options struct {
	// URL is the upload endpoint.
	URL string

	// APIKeyEnvVar is the environment variable holding the api key.
	// Defaults to "STORAGE_API_KEY".
	APIKeyEnvVar string

	// Timeout per upload.
	Timeout time.Duration
}

func (o *Options) SetDefaults() {
	if o.APIKeyEnvVar == "" {
		o.APIKeyEnvVar = defaultAPIKeyEnvVar
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
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

// Upload streams the file as multipart form data. Failures wrap
// ErrUploadFailed so the orchestrator can name the stage that died.
func (c *httpClient) Upload(ctx context.Context, path, folder string) (*Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.WriteField("folder", folder)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, pr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: storage returned %d: %s", errors.ErrUploadFailed, resp.StatusCode, string(detail))
	}

	out := &Upload{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUploadFailed, err)
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%w: storage returned no url", errors.ErrUploadFailed)
	}
	return out, nil
}
