// Package xapi implements deadline.Publisher against the X API v2.
package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/nakeddeadlines/deadline"
)

const (
	DefaultBaseURL = "https://api.x.com"

	// Files up to this size go through the single-request upload;
	// larger files use the chunked INIT/APPEND/FINALIZE flow.
	maxDirectUploadSize = 5 * 1024 * 1024
	defaultChunkSize    = 1024 * 1024
	defaultTimeout      = 30 * time.Second
)

type Publisher struct {
	baseURL   string
	client    *http.Client
	chunkSize int
}

var _ deadline.Publisher = (*Publisher)(nil)

func New(baseURL string, timeout time.Duration) *Publisher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Publisher{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		chunkSize: defaultChunkSize,
	}
}

// Publish uploads the image and posts it with the caption under the
// account the credential belongs to. Returns the created post ID.
func (p *Publisher) Publish(ctx context.Context, credential string, image *deadline.Image, caption string) (string, error) {
	var (
		mediaID string
		err     error
	)

	if len(image.Bytes) <= maxDirectUploadSize {
		mediaID, err = p.uploadDirect(ctx, credential, image)
	} else {
		mediaID, err = p.uploadChunked(ctx, credential, image)
	}
	if err != nil {
		return "", err
	}

	return p.createPost(ctx, credential, caption, mediaID)
}

// uploadDirect sends the whole file in one multipart request.
func (p *Publisher) uploadDirect(ctx context.Context, credential string, image *deadline.Image) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", fileName(image))
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	if _, err := part.Write(image.Bytes); err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	if err := writer.WriteField("media_category", "tweet_image"); err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/media/upload", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result struct {
		ID string `json:"id"`
	}
	if err := p.do(req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("%w: media upload returned no id", deadline.ErrPublishFailed)
	}

	return result.ID, nil
}

// uploadChunked runs the three-step chunked upload.
func (p *Publisher) uploadChunked(ctx context.Context, credential string, image *deadline.Image) (string, error) {
	mediaID, err := p.chunkInit(ctx, credential, image)
	if err != nil {
		return "", err
	}

	for i, segment := 0, 0; i < len(image.Bytes); i, segment = i+p.chunkSize, segment+1 {
		end := i + p.chunkSize
		if end > len(image.Bytes) {
			end = len(image.Bytes)
		}
		if err := p.chunkAppend(ctx, credential, mediaID, segment, image.Bytes[i:end], fileName(image)); err != nil {
			return "", err
		}
	}

	if err := p.chunkFinalize(ctx, credential, mediaID); err != nil {
		return "", err
	}

	return mediaID, nil
}

func (p *Publisher) chunkInit(ctx context.Context, credential string, image *deadline.Image) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"media_category": "tweet_image",
		"media_type":     image.ContentType,
		"total_bytes":    len(image.Bytes),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/2/media/upload/initialize", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		MediaID string `json:"media_id_string"`
	}
	if err := p.do(req, &result); err != nil {
		return "", err
	}
	if result.MediaID == "" {
		return "", fmt.Errorf("%w: chunked init returned no media id", deadline.ErrPublishFailed)
	}

	return result.MediaID, nil
}

func (p *Publisher) chunkAppend(ctx context.Context, credential, mediaID string, segment int, chunk []byte, name string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", name)
	if err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	if _, err := part.Write(chunk); err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}

	url := fmt.Sprintf("%s/2/media/upload/%s/append?segment_index=%d", p.baseURL, mediaID, segment)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// APPEND responds 204 No Content on success
	return p.do(req, nil)
}

func (p *Publisher) chunkFinalize(ctx context.Context, credential, mediaID string) error {
	url := fmt.Sprintf("%s/2/media/upload/%s/finalize", p.baseURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	return p.do(req, nil)
}

func (p *Publisher) createPost(ctx context.Context, credential, caption, mediaID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"text": caption,
		"media": map[string]any{
			"media_ids": []string{mediaID},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := p.do(req, &result); err != nil {
		return "", err
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("%w: post creation returned no id", deadline.ErrPublishFailed)
	}

	return result.Data.ID, nil
}

func (p *Publisher) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			deadline.ErrPublishFailed, req.Method, req.URL.Path, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", deadline.ErrPublishFailed, err)
	}
	return nil
}

func fileName(image *deadline.Image) string {
	if image.Name != "" {
		return image.Name
	}
	return "image"
}
