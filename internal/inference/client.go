package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lsm1103/ArenaAI/internal/transcript"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// Config holds the connection settings for the model server hosting the
// VAD, speaker-verification, and ASR models.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	MaxRetries     int
}

// Client calls the model server over HTTP. Calls are blocking and
// synchronous; retries with exponential backoff happen at this boundary so
// the core never sees transient transport failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *logger.Logger
}

// NewClient creates a model-server client.
func NewClient(config Config, logger *logger.Logger) *Client {
	timeout := 120 * time.Second
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		baseURL:    config.BaseURL,
		maxRetries: maxRetries,
		logger:     logger.Named("inference-client"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type segmentRequest struct {
	AudioPath string `json:"audio_path"`
}

type segmentResponse struct {
	Segments []struct {
		StartMS int64 `json:"start_ms"`
		EndMS   int64 `json:"end_ms"`
	} `json:"segments"`
}

// Segment asks the VAD model for speech-activity spans in the audio file.
func (c *Client) Segment(ctx context.Context, audioPath string) ([]transcript.Span, error) {
	var resp segmentResponse
	if err := c.post(ctx, "/v1/segment", segmentRequest{AudioPath: audioPath}, &resp); err != nil {
		return nil, fmt.Errorf("failed to segment audio: %w", err)
	}

	spans := make([]transcript.Span, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		spans = append(spans, transcript.Span{
			AudioPath: audioPath,
			StartMS:   seg.StartMS,
			EndMS:     seg.EndMS,
		})
	}

	c.logger.Debug("Segmented audio",
		logger.String("audio_path", audioPath),
		logger.Int("segments", len(spans)))

	return spans, nil
}

type spanRequest struct {
	AudioPath string `json:"audio_path"`
	StartMS   int64  `json:"start_ms"`
	EndMS     int64  `json:"end_ms"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed extracts the speaker embedding of one span.
func (c *Client) Embed(ctx context.Context, span transcript.Span) ([]float64, error) {
	var resp embedResponse
	if err := c.post(ctx, "/v1/embedding", spanRequest{
		AudioPath: span.AudioPath,
		StartMS:   span.StartMS,
		EndMS:     span.EndMS,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to extract embedding: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("model server returned an empty embedding")
	}
	return resp.Embedding, nil
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe recognizes the spoken text of one span.
func (c *Client) Transcribe(ctx context.Context, span transcript.Span) (string, error) {
	var resp transcribeResponse
	if err := c.post(ctx, "/v1/transcribe", spanRequest{
		AudioPath: span.AudioPath,
		StartMS:   span.StartMS,
		EndMS:     span.EndMS,
	}, &resp); err != nil {
		return "", fmt.Errorf("failed to transcribe segment: %w", err)
	}
	return resp.Text, nil
}

// post sends a JSON request and decodes the JSON response, retrying
// transient failures with exponential backoff.
func (c *Client) post(ctx context.Context, path string, request, response any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path
	retryDelay := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying model server request",
				logger.String("url", url),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.maxRetries),
				logger.Error(lastErr))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
				retryDelay *= 2
			}
		}

		lastErr = c.doPost(ctx, url, payload, response)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("model server request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doPost(ctx context.Context, url string, payload []byte, response any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Ensure the client satisfies the collaborator interfaces.
var (
	_ transcript.Segmenter   = (*Client)(nil)
	_ transcript.Embedder    = (*Client)(nil)
	_ transcript.Transcriber = (*Client)(nil)
)
