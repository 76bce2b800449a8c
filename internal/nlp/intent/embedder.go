package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"urja-assistant/internal/common/config"
	"urja-assistant/internal/common/httpclient"
)

var (
	ErrEmbeddingFailed  = errors.New("EMBEDDING_FAILED")
	ErrEmbeddingTimeout = errors.New("EMBEDDING_TIMEOUT")
)

// Encoder produces one L2-normalized embedding vector per input text.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// HTTPEncoder calls an OpenAI-compatible embedding service.
type HTTPEncoder struct {
	baseURL string
	model   string
	client  *httpclient.Client
}

func NewHTTPEncoder(cfg config.EmbeddingConfig) *HTTPEncoder {
	return &HTTPEncoder{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  httpclient.NewClient(cfg.HTTPTimeout()),
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *HTTPEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/embeddings", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= maxEncodeRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrEmbeddingTimeout
			}
		}

		resp, lastErr = e.client.DoWithContext(ctx, req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrEmbeddingTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, lastErr)
	}
	defer resp.Body.Close()

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrEmbeddingFailed, err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(parsed.Data), len(texts))
	}

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vectors[i] = normalizeVector(d.Embedding)
	}
	return vectors, nil
}

const maxEncodeRetries = 2

// normalizeVector rescales v to unit length so inner products equal cosine
// similarity. Zero vectors are returned untouched.
func normalizeVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1.0 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
