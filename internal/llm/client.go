// Package llm talks to the text-generation backend. The pipeline only sees
// the Client interface; the concrete client targets a HuggingFace
// text-generation-inference server.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is the completion capability: one templated prompt in, unstructured
// text out. A single shared instance is injected into the pipeline so tests
// can substitute a stub.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrNotConfigured = errors.New("inference server url not set")

// TGIConfig holds connection settings for the inference server.
type TGIConfig struct {
	BaseURL string
	Timeout time.Duration // per completion call, including retries
}

// TGIClient calls a text-generation-inference /generate endpoint.
type TGIClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewTGIClient(cfg TGIConfig) *TGIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TGIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	TopK              int     `json:"top_k"`
	TopP              float64 `json:"top_p"`
	TypicalP          float64 `json:"typical_p"`
	Temperature       float64 `json:"temperature"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Complete sends one generation request, retrying transport errors and
// server-side failures with exponential backoff. Client-side errors (4xx)
// are permanent.
func (c *TGIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens:      512,
			TopK:              10,
			TopP:              0.95,
			TypicalP:          0.95,
			Temperature:       0.1,
			RepetitionPenalty: 1.175,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var out string
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("inference server error %d: %s", resp.StatusCode, respBody)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("inference request rejected %d: %s", resp.StatusCode, respBody))
		}

		var parsed generateResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			// some TGI deployments answer with a single-element array
			var list []generateResponse
			if err2 := json.Unmarshal(respBody, &list); err2 != nil || len(list) == 0 {
				return backoff.Permanent(fmt.Errorf("unexpected inference response: %s", respBody))
			}
			parsed = list[0]
		}
		out = parsed.GeneratedText
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.timeout
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	return out, nil
}
