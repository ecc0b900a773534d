// Package transcribe fetches transcripts for audio recordings from an
// external transcription service: publish the recording, poll until the job
// finishes, download the text.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("transcription service url not set")

type jobResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		MediaID          string `json:"MediaId"`
		Status           string `json:"Status"` // Success, Queued, Processing, Failed
		TranscriptionURL string `json:"TranscriptionURL"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	pollLimit  time.Duration
	log        *logrus.Entry
}

func NewClient(baseURL string, log *logrus.Entry) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pollLimit:  2 * time.Minute,
		log:        log,
	}
}

// Transcript returns the text for one recording URL.
func (c *Client) Transcript(ctx context.Context, recordingURL string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}
	log := c.log.WithField("recording_url", recordingURL)

	mediaID, readyURL, err := c.publish(ctx, recordingURL)
	if err != nil {
		return "", err
	}
	if readyURL == "" {
		if readyURL, err = c.pollUntilDone(ctx, mediaID); err != nil {
			return "", err
		}
	}

	log.WithField("transcript_url", readyURL).Info("transcription ready")
	return c.download(ctx, readyURL)
}

func (c *Client) publish(ctx context.Context, recordingURL string) (mediaID, readyURL string, err error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("recordingLink", recordingURL)
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp jobResponse
	if err := c.doJSON(req, &resp); err != nil {
		return "", "", fmt.Errorf("publish recording: %w", err)
	}
	if resp.Data.MediaID == "" && resp.Data.TranscriptionURL == "" {
		return "", "", fmt.Errorf("publish rejected: %s", resp.Reason)
	}
	return resp.Data.MediaID, resp.Data.TranscriptionURL, nil
}

func (c *Client) pollUntilDone(ctx context.Context, mediaID string) (string, error) {
	var readyURL string
	operation := func() error {
		endpoint := fmt.Sprintf("%s/getstatus?mediaId=%s", c.baseURL, url.QueryEscape(mediaID))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		var resp jobResponse
		if err := c.doJSON(req, &resp); err != nil {
			return err
		}
		switch resp.Data.Status {
		case "Success":
			readyURL = resp.Data.TranscriptionURL
			return nil
		case "Failed":
			return backoff.Permanent(fmt.Errorf("transcription failed: %s", resp.Reason))
		default:
			return fmt.Errorf("transcription still %s", resp.Data.Status)
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxElapsedTime = c.pollLimit
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return readyURL, nil
}

func (c *Client) download(ctx context.Context, textURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download transcript: status %d", resp.StatusCode)
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("download transcript: %w", err)
	}
	return string(text), nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
