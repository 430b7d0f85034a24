// Package client provides a one-shot HTTP helper for downstream applications
// that call the TTS gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway endpoints.
const (
	apiTTS      = "/api/tts"
	apiSpeakers = "/api/speakers"
	apiHealth   = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
)

// Static errors.
var (
	// ErrTextEmpty indicates an empty synthesis prompt.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrRemoteSynthesisFailed indicates a non-success gateway response. The
	// error body is logged into the message but not interpreted further.
	ErrRemoteSynthesisFailed = errors.New("remote synthesis failed")
	// ErrEmptyAudio indicates the gateway returned no audio bytes.
	ErrEmptyAudio = errors.New("received empty audio data")
)

// Client is a thin caller for the gateway's primary endpoints. It performs
// exactly one network call per method, with no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ttsRequest is the JSON payload for the primary synthesis endpoint.
type ttsRequest struct {
	Text       string `json:"text"`
	SpeakerID  string `json:"speaker_id,omitempty"`
	LanguageID string `json:"language_id,omitempty"`
}

// New creates a gateway client. The baseURL should include protocol and port
// (e.g. "http://localhost:5002"); the timeout applies to every request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TextToSpeech synthesizes text through the gateway's primary endpoint and
// returns the WAV bytes.
func (c *Client) TextToSpeech(ctx context.Context, text, speakerID, languageID string) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	requestBody, err := json.Marshal(ttsRequest{
		Text:       text,
		SpeakerID:  speakerID,
		LanguageID: languageID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiTTS,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gateway at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf(
			"%w: status %s, body: %s",
			ErrRemoteSynthesisFailed, resp.Status, string(body),
		)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// Speakers fetches the gateway's speaker catalog.
func (c *Client) Speakers(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiSpeakers, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create speakers request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch speakers from %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: speakers returned status %s", ErrRemoteSynthesisFailed, resp.Status)
	}

	var body struct {
		Speakers []string `json:"speakers"`
	}

	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode speakers response: %w", err)
	}

	return body.Speakers, nil
}

// HealthCheck verifies that the gateway is up. It does not distinguish
// healthy from degraded; /health answering at all means the process lives.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed for gateway at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}
