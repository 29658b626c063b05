// Package kokoro provides a synthesis pipeline backed by a Kokoro-FastAPI
// server (OpenAI-compatible /v1/audio/speech API).
package kokoro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/sentence"
)

const (
	defaultURL      = "http://localhost:8880"
	defaultModel    = "kokoro"
	defaultMaxChars = 400

	speechPath = "/v1/audio/speech"
	modelsPath = "/v1/models"
)

// APIError is returned when the server answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("kokoro server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("kokoro server returned status %d: %s", e.StatusCode, body)
}

type speechRequest struct {
	Model    string  `json:"model"`
	Input    string  `json:"input"`
	Voice    string  `json:"voice"`
	Format   string  `json:"response_format"`
	Speed    float64 `json:"speed,omitempty"`
	LangCode string  `json:"lang_code,omitempty"`
	Stream   bool    `json:"stream"`
}

// Engine synthesizes speech one text segment per HTTP request.
type Engine struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	splitter   *sentence.Splitter
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the default client, which has a 60 second timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default client. A client
// given with WithHTTPClient keeps its own timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRateLimit caps the request rate to perSecond requests. Zero disables
// pacing.
func WithRateLimit(perSecond float64) Option {
	return func(e *Engine) {
		if perSecond > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			e.limiter = rate.NewLimiter(rate.Inf, 0)
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(e *Engine) { e.apiKey = key }
}

// WithModel sets the model name sent with every request.
func WithModel(model string) Option {
	return func(e *Engine) {
		if model != "" {
			e.model = model
		}
	}
}

// WithMaxChars sets the segment size used to cut the input text.
func WithMaxChars(n int) Option {
	return func(e *Engine) { e.splitter = sentence.New(n) }
}

// New creates a Kokoro engine talking to baseURL, or to
// http://localhost:8880 when baseURL is empty.
func New(baseURL string, opts ...Option) *Engine {
	if baseURL == "" {
		baseURL = defaultURL
	}

	e := &Engine{
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    defaultModel,
		timeout:  60 * time.Second,
		limiter:  rate.NewLimiter(rate.Inf, 0),
		splitter: sentence.New(defaultMaxChars),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: e.timeout}
	}
	return e
}

// Name implements tts.Pipeline.
func (e *Engine) Name() string { return "kokoro" }

// SampleRate implements tts.Pipeline.
func (e *Engine) SampleRate() int { return tts.SampleRate }

// Generate implements tts.Pipeline. Each yielded segment is the audio for
// one chunk of req.Text; the sequence stops at the first failure.
func (e *Engine) Generate(ctx context.Context, req tts.Request) iter.Seq2[tts.Segment, error] {
	return func(yield func(tts.Segment, error) bool) {
		chunks := e.splitter.Split(req.Text)
		log.Debug("Kokoro request", "url", e.baseURL, "voice", req.Voice, "segments", len(chunks))

		for i, chunk := range chunks {
			if err := e.limiter.Wait(ctx); err != nil {
				yield(tts.Segment{}, err)
				return
			}

			samples, err := e.synthesize(ctx, chunk, req)
			if err != nil {
				yield(tts.Segment{}, fmt.Errorf("segment %d: %w", i+1, err))
				return
			}

			if !yield(tts.Segment{Index: i, Graphemes: chunk, Samples: samples}, nil) {
				return
			}
		}
	}
}

func (e *Engine) synthesize(ctx context.Context, text string, req tts.Request) ([]float32, error) {
	body, err := json.Marshal(speechRequest{
		Model:    e.model,
		Input:    text,
		Voice:    req.Voice,
		Format:   "pcm",
		Speed:    req.Speed,
		LangCode: req.Lang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+speechPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS audio: %w", err)
	}
	// Some servers pad odd-length streams; drop the dangling byte.
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}
	return tts.PCM16ToFloat32(pcm)
}

// IsAvailable checks if the Kokoro server is reachable.
func (e *Engine) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+modelsPath, nil)
	if err != nil {
		return false
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		log.Debug("Kokoro health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	available := resp.StatusCode == http.StatusOK
	log.Debug("Kokoro availability", "available", available, "status", resp.StatusCode)
	return available
}
