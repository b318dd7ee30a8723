// Package refine is an optional textual finishing pass: it sends the locally
// generated narrative to an OpenAI-compatible endpoint and returns a polished
// rewrite. The engine never depends on it — any failure here means the caller
// keeps the deterministic narrative unchanged.
package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DevOpsVX/volxo-backend/internal/config"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("refiner disabled")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Refiner struct {
	c   HTTPClient
	cfg config.RefinerConfig
	log *slog.Logger
}

func New(cfg config.RefinerConfig, log *slog.Logger) *Refiner {
	return &Refiner{
		c:   &http.Client{Timeout: cfg.Timeout},
		cfg: cfg,
		log: log,
	}
}

// NewWithClient exists for tests.
func NewWithClient(cfg config.RefinerConfig, c HTTPClient, log *slog.Logger) *Refiner {
	return &Refiner{c: c, cfg: cfg, log: log}
}

const systemPrompt = "Você é um analista sênior de dados de performance e gestor de tráfego (Meta/Google), " +
	"também com forte skill de copywriting. Reescreva o relatório mantendo todos os números exatamente como estão, " +
	"em português do Brasil, otimista, claro e didático, voltado ao cliente final (não técnico)."

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Polish rewrites the narrative. Three attempts with exponential backoff;
// any non-2xx is treated as retryable, and the final error is the caller's
// cue to fall back to the local text.
func (r *Refiner) Polish(ctx context.Context, narrative string) (string, error) {
	if r.cfg.APIKey == "" {
		return "", ErrDisabled
	}

	body, err := json.Marshal(chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: narrative},
		},
		Temperature: 0.4,
		MaxTokens:   900,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(1<<i) * 200 * time.Millisecond):
			}
		}
		text, err := r.post(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	r.log.Warn("refiner gave up, keeping local narrative", slog.String("err", lastErr.Error()))
	return "", lastErr
}

func (r *Refiner) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}
	return cr.Choices[0].Message.Content, nil
}
