package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var ErrEmptyAdvice = errors.New("model returned no text")

// Advisor pede uma recomendação a um modelo generativo
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// GeminiClient chama o endpoint generateContent da API Gemini
type GeminiClient struct {
	client *resty.Client
	model  string
	apiKey string
}

var _ Advisor = (*GeminiClient)(nil)

// NewGeminiClient cria o cliente HTTP da API Gemini
func NewGeminiClient(baseURL, model, apiKey string) *GeminiClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")

	return &GeminiClient{
		client: client,
		model:  model,
		apiKey: apiKey,
	}
}

// Advise devolve o texto do primeiro candidato. Sem retry: o próximo ciclo tenta de novo.
// A chave vai no header para não aparecer em URLs de erros de transporte.
func (g *GeminiClient) Advise(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("model", g.model).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(generateContentRequest{
			Contents: []content{{Parts: []part{{Text: prompt}}}},
		}).
		Post("/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("generateContent request failed: %w", err)
	}

	body := resp.Body()
	if resp.IsError() {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("generateContent returned %d: %s", resp.StatusCode(), msg)
	}

	text := strings.TrimSpace(gjson.GetBytes(body, "candidates.0.content.parts.0.text").String())
	if text == "" {
		return "", ErrEmptyAdvice
	}
	return text, nil
}
