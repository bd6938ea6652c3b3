// Package suggest asks an OpenAI-compatible provider (Groq) for a draft
// answer to a question.
package suggest

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
)

// ErrUnavailable means the provider is unconfigured or unreachable; callers
// map it to 503.
var ErrUnavailable = errors.New("suggestion provider unavailable")

const (
	defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel    = "llama-3.1-70b-versatile"

	systemPrompt = `You are a helpful Q&A assistant for QuerySync, a real-time Q&A dashboard.
Your task is to provide clear, concise, and helpful answers to user questions.
Keep your responses professional and to the point.
If you're unsure about something, acknowledge it rather than making things up.`
)

type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SuggestAnswer drafts an answer for the question, feeding up to five previous
// answers as context.
func (c *Client) SuggestAnswer(ctx context.Context, question string, previousAnswers []string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY not configured", ErrUnavailable)
	}

	user := "Question: " + question
	if len(previousAnswers) > 0 {
		if len(previousAnswers) > 5 {
			previousAnswers = previousAnswers[:5]
		}
		var b strings.Builder
		b.WriteString("\n\nPrevious answers in the system:\n")
		for _, ans := range previousAnswers {
			r := []rune(ans)
			if len(r) > 200 {
				ans = string(r[:200])
			}
			b.WriteString("- " + ans + "\n")
		}
		user += b.String()
	}

	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": user},
		},
		"temperature": 0.7,
		"max_tokens":  500,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: groq API error: %s", ErrUnavailable, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from provider", ErrUnavailable)
	}
	return result.Choices[0].Message.Content, nil
}
