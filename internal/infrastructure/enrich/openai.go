package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"IdeaOasis/internal/config"
	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

// OpenAIClient implements ports.Enricher backed by OpenAI-compatible
// chat-completion APIs. It asks for a localized title and structured summary
// as JSON and treats anything unparseable as an error; the fallback belongs
// to the orchestrator, not here.
type OpenAIClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Enricher = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const promptTemplate = `당신은 한국의 창업자들을 위한 아이디어 발굴 플랫폼의 전담 에이전트입니다.
다음 해외 아이디어를 한국어로 요약, 번역, 맥락화해주세요.

제목: %s
내용: %s
출처: %s
카테고리: %s

다음 JSON 형태로만 응답해주세요:
{"idea_title": "한국어 제목 (간결하고 임팩트 있게)", "summary_kr": "아이디어 개요, 핵심 가치 제안, 한국 시장 적용 방안, 비즈니스 모델, 실행 로드맵을 포함한 구조화된 요약"}`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Enrich posts the candidate to the chat API and parses the localized payload.
func (c *OpenAIClient) Enrich(ctx context.Context, idea domain.RawIdea) (domain.EnrichedSummary, error) {
	if c == nil || c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.EnrichedSummary{}, fmt.Errorf("enrichment client misconfigured")
	}

	prompt := fmt.Sprintf(promptTemplate, idea.Title, idea.Content, idea.SourceType, idea.Category)
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("marshal enrichment payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("enrichment request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.EnrichedSummary{}, fmt.Errorf("enrichment error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("decode enrichment response: %w", err)
	}
	if parsed.Error != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("enrichment service: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return domain.EnrichedSummary{}, fmt.Errorf("empty enrichment response")
	}

	content := extractJSON(parsed.Choices[0].Message.Content)

	var payload struct {
		IdeaTitle string `json:"idea_title"`
		SummaryKR string `json:"summary_kr"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.EnrichedSummary{}, fmt.Errorf("parse enrichment JSON: %w", err)
	}
	if strings.TrimSpace(payload.SummaryKR) == "" {
		return domain.EnrichedSummary{}, fmt.Errorf("enrichment returned empty summary")
	}

	return domain.EnrichedSummary{
		LocalizedTitle:   payload.IdeaTitle,
		LocalizedSummary: payload.SummaryKR,
	}, nil
}

// extractJSON strips an optional markdown code fence around the model output.
func extractJSON(text string) string {
	start := 0
	if idx := strings.Index(text, "```json"); idx != -1 {
		start = idx + len("```json")
	} else if idx := strings.Index(text, "```"); idx != -1 {
		start = idx + len("```")
	}

	end := len(text)
	if idx := strings.LastIndex(text, "```"); idx > start {
		end = idx
	}

	return strings.TrimSpace(text[start:end])
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a startup idea analyst and translator for Korean entrepreneurs. Always respond in valid JSON format."
	}
	return prompt
}
