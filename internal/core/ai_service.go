package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"listinghub-go/internal/models"
)

const (
	openAIEndpoint = "https://api.openai.com/v1/chat/completions"
	openAIModel    = "gpt-4o"

	generationPrompt = `Analyze this product image and provide:
1. A concise, compelling product title (5-10 words)
2. A detailed product description (2-3 sentences)
3. 3-5 relevant keywords for categorization

Format your response as:
TITLE: [product title]
DESCRIPTION: [detailed description]
KEYWORDS: [keyword1, keyword2, keyword3]`
)

// aiService implements AIService against the OpenAI chat completions API.
// The AI collaborator is opaque: one request in, one parsed draft out.
type aiService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAIService creates a new AIService using the given OpenAI API key.
func NewAIService(apiKey string, logger *zap.Logger) AIService {
	return &aiService{
		apiKey:     apiKey,
		endpoint:   openAIEndpoint,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateDescription sends the data-URL encoded image to the model and
// parses the TITLE/DESCRIPTION/KEYWORDS response into a draft.
func (s *aiService) GenerateDescription(ctx context.Context, imageData string) (*models.AIGenerationResult, error) {
	// Accept both a bare base64 payload and a full data URL.
	if strings.HasPrefix(imageData, "data:image") {
		if _, rest, ok := strings.Cut(imageData, ","); ok {
			imageData = rest
		}
	}

	reqBody := chatRequest{
		Model: openAIModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: generationPrompt},
				{Type: "image_url", ImageURL: &chatImageURL{
					URL: "data:image/jpeg;base64," + imageData,
				}},
			},
		}},
		MaxTokens: 500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode AI request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build AI request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("AI generation failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("AI generation failed: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("AI generation failed: invalid response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return nil, fmt.Errorf("AI generation failed: %s", chatResp.Error.Message)
		}
		return nil, fmt.Errorf("AI generation failed: status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("AI generation failed: empty response")
	}

	result := parseGenerationContent(chatResp.Choices[0].Message.Content)
	s.logger.Info("AI description generated", zap.String("title", result.Title))
	return result, nil
}

// parseGenerationContent extracts the draft fields from the model's
// line-oriented response, falling back to a generic title and the raw content
// when the expected markers are missing.
func parseGenerationContent(content string) *models.AIGenerationResult {
	var result models.AIGenerationResult

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			result.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			result.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		case strings.HasPrefix(line, "KEYWORDS:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "KEYWORDS:"))
			for _, kw := range strings.Split(raw, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					result.Keywords = append(result.Keywords, kw)
				}
			}
		}
	}

	if result.Title == "" || result.Description == "" {
		result.Title = "Product"
		if len(content) > 200 {
			content = content[:200]
		}
		result.Description = content
	}
	if len(result.Keywords) == 0 {
		result.Keywords = []string{"product"}
	}
	return &result
}
