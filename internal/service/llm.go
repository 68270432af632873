// Package service contains clients for external services.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/plantbased/recipebook/config"
	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/pkg/log"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// Response represents a chat-completions response
type Response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// LLMService generates recipes through a chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger log.Logger
}

// NewLLMService creates a new LLMService instance. Returns an error when no
// API key is configured.
func NewLLMService(cfg *config.Config, logger log.Logger) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY or LLM_API_KEY_FILE must be set")
	}
	if logger == nil {
		logger = log.Nop()
	}

	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}, nil
}

const systemPrompt = `You are a professional vegan chef. Please provide your response as a single JSON object with the following structure:
{
    "name": "Recipe name",
    "description": "Brief description of the recipe",
    "category": "One of: Main Course, Dessert, Snack, Appetizer, Breakfast, Side Dish, Beverage, Soup, Salad, Bread",
    "ingredients": [
        "2 cups flour",
        "1 cup oat milk"
    ],
    "steps": [
        "Mix the dry ingredients",
        "Add the wet ingredients",
        "Bake at 350F for 30 minutes"
    ],
    "prep_time": "Preparation time",
    "cook_time": "Cooking time",
    "servings": "Number of servings",
    "difficulty": "Easy/Medium/Hard"
}

Every recipe must be fully vegan. Do not include any text before or after the JSON object.`

// GenerateRecipe asks the model for a vegan recipe matching the prompt and
// returns it validated.
func (s *LLMService) GenerateRecipe(ctx context.Context, prompt string) (*model.Recipe, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Generate a Vegan recipe based on the following request: %q", prompt)},
	}

	reqBody := Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.9,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call LLM API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read LLM response: %w", err)
	}

	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("LLM API error: %s", apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM API returned status %d", resp.StatusCode)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("LLM response contained no choices")
	}

	content := stripFences(apiResp.Choices[0].Message.Content)

	var recipe model.Recipe
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		s.logger.Warn("generated recipe was not valid JSON", log.Err(err))
		return nil, fmt.Errorf("generated recipe is not valid JSON: %w", err)
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("generated recipe failed validation: %w", err)
	}

	return &recipe, nil
}

// stripFences removes markdown code fences that some models wrap around JSON
// output.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}
